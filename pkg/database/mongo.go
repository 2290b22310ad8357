package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neuvera-go/pkg/log"
)

var (
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
)

// InitMongo 连接 MongoDB 并选定数据库。
func InitMongo(url, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(url).
		// 嵌套文档解码为 map，metadata 才能原样输出为 JSON 对象
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	var err error
	MongoClient, err = mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatal("failed to connect to mongodb", err)
	}
	if err := MongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("failed to ping mongodb", err)
	}
	MongoDB = MongoClient.Database(name)

	log.Infof("MongoDB connected successfully, database=%s", name)
}

// CloseMongo 断开 MongoDB 连接。
func CloseMongo(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
