package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neuvera-go/internal/model"
)

// 集合名与表名保持一致。
const (
	usersCollection  = "users"
	chatsCollection  = "chats"
	eventsCollection = "tracking_events"
)

var newestFirst = bson.D{{Key: "timestamp", Value: -1}}

// NewMongoStore 用同一个 *mongo.Database 组装全部仓库。
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:  NewMongoUserRepository(db),
		Chats:  NewMongoChatRepository(db),
		Events: NewMongoEventRepository(db),
	}
}

// EnsureMongoIndexes 创建唯一邮箱索引以及按时间倒序查询所需的索引。
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "token", Value: 1}}},
		},
		chatsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: newestFirst},
		},
		eventsCollection: {
			{Keys: newestFirst},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository 创建一个基于 MongoDB 的 UserRepository。
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	return translateMongoError(err)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) FindByToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *mongoUserRepository) UpdateToken(ctx context.Context, userID, token string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": userID}, bson.M{"$set": bson.M{"token": token}})
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) UpsertByEmail(ctx context.Context, user *model.User) error {
	update := bson.M{
		"$set": bson.M{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"is_admin":   user.IsAdmin,
			"token":      user.Token,
			"password":   user.Password,
		},
		"$setOnInsert": bson.M{
			"created_at": user.CreatedAt,
		},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"email": user.Email}, update, options.Update().SetUpsert(true))
	return translateMongoError(err)
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

type mongoChatRepository struct {
	coll *mongo.Collection
}

// NewMongoChatRepository 创建一个基于 MongoDB 的 ChatRepository。
func NewMongoChatRepository(db *mongo.Database) ChatRepository {
	return &mongoChatRepository{coll: db.Collection(chatsCollection)}
}

func (r *mongoChatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return translateMongoError(err)
}

func (r *mongoChatRepository) find(ctx context.Context, filter bson.M, limit int) ([]model.ChatMessage, error) {
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	msgs := make([]model.ChatMessage, 0)
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *mongoChatRepository) FindByUser(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	return r.find(ctx, bson.M{"user_id": userID}, limit)
}

func (r *mongoChatRepository) FindRecent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *mongoChatRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

type mongoEventRepository struct {
	coll *mongo.Collection
}

// NewMongoEventRepository 创建一个基于 MongoDB 的 EventRepository。
func NewMongoEventRepository(db *mongo.Database) EventRepository {
	return &mongoEventRepository{coll: db.Collection(eventsCollection)}
}

func (r *mongoEventRepository) Create(ctx context.Context, event *model.TrackingEvent) error {
	_, err := r.coll.InsertOne(ctx, event)
	return translateMongoError(err)
}

func (r *mongoEventRepository) FindRecent(ctx context.Context, limit int) ([]model.TrackingEvent, error) {
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	events := make([]model.TrackingEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *mongoEventRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
