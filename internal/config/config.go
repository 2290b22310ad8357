// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件和环境变量加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	LLM      LLMConfig      `mapstructure:"llm"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有存储连接的配置。
// Driver 取值 "mongo" 或 "mysql"，决定使用哪一种持久化后端。
type DatabaseConfig struct {
	Driver string      `mapstructure:"driver"`
	MySQL  MySQLConfig `mapstructure:"mysql"`
	Mongo  MongoConfig `mapstructure:"mongo"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// MongoConfig 存储 MongoDB 的连接串和数据库名。
type MongoConfig struct {
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// AdminConfig 存储管理员登录凭据。PasswordHash 为 bcrypt 哈希，
// 两项任一为空时管理员登录始终失败。
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	Email        string `mapstructure:"email"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置。Brokers 为空时不发布埋点事件。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// BrokerList 将逗号分隔的 broker 地址拆分为切片。
func (k KafkaConfig) BrokerList() []string {
	return splitList(k.Brokers)
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	APIKey         string              `mapstructure:"api_key"`
	BaseURL        string              `mapstructure:"base_url"`
	Model          string              `mapstructure:"model"`
	TimeoutSeconds int                 `mapstructure:"timeout_seconds"`
	Generation     LLMGenerationConfig `mapstructure:"generation"`
	Prompt         LLMPromptConfig     `mapstructure:"prompt"`
}

// LLMGenerationConfig 配置生成相关参数（可选）。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// LLMPromptConfig 配置系统提示（可选，留空使用内置人设）。
type LLMPromptConfig struct {
	System string `mapstructure:"system"`
}

// CORSConfig 存储跨域来源配置，Origins 为逗号分隔的列表。
type CORSConfig struct {
	Origins string `mapstructure:"origins"`
}

// AllowedOrigins 返回允许的跨域来源列表，空配置等价于 "*"。
func (c CORSConfig) AllowedOrigins() []string {
	origins := splitList(c.Origins)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// envBindings 将配置键绑定到部署时使用的环境变量名。
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.mode":             "GIN_MODE",
	"database.driver":         "STORE_DRIVER",
	"database.mysql.dsn":      "MYSQL_DSN",
	"database.mongo.url":      "MONGO_URL",
	"database.mongo.name":     "DB_NAME",
	"database.redis.addr":     "REDIS_ADDR",
	"database.redis.password": "REDIS_PASSWORD",
	"jwt.secret":              "JWT_SECRET",
	"admin.username":          "ADMIN_USERNAME",
	"admin.password_hash":     "ADMIN_PASSWORD_HASH",
	"kafka.brokers":           "KAFKA_BROKERS",
	"kafka.topic":             "KAFKA_TOPIC",
	"llm.api_key":             "GROQ_API_KEY",
	"llm.base_url":            "LLM_BASE_URL",
	"llm.model":               "LLM_MODEL",
	"cors.origins":            "CORS_ORIGINS",
	"log.level":               "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8001")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.mongo.url", "mongodb://localhost:27017")
	v.SetDefault("database.mongo.name", "neuvera")
	v.SetDefault("database.redis.addr", "localhost:6379")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("admin.email", "admin@neuvera.ai")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("kafka.topic", "neuvera.tracking-events")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.1-70b-versatile")
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("cors.origins", "*")
}

// Load 读取 YAML 配置文件（文件不存在时仅使用默认值），再以环境变量覆盖。
func Load(configPath string) (Config, error) {
	var cfg Config
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return cfg, fmt.Errorf("绑定环境变量 %s 失败: %w", env, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return cfg, fmt.Errorf("读取配置文件失败: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("访问配置文件失败: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return cfg, errors.New("jwt.secret 不能为空")
	}
	return cfg, nil
}

// Init 初始化配置加载，结果写入全局变量 Conf。失败时直接 panic。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
