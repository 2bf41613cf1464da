package configs

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	AppPort string `env:"APP_PORT" env-default:":8085"`
	Env     string `env:"ENV" env-default:"local"`

	DBHost      string   `env:"DB_HOST" env-default:"comment-db"`
	DBPort      string   `env:"DB_PORT" env-default:"5432"`
	DBUser      string   `env:"DB_USER" env-default:"comment"`
	DBPass      string   `env:"DB_PASSWORD" env-default:"commentpass"`
	DBName      string   `env:"DB_NAME" env-default:"comment_db"`
	DBReplicas  []string `env:"DB_REPLICA_DSNS" env-separator:","`
	AutoMigrate bool     `env:"AUTO_MIGRATE" env-default:"false"`

	RedisHost       string        `env:"REDIS_HOST" env-default:"redis-comment"`
	RedisPort       string        `env:"REDIS_PORT" env-default:"6379"`
	CommentCountTTL time.Duration `env:"COMMENT_COUNT_TTL" env-default:"10m"`

	KafkaBootstrap string `env:"KAFKA_BOOTSTRAP_SERVERS" env-default:"kafka:9092"`
	KafkaTopic     string `env:"KAFKA_TOPIC_COMMENTS" env-default:"comments.events"`
	KafkaAcks      string `env:"KAFKA_REQUIRED_ACKS" env-default:"one"`
	KafkaAsync     bool   `env:"KAFKA_ASYNC" env-default:"false"`

	JWTSecret string `env:"JWT_SECRET" env-default:"replace-this-with-a-strong-secret"`

	OTELEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"otel-collector:4318"`
	OTELServiceName string  `env:"OTEL_SERVICE_NAME" env-default:"comment-service"`
	OTELSampleRatio float64 `env:"OTEL_TRACES_SAMPLER_ARG" env-default:"1"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.OTELSampleRatio < 0 || cfg.OTELSampleRatio > 1 {
		cfg.OTELSampleRatio = 1
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
