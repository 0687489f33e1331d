package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Queue       QueueConfig
	ObjectStore ObjectStoreConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        string
	Version     string
	URL         string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	DialTimeout time.Duration
}

// QueueConfig configures the asynq client/server used to schedule and run
// the replenishment-generation and ABC-classification cron jobs.
type QueueConfig struct {
	RedisAddr             string
	Concurrency           int
	ReplenishmentCron     string
	ABCClassificationCron string
}

// ObjectStoreConfig configures the MinIO-backed label sink that persists
// opaque label bytes produced by print_label operations.
type ObjectStoreConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// setDefaults registers the fallback value for every key Load reads, so the
// environment variable bindEnv binds to a key wins when set and these apply
// otherwise.
func setDefaults() {
	viper.SetDefault("app.name", "WMS Core")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.url", "http://localhost:8080")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "wms")
	viper.SetDefault("db.password", "secret")
	viper.SetDefault("db.name", "wms_core_dev")
	viper.SetDefault("db.max_connections", 25)
	viper.SetDefault("db.max_idle_connections", 5)
	viper.SetDefault("db.connection_lifetime", "5m")

	viper.SetDefault("redis.host", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)

	viper.SetDefault("queue.redis_addr", "localhost:6379")
	viper.SetDefault("queue.concurrency", 5)
	viper.SetDefault("queue.replenishment_cron", "*/15 * * * *")
	viper.SetDefault("queue.abc_classification_cron", "0 2 * * *")

	viper.SetDefault("object_store.endpoint", "localhost:9000")
	viper.SetDefault("object_store.access_key", "minioadmin")
	viper.SetDefault("object_store.secret_key", "minioadmin")
	viper.SetDefault("object_store.bucket", "wms-labels")
	viper.SetDefault("object_store.use_ssl", false)
}

// bindEnv wires each viper key to the upper-snake-case environment variable
// name wmsctl/worker operators already set (APP_NAME, DB_HOST, ...),
// keeping the env surface unchanged while the lookup goes through viper.
func bindEnv() {
	binds := map[string]string{
		"app.name": "APP_NAME", "app.env": "APP_ENV", "app.port": "APP_PORT",
		"app.version": "APP_VERSION", "app.url": "APP_URL",

		"db.host": "DB_HOST", "db.port": "DB_PORT", "db.user": "DB_USER",
		"db.password": "DB_PASSWORD", "db.name": "DB_NAME",
		"db.max_connections": "DB_MAX_CONNECTIONS", "db.max_idle_connections": "DB_MAX_IDLE_CONNECTIONS",
		"db.connection_lifetime": "DB_CONNECTION_LIFETIME",

		"redis.host": "REDIS_HOST", "redis.password": "REDIS_PASSWORD", "redis.db": "REDIS_DB",
		"redis.max_retries": "REDIS_MAX_RETRIES", "redis.pool_size": "REDIS_POOL_SIZE",

		"queue.redis_addr": "QUEUE_REDIS_ADDR", "queue.concurrency": "QUEUE_CONCURRENCY",
		"queue.replenishment_cron": "QUEUE_REPLENISHMENT_CRON", "queue.abc_classification_cron": "QUEUE_ABC_CLASSIFICATION_CRON",

		"object_store.endpoint": "OBJECT_STORE_ENDPOINT", "object_store.access_key": "OBJECT_STORE_ACCESS_KEY",
		"object_store.secret_key": "OBJECT_STORE_SECRET_KEY", "object_store.bucket": "OBJECT_STORE_BUCKET",
		"object_store.use_ssl": "OBJECT_STORE_USE_SSL",
	}
	for key, env := range binds {
		viper.BindEnv(key, env)
	}
}

func Load() (*Config, error) {
	setDefaults()
	bindEnv()

	cfg := &Config{
		App: AppConfig{
			Name:        viper.GetString("app.name"),
			Environment: viper.GetString("app.env"),
			Port:        viper.GetString("app.port"),
			Version:     viper.GetString("app.version"),
			URL:         viper.GetString("app.url"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("db.host"),
			Port:            viper.GetString("db.port"),
			User:            viper.GetString("db.user"),
			Password:        viper.GetString("db.password"),
			Name:            viper.GetString("db.name"),
			MaxConnections:  viper.GetInt("db.max_connections"),
			MaxIdleConns:    viper.GetInt("db.max_idle_connections"),
			ConnMaxLifetime: viper.GetDuration("db.connection_lifetime"),
		},
		Redis: RedisConfig{
			Host:        viper.GetString("redis.host"),
			Password:    viper.GetString("redis.password"),
			DB:          viper.GetInt("redis.db"),
			MaxRetries:  viper.GetInt("redis.max_retries"),
			PoolSize:    viper.GetInt("redis.pool_size"),
			DialTimeout: 5 * time.Second,
		},
		Queue: QueueConfig{
			RedisAddr:             viper.GetString("queue.redis_addr"),
			Concurrency:           viper.GetInt("queue.concurrency"),
			ReplenishmentCron:     viper.GetString("queue.replenishment_cron"),
			ABCClassificationCron: viper.GetString("queue.abc_classification_cron"),
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:        viper.GetString("object_store.endpoint"),
			AccessKeyID:     viper.GetString("object_store.access_key"),
			SecretAccessKey: viper.GetString("object_store.secret_key"),
			Bucket:          viper.GetString("object_store.bucket"),
			UseSSL:          viper.GetBool("object_store.use_ssl"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.ObjectStore.Bucket == "" {
		return fmt.Errorf("OBJECT_STORE_BUCKET is required")
	}
	return nil
}
