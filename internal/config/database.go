package config

import (
	"github.com/spf13/viper"

	"wms-core/internal/infrastructure/database"
)

// LoadDatabaseConfig reads the Postgres connection and pool settings,
// applying the same defaults the teacher used for local development. It
// binds a wider set of keys than Load's DatabaseConfig (pool min/max
// connections, retry/backoff, health-check period) since PostgresDB's
// connectWithRetry needs them directly.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	viper.SetDefault("db.port_num", 5432)
	viper.SetDefault("db.max_conns", 25)
	viper.SetDefault("db.min_conns", 5)
	viper.SetDefault("db.max_retries", 5)
	viper.SetDefault("db.max_conn_lifetime", "5m")
	viper.SetDefault("db.max_conn_idle_time", "1m")
	viper.SetDefault("db.health_check_period", "1m")
	viper.SetDefault("db.retry_delay", "1s")
	viper.SetDefault("db.connect_timeout", "10s")

	viper.BindEnv("db.port_num", "DB_PORT")
	viper.BindEnv("db.max_conns", "DB_MAX_CONNECTIONS")
	viper.BindEnv("db.min_conns", "DB_MIN_CONNECTIONS")
	viper.BindEnv("db.max_retries", "DB_MAX_RETRIES")
	viper.BindEnv("db.max_conn_lifetime", "DB_MAX_CONN_LIFETIME")
	viper.BindEnv("db.max_conn_idle_time", "DB_MAX_CONN_IDLE_TIME")
	viper.BindEnv("db.health_check_period", "DB_HEALTH_CHECK_PERIOD")
	viper.BindEnv("db.retry_delay", "DB_RETRY_DELAY")
	viper.BindEnv("db.connect_timeout", "DB_CONNECT_TIMEOUT")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.user", "wms")
	viper.SetDefault("db.password", "secret")
	viper.SetDefault("db.name", "wms_core_dev")
	viper.BindEnv("db.host", "DB_HOST")
	viper.BindEnv("db.user", "DB_USER")
	viper.BindEnv("db.password", "DB_PASSWORD")
	viper.BindEnv("db.name", "DB_NAME")

	return &database.DBConfig{
		Host:              viper.GetString("db.host"),
		Port:              viper.GetInt("db.port_num"),
		Username:          viper.GetString("db.user"),
		Password:          viper.GetString("db.password"),
		DBName:            viper.GetString("db.name"),
		MaxConns:          int32(viper.GetInt("db.max_conns")),
		MinConns:          int32(viper.GetInt("db.min_conns")),
		MaxConnLifetime:   viper.GetDuration("db.max_conn_lifetime"),
		MaxConnIdleTime:   viper.GetDuration("db.max_conn_idle_time"),
		HealthCheckPeriod: viper.GetDuration("db.health_check_period"),
		MaxRetries:        viper.GetInt("db.max_retries"),
		RetryDelay:        viper.GetDuration("db.retry_delay"),
		ConnectTimeout:    viper.GetDuration("db.connect_timeout"),
	}, nil
}
