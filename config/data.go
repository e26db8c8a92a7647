package config

import (
	"time"

	"github.com/spf13/viper"
)

// Data holds data layer configuration.
type Data struct {
	Database *Database
	Redis    *Redis
}

// Database holds relational database configuration.
type Database struct {
	Driver          string // "sqlite3" or "postgres"
	Source          string
	MaxOpenConn     int
	MaxIdleConn     int
	ConnMaxLifetime time.Duration
}

// Redis holds redis configuration. An empty Addr disables redis-backed
// features (answer cache, rate limiting).
type Redis struct {
	Addr     string
	Username string
	Password string
	DB       int
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		Database: &Database{
			Driver:          v.GetString("data.database.driver"),
			Source:          v.GetString("data.database.source"),
			MaxOpenConn:     v.GetInt("data.database.max_open_conn"),
			MaxIdleConn:     v.GetInt("data.database.max_idle_conn"),
			ConnMaxLifetime: v.GetDuration("data.database.conn_max_lifetime"),
		},
		Redis: &Redis{
			Addr:     v.GetString("data.redis.addr"),
			Username: v.GetString("data.redis.username"),
			Password: v.GetString("data.redis.password"),
			DB:       v.GetInt("data.redis.db"),
		},
	}
}
