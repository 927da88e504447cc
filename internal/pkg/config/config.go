package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Tasks TasksConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=caseflow"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type TasksConfig struct {
	// AdminAnchorID is the admin user co-assigned to every generated
	// milestone task alongside the client's first team member.
	AdminAnchorID   string `env:"TASKS_ADMIN_ANCHOR_ID"`
	AdminAnchorName string `env:"TASKS_ADMIN_ANCHOR_NAME, default=Administrator"`
	// SyncSchedule is a cron expression for the milestone sweep.
	SyncSchedule string `env:"TASKS_SYNC_SCHEDULE, default=0 2 * * *"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
