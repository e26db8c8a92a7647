// Package config loads application configuration from YAML files and
// environment variables via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/learnhub/learnhub/logging/logger"
)

// Config represents the application configuration.
type Config struct {
	AppName     string
	Environment string // gin mode: debug, release, test
	Host        string
	Port        int
	Logger      *logger.Config
	Data        *Data
	Auth        *Auth
	AI          *AI
	Email       *Email
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from the given file path. When path is empty,
// a config.yaml is searched in the working directory and /etc/learnhub.
// Environment variables override file values (LEARNHUB_SERVER_PORT etc).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/learnhub")
	}

	v.SetEnvPrefix("learnhub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults plus env cover the dev setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		AppName:     v.GetString("app_name"),
		Environment: v.GetString("run_mode"),
		Host:        v.GetString("server.host"),
		Port:        v.GetInt("server.port"),
		Logger:      getLoggerConfig(v),
		Data:        getDataConfig(v),
		Auth:        getAuthConfig(v),
		AI:          getAIConfig(v),
		Email:       getEmailConfig(v),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "learnhub")
	v.SetDefault("run_mode", "release")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logger.level", 4)
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("data.database.driver", "sqlite3")
	v.SetDefault("data.database.source", "file:learnhub.db?cache=shared&_fk=1")
	v.SetDefault("data.database.max_open_conn", 10)
	v.SetDefault("data.database.max_idle_conn", 5)
	v.SetDefault("auth.access_token_expiry", "30m")
	v.SetDefault("auth.refresh_token_expiry", "720h")
	v.SetDefault("ai.base_url", "https://api.cohere.com")
	v.SetDefault("ai.chat_model", "command-r-plus-08-2024")
	v.SetDefault("ai.embed_model", "embed-english-v3.0")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 500)
	v.SetDefault("ai.retrieval_k", 5)
	v.SetDefault("ai.timeout", "30s")
}

func getLoggerConfig(v *viper.Viper) *logger.Config {
	return &logger.Config{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
}
