package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	Port        string `mapstructure:"PORT"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("PORT", "8080")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Warn(".env file not found, loading from environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		logrus.Fatalf("Unable to decode config into struct: %v", err)
	}
}
