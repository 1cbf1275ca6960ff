package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 int
	PublicDir            string
	DatabaseDbPath       string
	DatabaseCacheAddress string
	DatabaseCachePort    int
	AdminUsername        string
	AdminPassword        string
	SessionTTL           time.Duration
	CheckinCooldown      time.Duration
}

func InitConfig() (Config, error) {
	viper.SetDefault("PORT", 3000)
	viper.SetDefault("PUBLIC_DIR", "public")
	viper.SetDefault("DATABASE_DB_PATH", "data/muster.sqlite")
	viper.SetDefault("DATABASE_CACHE_ADDRESS", "localhost")
	viper.SetDefault("DATABASE_CACHE_PORT", 6379)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "password")
	viper.SetDefault("SESSION_TTL", 7*24*time.Hour)
	viper.SetDefault("CHECKIN_COOLDOWN", 18*time.Hour)

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// A missing .env is fine, env vars and defaults still apply.
	_ = viper.ReadInConfig()

	config := Config{
		Port:                 viper.GetInt("PORT"),
		PublicDir:            viper.GetString("PUBLIC_DIR"),
		DatabaseDbPath:       viper.GetString("DATABASE_DB_PATH"),
		DatabaseCacheAddress: viper.GetString("DATABASE_CACHE_ADDRESS"),
		DatabaseCachePort:    viper.GetInt("DATABASE_CACHE_PORT"),
		AdminUsername:        viper.GetString("ADMIN_USERNAME"),
		AdminPassword:        viper.GetString("ADMIN_PASSWORD"),
		SessionTTL:           viper.GetDuration("SESSION_TTL"),
		CheckinCooldown:      viper.GetDuration("CHECKIN_COOLDOWN"),
	}

	return config, nil
}
