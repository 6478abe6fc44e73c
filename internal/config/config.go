package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "KEEPSAKE"
	defaultHTTPAddress  = "0.0.0.0:8080"
	defaultDatabaseName = "keepsake"
	defaultMediaFolder  = "birthday"
	defaultCacheTTL     = 5 * time.Minute
	defaultCDNBaseURL   = "https://api.cloudinary.com"
	defaultLogLevel     = "info"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress  string
	MongoURI     string
	DatabaseName string
	CDNBaseURL   string
	CDNCloudName string
	CDNAPIKey    string
	CDNAPISecret string
	MediaFolder  string
	ListingTTL   time.Duration
	LogLevel     string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("mongo.database", defaultDatabaseName)
	configViper.SetDefault("cdn.base_url", defaultCDNBaseURL)
	configViper.SetDefault("media.folder", defaultMediaFolder)
	configViper.SetDefault("cache.ttl", defaultCacheTTL)
	configViper.SetDefault("log.level", defaultLogLevel)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:  configViper.GetString("http.address"),
		MongoURI:     configViper.GetString("mongo.uri"),
		DatabaseName: configViper.GetString("mongo.database"),
		CDNBaseURL:   configViper.GetString("cdn.base_url"),
		CDNCloudName: configViper.GetString("cdn.cloud_name"),
		CDNAPIKey:    configViper.GetString("cdn.api_key"),
		CDNAPISecret: configViper.GetString("cdn.api_secret"),
		MediaFolder:  configViper.GetString("media.folder"),
		ListingTTL:   configViper.GetDuration("cache.ttl"),
		LogLevel:     configViper.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.MongoURI) == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("mongo.database is required")
	}
	if strings.TrimSpace(c.CDNCloudName) == "" {
		return fmt.Errorf("cdn.cloud_name is required")
	}
	if strings.TrimSpace(c.CDNAPIKey) == "" {
		return fmt.Errorf("cdn.api_key is required")
	}
	if strings.TrimSpace(c.CDNAPISecret) == "" {
		return fmt.Errorf("cdn.api_secret is required")
	}
	if strings.TrimSpace(c.MediaFolder) == "" {
		return fmt.Errorf("media.folder is required")
	}
	if c.ListingTTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	return nil
}
