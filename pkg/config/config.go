// Package config loads service configuration with viper. Keys come from an
// optional quickbite.yaml plus environment variables (dashes become
// underscores, e.g. database-url / DATABASE_URL).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"quickbite/pkg/menu"
)

// Configuration holds everything cmd/api needs to wire the service.
type Configuration struct {
	Addr                string
	CertFile            string
	KeyFile             string
	RedisAddr           string
	DatabaseURL         string
	AMQPURL             string
	OtelHost            string
	CancelWindowMinutes int
	Menu                []menu.Item
}

// Read loads configuration from the given directory. A missing config file
// is fine; defaults and environment variables still apply.
func Read(path string) (*Configuration, error) {
	viper.SetConfigName("quickbite")
	viper.AddConfigPath(path)

	viper.SetDefault("addr", ":8443")
	viper.SetDefault("cert-file", "certs/server.crt")
	viper.SetDefault("key-file", "certs/server.key")
	viper.SetDefault("cancel-window-minutes", 5)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Configuration{
		Addr:                viper.GetString("addr"),
		CertFile:            viper.GetString("cert-file"),
		KeyFile:             viper.GetString("key-file"),
		RedisAddr:           viper.GetString("redis-addr"),
		DatabaseURL:         viper.GetString("database-url"),
		AMQPURL:             viper.GetString("amqp-url"),
		OtelHost:            viper.GetString("otel-host"),
		CancelWindowMinutes: viper.GetInt("cancel-window-minutes"),
	}

	if err := viper.UnmarshalKey("menu", &cfg.Menu); err != nil {
		return nil, fmt.Errorf("reading menu override: %w", err)
	}

	return cfg, nil
}
