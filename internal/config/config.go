package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the full client configuration, loaded from ~/.barbearia.yaml and
// BARBEARIA_* environment variables.
type Config struct {
	Server    ServerConfig
	Notify    NotifyConfig
	Chat      ChatConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	BaseURL string
	WSURL   string
	Timeout time.Duration
}

type NotifyConfig struct {
	Interval      time.Duration
	SoundCooldown time.Duration
	ToastTTL      time.Duration
	GraceDelay    time.Duration
}

type ChatConfig struct {
	TypingIdle time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	DebugAddr    string
}

// Load reads configuration with viper. A missing config file is not an error;
// defaults plus environment variables are enough to run against a local server.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".barbearia")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	v.SetDefault("server.baseurl", "http://localhost:5000")
	v.SetDefault("server.wsurl", "ws://localhost:5000/ws")
	v.SetDefault("server.timeout", "15s")
	v.SetDefault("notify.interval", "10s")
	v.SetDefault("notify.soundcooldown", "2s")
	v.SetDefault("notify.toastttl", "8s")
	v.SetDefault("notify.gracedelay", "2s")
	v.SetDefault("chat.typingidle", "1s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("BARBEARIA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
