package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Client Client
	Relay  Relay
	Logger Logger
	Crypto Crypto
}

type Client struct {
	Home     string
	RelayURL string `mapstructure:"relay_url"`
	Timeout  time.Duration
}

type Relay struct {
	Addr            string
	Database        string
	MaxMessageBytes int `mapstructure:"max_message_bytes"`
}

type Logger struct {
	Development bool
	Level       string
}

type Crypto struct {
	// HybridBodies seals outgoing bodies with a wrapped content key instead
	// of direct RSA-OAEP, lifting the 190 byte limit.
	HybridBodies bool `mapstructure:"hybrid_bodies"`
}

const envPrefix = "SEALCHAT"

// LoadConfig reads config.yaml (or file, when set) and SEALCHAT_* overrides.
// A missing config file is not an error; defaults apply.
func LoadConfig(file string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		v.AddConfigPath(filepath.Join(userHome(), ".sealchat"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if c.Relay.MaxMessageBytes <= 0 {
		return nil, errors.Errorf("relay.max_message_bytes must be positive, got %d", c.Relay.MaxMessageBytes)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client.home", filepath.Join(userHome(), ".sealchat"))
	v.SetDefault("client.relay_url", "http://127.0.0.1:8080")
	v.SetDefault("client.timeout", 15*time.Second)

	v.SetDefault("relay.addr", ":8080")
	v.SetDefault("relay.database", "sealchat-relay.db")
	v.SetDefault("relay.max_message_bytes", 64*1024)

	v.SetDefault("logger.development", false)
	v.SetDefault("logger.level", "info")

	v.SetDefault("crypto.hybrid_bodies", false)
}

func userHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}
