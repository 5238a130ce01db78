package config

import (
	"errors"
	"log/slog"

	"github.com/spf13/viper"
)

type Config struct {
	Server Server
	MySQL  MySQL
	Redis  Redis
	JWT    JWT
	Kafka  Kafka
	Crypto Crypto
}

type Server struct {
	Port string
}

type MySQL struct {
	DSN string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type JWT struct {
	AccessSecret  string
	RefreshSecret string
}

type Kafka struct {
	Brokers []string
	Topic   string
}

// Crypto 私信加密配置；MessageKey 为 base64 编码的 32 字节对称密钥
type Crypto struct {
	MessageKey string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c)
	if err != nil {
		slog.Error("Unable to unmarshal config", "err", err)
		return nil, err
	}
	return &c, nil
}
