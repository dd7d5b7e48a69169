package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string         `yaml:"env" env:"ENV" env-default:"local" json:"-"`
	DatabaseDSN string         `yaml:"database_dsn" env:"DATABASE_URL" env-required:"true" json:"-"`
	HTTPServer  HTTPServer     `yaml:"http_server" json:"-"`
	Auth        AuthConfig     `yaml:"auth" json:"-"`
	S3          S3Config       `yaml:"s3" json:"-"`
	Messages    MessagesConfig `yaml:"messages" json:"messages"`
	Uploads     UploadsConfig  `yaml:"uploads" json:"uploads"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8082" json:"-"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s" json:"-"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s" json:"-"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true" json:"-"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"720h" json:"-"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket" env:"S3_BUCKET" json:"-"`
	Region    string `yaml:"region" env:"S3_REGION" json:"-"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT" json:"-"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY" json:"-"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY" json:"-"`
}

type MessagesConfig struct {
	MaxContentLength int `yaml:"max_content_length" env-default:"4000" json:"max_content_length"`
}

type UploadsConfig struct {
	MaxFileSize        int64 `yaml:"max_file_size" env-default:"3145728" json:"max_file_size"`
	MaxTotalSize       int64 `yaml:"max_total_size" env-default:"4194304" json:"max_total_size"`
	MaxFilesPerMessage int   `yaml:"max_files_per_message" env-default:"5" json:"max_files_per_message"`

	PresignTTL PresignTTLConfig `yaml:"presign_ttl" json:"presign_ttl"`
}

type PresignTTLConfig struct {
	DownloadSec int `yaml:"download_sec" env-default:"900" json:"download_sec"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config %s", err)
	}

	return &cfg
}
