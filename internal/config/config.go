package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const ExamPapersBucket = "exam_papers"

type Config struct {
	Env        string     `yaml:"env" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	CORS       CORS       `yaml:"cors"`
	Postgres   Postgres   `yaml:"postgres"`
	ES         ES         `yaml:"elasticsearch"`
	Minio      Minio      `yaml:"minio"`
	Attempts   Attempts   `yaml:"attempts"`
	ExamFiles  ExamFiles  `yaml:"exam_files"`
}

type Minio struct {
	Endpoint  string                  `yaml:"endpoint" env-default:"minio:9000"`
	AccessKey string                  `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string                  `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool                    `yaml:"use_ssl"`
	Buckets   map[string]BucketConfig `yaml:"buckets"`
}

type BucketConfig struct {
	Name       string        `yaml:"name"`
	PresignTTL time.Duration `yaml:"presign_ttl"`
	Public     bool          `yaml:"public"`
}

// ES is optional. With no hosts keyword search falls back to Postgres.
type ES struct {
	Hosts    []string `yaml:"hosts"`
	Index    string   `yaml:"index" env-default:"keywords"`
	Password string   `yaml:"password" env:"ES_PASSWORD"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port" env-default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8081"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type CORS struct {
	AllowOrigins []string `yaml:"allow_origins" env-default:"http://localhost:5173"`
}

type Attempts struct {
	TTL           time.Duration `yaml:"ttl" env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"5m"`
}

type ExamFiles struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes" env-default:"52428800"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Can not read config file %s", err)
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
