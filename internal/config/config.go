package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Email   EmailConfig   `yaml:"email"`
	Storage StorageConfig `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // allowed MIME types
	} `yaml:"upload"`

	Redis struct {
		Addr string `yaml:"addr"` // empty disables the rate limiter
	} `yaml:"redis"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

type EmailConfig struct {
	Host     string `yaml:"smtp_host"`
	Port     int    `yaml:"smtp_port"`
	Username string `yaml:"smtp_user"`
	Password string `yaml:"smtp_password"`
	From     string `yaml:"from_email"`
	FromName string `yaml:"from_name"`
	UseTLS   bool   `yaml:"use_tls"`
}

type StorageConfig struct {
	Type       string `yaml:"type"`        // local, s3
	BasePath   string `yaml:"base_path"`   // for local storage
	BaseURL    string `yaml:"base_url"`    // public URL base
	Bucket     string `yaml:"bucket"`      // for S3
	Region     string `yaml:"region"`      // for S3
	AccessKey  string `yaml:"access_key"`  // for S3
	SecretKey  string `yaml:"secret_key"`  // for S3
	Endpoint   string `yaml:"endpoint"`    // for custom S3 endpoints
	UseSSL     bool   `yaml:"use_ssl"`     // for S3
	PublicRead bool   `yaml:"public_read"` // make files public
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyEnvOverrides(&cfg)
		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Environment-variable mode (tests, containerized deploys)
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.Host = os.Getenv("SMTP_HOST")
	cfg.Email.Port = 587
	cfg.Email.From = os.Getenv("SMTP_FROM")

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyEnvOverrides lets sensitive values come from the environment even in
// file mode, so secrets stay out of config.yaml.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FIRST_ADMIN_EMAIL"); v != "" {
		cfg.FirstAdminEmail = v
	}
	if v := os.Getenv("FIRST_ADMIN_PASSWORD"); v != "" {
		cfg.FirstAdminPassword = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"video/mp4", "video/quicktime",
			"audio/mpeg", "audio/ogg", "audio/wav",
			"application/pdf", "application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"text/plain",
		}
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
