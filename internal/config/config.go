package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	DeepSeek struct {
		APIKey         string `yaml:"apiKey"`
		BaseURL        string `yaml:"baseURL"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		MaxRetries     int    `yaml:"maxRetries"`
	} `yaml:"deepseek"`

	Auth struct {
		JWTSecret       string `yaml:"jwtSecret"`
		TokenTTLMinutes int    `yaml:"tokenTTLMinutes"`
		Enforce         bool   `yaml:"enforce"`
	} `yaml:"auth"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`
}

// Load reads the yaml config file and applies environment overrides
// for the secrets that should not live in the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" {
		cfg.DeepSeek.APIKey = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 24 * 60
	}
	if c.RateLimit.Burst == 0 && c.RateLimit.RPS > 0 {
		c.RateLimit.Burst = int(c.RateLimit.RPS * 2)
	}
}

// Validate fails fast on the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.DeepSeek.APIKey == "" {
		return errors.New("deepseek api key is not set (deepseek.apiKey or DEEPSEEK_API_KEY)")
	}
	if c.Database.Password == "" {
		return errors.New("database password is not set (database.password or DB_PASSWORD)")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret is not set (auth.jwtSecret or JWT_SECRET)")
	}
	return nil
}

// DSN builds the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// TokenTTL returns the configured token lifetime
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}
