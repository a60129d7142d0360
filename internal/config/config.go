package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Config описывает полную конфигурацию приложения
type Config struct {
	Env      string         `yaml:"env"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Storage  StorageConfig  `yaml:"storage"`
	Payment  PaymentConfig  `yaml:"payment"`
	Checkout CheckoutConfig `yaml:"checkout"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	// URL имеет приоритет над отдельными полями (используется в облачных окружениях)
	URL string `yaml:"url"`
}

type JWTConfig struct {
	Secret          string `yaml:"secret"`
	AccessTTLHours  int    `yaml:"access_ttl_hours"`
	RefreshTTLHours int    `yaml:"refresh_ttl_hours"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type StorageConfig struct {
	// Driver: "local" или "s3"
	Driver    string `yaml:"driver"`
	LocalDir  string `yaml:"local_dir"`
	PublicURL string `yaml:"public_url"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// CheckoutConfig — реквизиты платежного шлюза для ссылок на оплату
type CheckoutConfig struct {
	MerchantLogin string `yaml:"merchant_login"`
	Password1     string `yaml:"password1"`
	Password2     string `yaml:"password2"`
	BaseURL       string `yaml:"base_url"`
	Currency      string `yaml:"currency"`
}

// PaymentConfig задает параметры начисления оплаты за выполненную работу
type PaymentConfig struct {
	// HourlyRate — ставка за час работы, в условных единицах
	HourlyRate float64 `yaml:"hourly_rate"`
	// PlatformFeePercent — комиссия площадки при выплате исполнителю
	PlatformFeePercent float64 `yaml:"platform_fee_percent"`
}

// Load загружает конфигурацию из yaml файла с override через env переменные
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "workhub",
			SSLMode: "disable",
		},
		JWT: JWTConfig{
			AccessTTLHours:  24,
			RefreshTTLHours: 24 * 7,
		},
		Storage: StorageConfig{
			Driver:   "local",
			LocalDir: "./uploads",
		},
		Payment: PaymentConfig{
			HourlyRate:         1500,
			PlatformFeePercent: 10,
		},
	}
}

// applyEnv перекрывает конфиг значениями из окружения
func (c *Config) applyEnv() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = p
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		c.Storage.Region = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		c.Storage.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.Storage.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.Storage.SecretKey = v
	}
	if v := os.Getenv("CHECKOUT_MERCHANT_LOGIN"); v != "" {
		c.Checkout.MerchantLogin = v
	}
	if v := os.Getenv("CHECKOUT_PASSWORD1"); v != "" {
		c.Checkout.Password1 = v
	}
	if v := os.Getenv("CHECKOUT_PASSWORD2"); v != "" {
		c.Checkout.Password2 = v
	}
	if v := os.Getenv("HOURLY_RATE"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r > 0 {
			c.Payment.HourlyRate = r
		}
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		if c.Env == "production" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWT.Secret = "dev-secret-do-not-use-in-production"
	}
	if c.Payment.HourlyRate <= 0 {
		return fmt.Errorf("payment.hourly_rate must be positive")
	}
	return nil
}

// DSN возвращает строку подключения к Postgres
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
