package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// External backend
	APIURL          string        `envconfig:"API_URL"`
	APIToken        string        `envconfig:"API_TOKEN"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`

	// CAPTCHA
	RecaptchaSecret    string `envconfig:"RECAPTCHA_SECRET_KEY"`
	RecaptchaVerifyURL string `envconfig:"RECAPTCHA_VERIFY_URL" default:"https://www.google.com/recaptcha/api/siteverify"`

	// Sessions
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	CheckoutIdleTTL time.Duration `envconfig:"CHECKOUT_IDLE_TTL" default:"30m"`
	CartIdleTTL     time.Duration `envconfig:"CART_IDLE_TTL" default:"30m"`

	// Cart persistence: memory, postgres or dynamodb
	StorageDriver    string `envconfig:"STORAGE_DRIVER" default:"memory"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DBHost           string `envconfig:"DB_HOST" default:"localhost"`
	DBPort           string `envconfig:"DB_PORT" default:"5432"`
	DBUser           string `envconfig:"DB_USER"`
	DBPassword       string `envconfig:"DB_PASSWORD"`
	DBName           string `envconfig:"DB_NAME"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"ap-southeast-1"`
	CartTableName    string `envconfig:"CART_TABLE_NAME" default:"carts"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT" default:""` // DynamoDB Local endpoint

	// Events
	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:""`
	OrderTopic   string `envconfig:"ORDER_TOPIC" default:"order-events"`

	// Delivery fee
	BaseDeliveryFee float64       `envconfig:"BASE_DELIVERY_FEE" default:"59"`
	FeeDebounce     time.Duration `envconfig:"FEE_DEBOUNCE" default:"500ms"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET must not be blank")
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	return &cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise builds one from the DB_* fields.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}
