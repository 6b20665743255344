package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/online-store/store-service/shared/messaging"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	ServiceName string                   `yaml:"service_name"`
	Port        string                   `yaml:"port"`
	Database    DatabaseConfig           `yaml:"database"`
	RabbitMQ    messaging.RabbitMQConfig `yaml:"rabbitmq"`
}

type DatabaseConfig struct {
	Driver        string        `yaml:"driver"`
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Name          string        `yaml:"name"`
	SSLMode       string        `yaml:"sslmode"`
	MaxOpenConns  int           `yaml:"max_open_conns"`
	MaxIdleConns  int           `yaml:"max_idle_conns"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	Tables        TableNames    `yaml:"tables"`
}

// TableNames overrides the table each entity is stored in.
type TableNames struct {
	Categories   string `yaml:"categories"`
	Products     string `yaml:"products"`
	Discounts    string `yaml:"discounts"`
	Reservations string `yaml:"reservations"`
	Sales        string `yaml:"sales"`
}

func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func Default() Config {
	return Config{
		ServiceName: "store-service",
		Port:        "8000",
		Database: DatabaseConfig{
			Driver:        DriverPostgres,
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Password:      "postgres",
			Name:          "store_db",
			SSLMode:       "disable",
			MaxOpenConns:  25,
			MaxIdleConns:  10,
			SlowThreshold: 200 * time.Millisecond,
			Tables: TableNames{
				Categories:   "categories",
				Products:     "products",
				Discounts:    "discounts",
				Reservations: "reservations",
				Sales:        "sales",
			},
		},
		RabbitMQ: messaging.DefaultRabbitMQConfig(),
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// STORE_CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("STORE_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file read error: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config file parse error: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnvOrDefault("PORT", c.Port)

	db := &c.Database
	db.Driver = getEnvOrDefault("STORE_DB_DRIVER", db.Driver)
	db.Host = getEnvOrDefault("DB_HOST", db.Host)
	db.Port = getEnvOrDefault("DB_PORT", db.Port)
	db.User = getEnvOrDefault("DB_USER", db.User)
	db.Password = getEnvOrDefault("DB_PASSWORD", db.Password)
	db.Name = getEnvOrDefault("DB_NAME", db.Name)
	db.SSLMode = getEnvOrDefault("DB_SSLMODE", db.SSLMode)
	db.Tables.Categories = getEnvOrDefault("CATEGORIES_TABLE", db.Tables.Categories)
	db.Tables.Products = getEnvOrDefault("PRODUCTS_TABLE", db.Tables.Products)
	db.Tables.Discounts = getEnvOrDefault("DISCOUNTS_TABLE", db.Tables.Discounts)
	db.Tables.Reservations = getEnvOrDefault("RESERVATIONS_TABLE", db.Tables.Reservations)
	db.Tables.Sales = getEnvOrDefault("SALES_TABLE", db.Tables.Sales)

	var err error
	if db.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", db.MaxOpenConns); err != nil {
		return err
	}
	if db.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", db.MaxIdleConns); err != nil {
		return err
	}

	mq := &c.RabbitMQ
	if mq.Enabled, err = getEnvBool("RABBITMQ_ENABLED", mq.Enabled); err != nil {
		return err
	}
	mq.Host = getEnvOrDefault("RABBITMQ_HOST", mq.Host)
	if mq.Port, err = getEnvInt("RABBITMQ_PORT", mq.Port); err != nil {
		return err
	}
	mq.Username = getEnvOrDefault("RABBITMQ_USERNAME", mq.Username)
	mq.Password = getEnvOrDefault("RABBITMQ_PASSWORD", mq.Password)
	mq.VHost = getEnvOrDefault("RABBITMQ_VHOST", mq.VHost)
	mq.Exchange = getEnvOrDefault("RABBITMQ_EXCHANGE", mq.Exchange)
	if mq.RetryCount, err = getEnvInt("RABBITMQ_RETRY_COUNT", mq.RetryCount); err != nil {
		return err
	}
	if mq.PublishBuffer, err = getEnvInt("RABBITMQ_PUBLISH_BUFFER", mq.PublishBuffer); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("database host and name are required")
		}
		if c.Database.MaxOpenConns < 1 {
			return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
		}
		if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
			return fmt.Errorf("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q (want %s or %s)",
			c.Database.Driver, DriverPostgres, DriverMemory)
	}

	t := c.Database.Tables
	for _, name := range []string{t.Categories, t.Products, t.Discounts, t.Reservations, t.Sales} {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("table names must not be empty")
		}
	}

	if err := c.RabbitMQ.Validate(); err != nil {
		return err
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
