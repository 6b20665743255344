package messaging

import (
	"fmt"
	"strings"
	"time"
)

type RabbitMQConfig struct {
	Enabled           bool          `yaml:"enabled"`
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	VHost             string        `yaml:"vhost"`
	Exchange          string        `yaml:"exchange"`
	RetryCount        int           `yaml:"retry_count"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
	PublishBuffer     int           `yaml:"publish_buffer"`
}

func DefaultRabbitMQConfig() RabbitMQConfig {
	return RabbitMQConfig{
		Host:              "localhost",
		Port:              5672,
		Username:          "guest",
		Password:          "guest",
		VHost:             "/",
		Exchange:          "store.events",
		RetryCount:        3,
		RetryDelay:        5 * time.Second,
		ConnectionTimeout: 30 * time.Second,
		PublishBuffer:     256,
	}
}

func (c *RabbitMQConfig) ConnectionURL() string {
	vhost := c.VHost
	if vhost != "/" && !strings.HasPrefix(vhost, "/") {
		vhost = "/" + vhost
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		c.Username, c.Password, c.Host, c.Port, vhost)
}

func (c *RabbitMQConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("rabbitmq host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid rabbitmq port: %d", c.Port)
	}
	if c.Exchange == "" {
		return fmt.Errorf("rabbitmq exchange is required")
	}
	if c.RetryCount < 1 {
		return fmt.Errorf("rabbitmq retry count must be at least 1")
	}
	if c.PublishBuffer < 1 {
		return fmt.Errorf("rabbitmq publish buffer must be at least 1")
	}
	return nil
}
