package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete configuration for the broadcast engine service
type Config struct {
	Environment string          `mapstructure:"environment"`
	Debug       bool            `mapstructure:"debug"`
	Server      ServerConfig    `mapstructure:"server"`
	Broadcast   BroadcastConfig `mapstructure:"broadcast"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
	Kafka       KafkaConfig     `mapstructure:"kafka"`
	Realtime    RealtimeConfig  `mapstructure:"realtime"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	HTTPPort     int           `mapstructure:"http_port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// BroadcastConfig contains alert broadcast configuration
type BroadcastConfig struct {
	// DefaultContact is the emergency helpline substituted when the
	// caller does not supply a contact variable.
	DefaultContact string `mapstructure:"default_contact"`

	// SimulatedDeliveryRate is the fraction of reached recipients reported
	// as delivered. This is a cosmetic placeholder for the simulation, not
	// telemetry derived from per-send outcomes.
	SimulatedDeliveryRate float64 `mapstructure:"simulated_delivery_rate"`

	// Per-send simulated network latency bounds. Zero disables the delay.
	MinSendDelay time.Duration `mapstructure:"min_send_delay"`
	MaxSendDelay time.Duration `mapstructure:"max_send_delay"`

	// Per-channel send pacing.
	RateLimitPerSecond int `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int `mapstructure:"rate_limit_burst"`
}

// SchedulerConfig contains scheduled-broadcast sweep configuration
type SchedulerConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	DueCheckSchedule    string `mapstructure:"due_check_schedule"`
	ExpirySweepSchedule string `mapstructure:"expiry_sweep_schedule"`
}

// KafkaConfig contains the lifecycle-event publisher configuration
type KafkaConfig struct {
	Enabled bool         `mapstructure:"enabled"`
	Brokers []string     `mapstructure:"brokers"`
	Topics  TopicsConfig `mapstructure:"topics"`
}

// TopicsConfig contains Kafka topic configuration
type TopicsConfig struct {
	AlertCreated       string `mapstructure:"alert_created"`
	AlertStatusChanged string `mapstructure:"alert_status_changed"`
	BroadcastCompleted string `mapstructure:"broadcast_completed"`
	BroadcastLog       string `mapstructure:"broadcast_log"`
}

// RealtimeConfig contains the WebSocket feed configuration
type RealtimeConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	SendBufferSize int  `mapstructure:"send_buffer_size"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/broadcast-engine")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BROADCAST_ENGINE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("debug", false)

	viper.SetDefault("server.http_port", 8086)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("broadcast.default_contact", "1554")
	viper.SetDefault("broadcast.simulated_delivery_rate", 0.95)
	viper.SetDefault("broadcast.min_send_delay", "50ms")
	viper.SetDefault("broadcast.max_send_delay", "300ms")
	viper.SetDefault("broadcast.rate_limit_per_second", 50)
	viper.SetDefault("broadcast.rate_limit_burst", 10)

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.due_check_schedule", "*/15 * * * * *")
	viper.SetDefault("scheduler.expiry_sweep_schedule", "0 * * * * *")

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topics.alert_created", "alert-created")
	viper.SetDefault("kafka.topics.alert_status_changed", "alert-status-changed")
	viper.SetDefault("kafka.topics.broadcast_completed", "broadcast-completed")
	viper.SetDefault("kafka.topics.broadcast_log", "broadcast-log")

	viper.SetDefault("realtime.enabled", true)
	viper.SetDefault("realtime.send_buffer_size", 256)
}
