package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Kafka       KafkaConfig    `mapstructure:"kafka"`
	TON         ChainConfig    `mapstructure:"ton"`
	Tron        ChainConfig    `mapstructure:"tron"`
	Scanner     ScannerConfig  `mapstructure:"scanner"`
	Accrual     AccrualConfig  `mapstructure:"accrual"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Broker string `mapstructure:"broker"`
	Topic  string `mapstructure:"topic"`
}

// ChainConfig configures one external chain indexer and the custodial
// wallet it is polled for.
type ChainConfig struct {
	APIURL  string `mapstructure:"api_url"`
	APIKey  string `mapstructure:"api_key"`
	Wallet  string `mapstructure:"wallet"`
	Limit   int    `mapstructure:"limit"`
	Timeout int    `mapstructure:"timeout"` // seconds, per indexer call
}

type ScannerConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	WindowMin int           `mapstructure:"window_min"`
}

// Window is the trailing observation window. It must exceed the scan
// interval so consecutive polls overlap and a transaction straddling a
// poll boundary is still observed.
func (s ScannerConfig) Window() time.Duration {
	return time.Duration(s.WindowMin) * time.Minute
}

type AccrualConfig struct {
	Schedule  string        `mapstructure:"schedule"` // cron expression
	BatchSize int           `mapstructure:"batch_size"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`
}

// Load reads configuration from config.yaml (if present), .env and the
// environment, with sane defaults for everything but secrets.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Database.URL == "" {
		config.Database.URL = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			config.Database.User,
			config.Database.Password,
			config.Database.Host,
			config.Database.Port,
			config.Database.Name,
			config.Database.SSLMode,
		)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "tonforge")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("kafka.broker", "localhost:9092")
	viper.SetDefault("kafka.topic", "tonforge.notifications")

	viper.SetDefault("ton.api_url", "https://tonapi.io")
	viper.SetDefault("ton.limit", 100)
	viper.SetDefault("ton.timeout", 15)
	viper.SetDefault("tron.api_url", "https://api.trongrid.io")
	viper.SetDefault("tron.limit", 100)
	viper.SetDefault("tron.timeout", 15)

	viper.SetDefault("scanner.interval", "1m")
	viper.SetDefault("scanner.window_min", 10)

	viper.SetDefault("accrual.schedule", "0 0 * * *")
	viper.SetDefault("accrual.batch_size", 500)
	viper.SetDefault("accrual.lock_ttl", "30m")
}

func validate(cfg *Config) error {
	if cfg.TON.Wallet == "" && cfg.Tron.Wallet == "" {
		return fmt.Errorf("at least one custodial wallet address must be configured")
	}
	if cfg.Scanner.Window() <= cfg.Scanner.Interval {
		return fmt.Errorf("scanner window (%s) must exceed the scan interval (%s)",
			cfg.Scanner.Window(), cfg.Scanner.Interval)
	}
	return nil
}
