package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Cache    *Cache
	Notify   *Notify
	Kafka    *Kafka
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

// Database points at the remote store. An empty DSN runs the service
// offline: orders stay local and accounts cannot be created.
type Database struct {
	DSN    string `env:"DATABASE_URI"`
	Driver string `env:"DATABASE_DRIVER"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Cache struct {
	Path string `env:"CACHE_PATH"`
}

type Notify struct {
	Endpoint    string        `env:"NOTIFY_ENDPOINT"`
	ChatID      string        `env:"NOTIFY_CHAT_ID"`
	IPLookupURL string        `env:"IP_LOOKUP_URL"`
	FallbackURL string        `env:"IP_FALLBACK_URL"`
	Timeout     time.Duration `env:"NOTIFY_TIMEOUT"`
}

type Kafka struct {
	Brokers string `env:"KAFKA_BROKERS"`
	Topic   string `env:"KAFKA_TOPIC"`
}

// NewConfig reads flags first, then lets the environment override them.
// A .env file in the working directory is loaded when present.
func NewConfig(args []string) (*Config, error) {
	_ = godotenv.Load()

	var db Database
	var http HTTP
	var cache Cache
	var notify Notify
	var kafka Kafka
	var app App

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.StringVar(&db.DSN, "d", "", "Database string")
	fs.StringVar(&db.Driver, "driver", DriverPostgres, "Remote store driver: postgres / sqlite")
	fs.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	fs.StringVar(&cache.Path, "c", "checkout.db", "Local order cache file")
	fs.StringVar(&notify.Endpoint, "n", "", "Operator notification endpoint")
	fs.StringVar(&notify.ChatID, "chat", "", "Operator chat id")
	fs.StringVar(&notify.IPLookupURL, "ip-lookup", "https://ipwho.is/", "Geo IP lookup service")
	fs.StringVar(&notify.FallbackURL, "ip-fallback", "https://api.ipify.org?format=json", "Plain IP lookup service")
	fs.DurationVar(&notify.Timeout, "notify-timeout", 5*time.Second, "Notification timeout")
	fs.StringVar(&kafka.Brokers, "k", "", "Kafka brokers, comma separated")
	fs.StringVar(&kafka.Topic, "topic", "checkout.orders", "Kafka topic for completed orders")
	fs.StringVar(&app.LogLevel, "l", `error`, "Log level")
	fs.StringVar(&app.Mode, "m", AppModeDevelop, "PROD / DEV")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&cache)
	if err != nil {
		return nil, fmt.Errorf("error parsing cache config: %w", err)
	}
	err = env.Parse(&notify)
	if err != nil {
		return nil, fmt.Errorf("error parsing notify config: %w", err)
	}
	err = env.Parse(&kafka)
	if err != nil {
		return nil, fmt.Errorf("error parsing kafka config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}

	if db.Driver != DriverPostgres && db.Driver != DriverSQLite {
		return nil, fmt.Errorf("unknown database driver %q", db.Driver)
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Cache:    &cache,
		Notify:   &notify,
		Kafka:    &kafka,
		App:      &app,
	}

	return &config, nil
}
