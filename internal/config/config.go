package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/the127/keyv/internal/args"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "KEYV_"

type Config struct {
	Server ServerConfig
	Store  StoreConfig
}

type ServerConfig struct {
	Port           int
	Host           string
	AllowedOrigins []string
}

type StoreConfig struct {
	// Adapter names a registered adapter. Empty picks one from the Uri scheme.
	Adapter string
	Uri     string

	Namespace   string
	Ttl         time.Duration
	Concurrency int

	Redis    RedisConfig
	Postgres PostgresConfig
	Bolt     BoltConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database int
}

type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SslMode  string
}

type BoltConfig struct {
	Path string
}

var C Config

func Init() {
	c, err := Load(args.ConfigFilePath())
	if err != nil {
		panic(err)
	}
	C = c
}

// Load reads the yaml file at path, if any, then applies KEYV_ environment
// overrides and fills in defaults.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		_, err := os.Stat(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to stat config file: %w", err)
		}

		err = k.Load(file.Provider(path), yaml.Parser())
		if err != nil {
			return Config{}, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")

			if strings.Contains(v, " ") {
				return k, strings.Split(v, " ")
			}

			return k, v
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load env provider: %w", err)
	}

	var c Config
	err = k.Unmarshal("", &c)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaultsOrPanic(&c)
	return c, nil
}

func setDefaultsOrPanic(c *Config) {
	setServerDefaultsOrPanic(&c.Server)
	setStoreDefaultsOrPanic(&c.Store)
}

func setServerDefaultsOrPanic(c *ServerConfig) {
	if c.Host == "" {
		if args.IsProduction() {
			panic("Server.Host must be set in production.")
		}

		c.Host = "localhost"
	}

	if c.Port == 0 {
		c.Port = 8080
	}
}

func setStoreDefaultsOrPanic(c *StoreConfig) {
	if c.Ttl < 0 {
		panic(fmt.Errorf("Store.Ttl must not be negative, got %s", c.Ttl))
	}

	if c.Concurrency < 0 {
		panic(fmt.Errorf("Store.Concurrency must not be negative, got %d", c.Concurrency))
	}

	if c.Adapter == "" && c.Uri == "" && args.IsProduction() {
		panic("Store.Adapter or Store.Uri must be set in production.")
	}

	c.Adapter = strings.ToLower(c.Adapter)
	if c.Uri != "" {
		return
	}

	switch c.Adapter {
	case "redis":
		setRedisDefaultsOrPanic(&c.Redis)
		c.Uri = c.Redis.uri()

	case "postgres":
		setPostgresDefaultsOrPanic(&c.Postgres)
		c.Uri = c.Postgres.uri()

	case "bolt":
		if c.Bolt.Path == "" {
			panic("Store.Bolt.Path must be set for the bolt adapter.")
		}
		c.Uri = "bolt://" + c.Bolt.Path
	}
}

func setRedisDefaultsOrPanic(c *RedisConfig) {
	if c.Host == "" {
		if args.IsProduction() {
			panic("Store.Redis.Host must be set in production.")
		}

		c.Host = "localhost"
	}

	if c.Port == 0 {
		c.Port = 6379
	}
}

func (c RedisConfig) uri() string {
	u := url.URL{
		Scheme: "redis",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   fmt.Sprintf("/%d", c.Database),
	}
	if c.Username != "" || c.Password != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}

func setPostgresDefaultsOrPanic(c *PostgresConfig) {
	if c.Host == "" {
		if args.IsProduction() {
			panic("Store.Postgres.Host must be set in production.")
		}

		c.Host = "localhost"
	}

	if c.Port == 0 {
		c.Port = 5432
	}

	if c.Database == "" {
		c.Database = "keyv"
	}

	if c.SslMode == "" {
		c.SslMode = "disable"
	}
}

func (c PostgresConfig) uri() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SslMode}}.Encode(),
	}
	if c.Username != "" || c.Password != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}
