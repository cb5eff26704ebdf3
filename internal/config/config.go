/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads the server configuration from a YAML file, an
// optional .env file and environment variables, in increasing precedence.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/tenantstore/errors"
)

// Backend names.
const (
	BackendMemory    = "memory"
	BackendBadger    = "badger"
	BackendSQLite    = "sqlite"
	BackendRedis     = "redis"
	BackendDynamoDB  = "dynamodb"
	BackendS3        = "s3"
	BackendCassandra = "cassandra"
)

// Config is the complete server configuration.
type Config struct {
	Listen           string `yaml:"listen"`
	LogLevel         string `yaml:"logLevel"`
	Backend          string `yaml:"backend"`
	Codec            string `yaml:"codec"`
	FetchConcurrency int    `yaml:"fetchConcurrency"`
	Metrics          bool   `yaml:"metrics"`

	Badger    BadgerConfig    `yaml:"badger"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Redis     RedisConfig     `yaml:"redis"`
	AWS       AWSConfig       `yaml:"aws"`
	DynamoDB  DynamoDBConfig  `yaml:"dynamodb"`
	S3        S3Config        `yaml:"s3"`
	Cassandra CassandraConfig `yaml:"cassandra"`
}

type BadgerConfig struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"inMemory"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// AWSConfig holds the static credentials shared by the DynamoDB and S3
// backends.
type AWSConfig struct {
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
}

type DynamoDBConfig struct {
	Table string `yaml:"table"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Endpoint string `yaml:"endpoint"`
}

type CassandraConfig struct {
	Hosts    []string      `yaml:"hosts"`
	Keyspace string        `yaml:"keyspace"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing is set: an in-memory
// backend on :8080.
func Default() *Config {
	return &Config{
		Listen:           ":8080",
		LogLevel:         "info",
		Backend:          BackendMemory,
		Codec:            "json",
		FetchConcurrency: 8,
		Metrics:          true,
		SQLite:           SQLiteConfig{Path: "tenantstore.db"},
		Cassandra:        CassandraConfig{Keyspace: "tenantstore", Timeout: 10 * time.Second},
	}
}

// Load builds the configuration. path names an optional YAML file. envFiles
// are dotenv files; when none are given ".env" is read if present. Process
// environment variables take precedence over dotenv values.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	dotenv, err := readDotenv(envFiles)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readDotenv(files []string) (map[string]string, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return map[string]string{}, nil
			}
			return nil, err
		}
		files = []string{".env"}
	}
	values, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("TENANTSTORE_LISTEN", &c.Listen)
	str("TENANTSTORE_LOG_LEVEL", &c.LogLevel)
	str("TENANTSTORE_BACKEND", &c.Backend)
	str("TENANTSTORE_CODEC", &c.Codec)
	str("TENANTSTORE_BADGER_DIR", &c.Badger.Dir)
	str("TENANTSTORE_SQLITE_PATH", &c.SQLite.Path)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("AWS_ACCESS_KEY", &c.AWS.AccessKey)
	str("AWS_SECRET_KEY", &c.AWS.SecretKey)
	str("AWS_REGION", &c.AWS.Region)
	str("AWS_DDB_TABLE", &c.DynamoDB.Table)
	str("AWS_S3_BUCKET", &c.S3.Bucket)
	str("AWS_S3_ENDPOINT", &c.S3.Endpoint)
	str("CASSANDRA_KEYSPACE", &c.Cassandra.Keyspace)

	if v, ok := lookup("CASSANDRA_HOSTS"); ok && v != "" {
		c.Cassandra.Hosts = strings.Split(v, ",")
	}
	if v, ok := lookup("TENANTSTORE_FETCH_CONCURRENCY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidationError("TENANTSTORE_FETCH_CONCURRENCY", err.Error())
		}
		c.FetchConcurrency = n
	}
	return nil
}

// Validate checks that the fields required by the selected backend are set.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.NewValidationError("listen", "is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return errors.NewValidationError("logLevel", err.Error())
	}
	if c.Codec != "json" && c.Codec != "msgpack" {
		return errors.NewValidationError("codec", fmt.Sprintf("unknown codec %q", c.Codec))
	}
	if c.FetchConcurrency < 1 {
		return errors.NewValidationError("fetchConcurrency", "must be at least 1")
	}

	switch c.Backend {
	case BackendMemory:
	case BackendBadger:
		if c.Badger.Dir == "" && !c.Badger.InMemory {
			return errors.NewValidationError("badger.dir", "is required unless inMemory is set")
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.NewValidationError("sqlite.path", "is required")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.NewValidationError("redis.addr", "is required")
		}
	case BackendDynamoDB:
		if c.AWS.Region == "" || c.DynamoDB.Table == "" {
			return errors.NewValidationError("dynamodb", "aws.region and dynamodb.table are required")
		}
	case BackendS3:
		if c.AWS.Region == "" || c.S3.Bucket == "" {
			return errors.NewValidationError("s3", "aws.region and s3.bucket are required")
		}
	case BackendCassandra:
		if len(c.Cassandra.Hosts) == 0 || c.Cassandra.Keyspace == "" {
			return errors.NewValidationError("cassandra", "hosts and keyspace are required")
		}
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", c.Backend))
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}
