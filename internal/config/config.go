// Package config reads process configuration from the environment, after
// loading a .env file from the working directory when one exists.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"alnnames/internal/stream"
)

const (
	EnvStore       = "ALNNAMES_STORE"
	EnvLookupCache = "ALNNAMES_LOOKUP_CACHE"
	EnvS3Endpoint  = "ALNNAMES_S3_ENDPOINT"
	EnvS3Region    = "ALNNAMES_S3_REGION"
	EnvS3AccessKey = "ALNNAMES_S3_ACCESS_KEY"
	EnvS3SecretKey = "ALNNAMES_S3_SECRET_KEY"
	EnvS3UseSSL    = "ALNNAMES_S3_USE_SSL"

	DefaultLookupCache = 4096
)

type Config struct {
	// Store is the default store descriptor; --store overrides it.
	Store           string
	LookupCacheSize int
	S3              stream.S3Config
}

// Load reads .env (if present) and the environment. Existing environment
// variables win over .env entries.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an arbitrary lookup function.
func FromEnv(getenv func(string) string) *Config {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }
	return &Config{
		Store:           get(EnvStore),
		LookupCacheSize: intOr(get(EnvLookupCache), DefaultLookupCache),
		S3: stream.S3Config{
			Endpoint:  get(EnvS3Endpoint),
			Region:    firstNonEmpty(get(EnvS3Region), "us-east-1"),
			AccessKey: firstNonEmpty(get(EnvS3AccessKey), get("MINIO_ROOT_USER")),
			SecretKey: firstNonEmpty(get(EnvS3SecretKey), get("MINIO_ROOT_PASSWORD")),
			UseSSL:    boolOr(get(EnvS3UseSSL), true),
		},
	}
}

func intOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func boolOr(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
