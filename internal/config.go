/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Bucket    string
	Gzip      bool
	RedisAddr string
	LogLevel  string
	LogFormat string

	// DataDir, when set, stores tournaments on the local filesystem instead
	// of Bucket.
	DataDir string

	// PairingSeed seeds round 1. Zero means a new seed is drawn per
	// tournament.
	PairingSeed int64

	DiscordToken     string
	DiscordPublicKey string
	DiscordAppID     string
}

// LoadConfig reads the given .env files (or ./.env when none are named) and
// then the process environment. A missing .env file is not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("internal.config: failed to load %v: %w",
				envFiles, err)
		}
	}

	cfg := &Config{
		Bucket:           getenv(EnvBucket, DefaultBucket),
		DataDir:          os.Getenv(EnvDataDir),
		RedisAddr:        os.Getenv(EnvRedisAddr),
		LogLevel:         getenv(EnvLogLevel, "info"),
		LogFormat:        getenv(EnvLogFormat, "console"),
		DiscordToken:     os.Getenv(EnvDiscordToken),
		DiscordPublicKey: os.Getenv(EnvDiscordKey),
		DiscordAppID:     os.Getenv(EnvDiscordAppID),
	}

	var err error
	if v := os.Getenv(EnvGzip); v != "" {
		cfg.Gzip, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("internal.config: invalid %v=%q: %w", EnvGzip,
				v, err)
		}
	}
	if v := os.Getenv(EnvPairingSeed); v != "" {
		cfg.PairingSeed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("internal.config: invalid %v=%q: %w",
				EnvPairingSeed, v, err)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
