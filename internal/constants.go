/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent     = "cubeswiss/0.4.0 (+https://github.com/mikeb26/cubeswiss)"
	DefaultBucket = "cubeswiss-prod-tournaments"
	ServiceName   = "cubeswiss"
)

// Environment variables read by LoadConfig.
const (
	EnvBucket       = "SWISS_BUCKET"
	EnvDataDir      = "SWISS_DATA_DIR"
	EnvGzip         = "SWISS_GZIP"
	EnvRedisAddr    = "SWISS_REDIS_ADDR"
	EnvLogLevel     = "SWISS_LOG_LEVEL"
	EnvLogFormat    = "SWISS_LOG_FORMAT"
	EnvPairingSeed  = "SWISS_PAIRING_SEED"
	EnvDiscordToken = "DISCORD_BOT_TOKEN"
	EnvDiscordKey   = "DISCORD_PUBLIC_KEY"
	EnvDiscordAppID = "DISCORD_APP_ID"
)
