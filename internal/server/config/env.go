package config

import (
	"time"

	"github.com/dmitrijs2005/clubevent/internal/flagx"
)

// parseEnv overlays values from CLUBEVENT_* variables. JWT_SECRET is honored
// as a fallback for the signing key.
func parseEnv(config *Config) {
	flagx.EnvString(&config.EndpointAddrHTTP, "CLUBEVENT_HTTP_ADDR")
	flagx.EnvString(&config.EndpointAddrGRPC, "CLUBEVENT_GRPC_ADDR")
	flagx.EnvString(&config.DatabaseDSN, "CLUBEVENT_DATABASE_DSN", "DATABASE_URL")
	flagx.EnvString(&config.SecretKey, "CLUBEVENT_SECRET_KEY", "JWT_SECRET")
	flagx.EnvString(&config.Environment, "CLUBEVENT_ENV")
	flagx.EnvString(&config.LogLevel, "CLUBEVENT_LOG_LEVEL")
	flagx.EnvInt(&config.BcryptCost, "CLUBEVENT_BCRYPT_COST")
	flagx.EnvBool(&config.RunMigrations, "CLUBEVENT_RUN_MIGRATIONS")

	var shutdown string
	flagx.EnvString(&shutdown, "CLUBEVENT_SHUTDOWN_TIMEOUT")
	if d, err := time.ParseDuration(shutdown); err == nil {
		config.ShutdownTimeout = d
	}
}
