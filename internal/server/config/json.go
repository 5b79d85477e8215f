package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/clubevent/internal/flagx"
	"github.com/dmitrijs2005/clubevent/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Duration fields
// use timex.Duration so both "5s" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from the zero value.
type JsonConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string          `json:"endpoint_addr_grpc"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	Environment           string          `json:"environment"`
	BcryptCost            int             `json:"bcrypt_cost"`
	LogLevel              string          `json:"log_level"`
	RunMigrations         *bool           `json:"run_migrations"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
	MigrationWriteTimeout *timex.Duration `json:"migration_write_timeout"`
}

// parseJson loads values from the file named by -c/-config into config.
// Empty fields in the file leave the current values untouched. A file that
// cannot be read or parsed panics, like a malformed flag does.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RunMigrations != nil {
		config.RunMigrations = *c.RunMigrations
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.MigrationWriteTimeout != nil {
		config.MigrationWriteTimeout = c.MigrationWriteTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
