package config

import (
	"encoding/json"
	"os"

	"github.com/avolkau/taskkeeper/internal/flagx"
	"github.com/avolkau/taskkeeper/internal/timex"
)

// jsonConfig is an intermediate DTO for reading JSON configuration files.
// Interval fields use timex.Duration, which accepts both string values such
// as "15m" and integer nanoseconds. Only fields present in the file override
// the current config.
type jsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	FrontendOrigin              string         `json:"frontend_origin"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no file is given the
// config is left untouched; an unreadable or invalid file panics, since the
// process cannot start with half-applied configuration.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.FrontendOrigin != "" {
		config.FrontendOrigin = c.FrontendOrigin
	}
}
