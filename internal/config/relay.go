package config

import "os"

type RelayConfig struct {
	ListenPort int
	ListenHost string
	EnableQUIC bool
	EnableWS   bool
	KeyFile    string

	LogLevel  string
	LogFormat string
}

func LoadRelay() *RelayConfig {
	return &RelayConfig{
		ListenPort: envInt("RELAY_PORT", 4002),
		ListenHost: envString("RELAY_HOST", "0.0.0.0"),
		EnableQUIC: os.Getenv("ENABLE_QUIC") != "false",
		EnableWS:   os.Getenv("ENABLE_WS") != "false",
		KeyFile:    envString("RELAY_KEY_FILE", "relay.key"),
		LogLevel:   envString("LOG_LEVEL", "info"),
		LogFormat:  envString("LOG_FORMAT", "text"),
	}
}
