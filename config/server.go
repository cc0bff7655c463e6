package config

import "errors"

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Addr                   string `json:"addr"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ShutdownTimeoutSeconds == 0 {
		c.ShutdownTimeoutSeconds = 5
	}
}

func (c ServerConfig) Validate() error {
	if c.ShutdownTimeoutSeconds < 0 {
		return errors.New("shutdown_timeout_seconds must not be negative")
	}
	return nil
}
