package entities

import (
	"strings"
	"time"
)

// DefaultTimeoutSeconds bounds a device pipeline when the inventory sets no timeout
const DefaultTimeoutSeconds = 30

// Device describes one switch in the scan inventory
type Device struct {
	Name           string `yaml:"name"`
	Target         string `yaml:"target"`
	Platform       string `yaml:"platform"`
	Transport      string `yaml:"transport"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	EnablePassword string `yaml:"enable_password"`
	Community      string `yaml:"community"`
	SNMPPort       uint16 `yaml:"snmp_port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	// resolved at load time, never read from the inventory file
	CommandFallback bool `yaml:"-"`
	VerbosityLevel  int  `yaml:"-"`
}

// DisplayName returns the inventory name, falling back to the target address
func (d Device) DisplayName() string {
	if strings.TrimSpace(d.Name) != "" {
		return d.Name
	}
	return d.Target
}

// Timeout converts TimeoutSeconds into a duration
func (d Device) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// IsDebugEnabled returns true if debug logs are enabled
func (d Device) IsDebugEnabled() bool {
	return d.VerbosityLevel == 1 || d.VerbosityLevel == 3
}

// IsRawOutputEnabled returns true if raw switch output is enabled
func (d Device) IsRawOutputEnabled() bool {
	return d.VerbosityLevel == 2 || d.VerbosityLevel == 3
}

// AuthPrompt represents a prompt-response pair during authentication
type AuthPrompt struct {
	WaitFor string // prompt to wait for
	SendCmd string // command to send (empty means just wait)
}
