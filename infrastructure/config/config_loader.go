package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/macwalk/macwalk/domain/entities"
)

// Config defines the global configuration plus the device inventory. Global
// values act as defaults every device may override.
type Config struct {
	Platform        string            `yaml:"platform"`
	Transport       string            `yaml:"transport"`
	Username        string            `yaml:"username"`
	Password        string            `yaml:"password"`
	EnablePassword  string            `yaml:"enable_password"`
	Community       string            `yaml:"community"`
	SNMPPort        uint16            `yaml:"snmp_port"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	Workers         int               `yaml:"workers"`
	CommandFallback *bool             `yaml:"command_fallback"`
	Devices         []entities.Device `yaml:"devices"`
}

// Load reads and validates the inventory. A non-empty target narrows the
// inventory to the matching device. Platform tags are inherited but not
// validated here; an unknown platform must fail that device's scan, not the
// whole run.
func Load(yamlFile, target string, verbosityLevel int) (*Config, error) {
	data, err := os.ReadFile(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %v", yamlFile, err)
	}
	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %v", err)
	}

	debug := verbosityLevel == 1 || verbosityLevel == 3

	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))

	if cfg.Transport == "" {
		cfg.Transport = "telnet"
	}
	cfg.Transport = strings.ToLower(cfg.Transport)
	if cfg.Transport != "telnet" && cfg.Transport != "ssh" {
		return nil, fmt.Errorf("transport %s is invalid, must be 'telnet' or 'ssh'", cfg.Transport)
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	commandFallback := true
	if cfg.CommandFallback != nil {
		commandFallback = *cfg.CommandFallback
	}

	if debug {
		fmt.Printf("DEBUG: Global values: Platform=%s, Transport=%s, Workers=%d, CommandFallback=%v\n", cfg.Platform, cfg.Transport, cfg.Workers, commandFallback)
	}

	devices := make([]entities.Device, 0, len(cfg.Devices))
	seenTargets := make(map[string]bool, len(cfg.Devices))
	for i, dev := range cfg.Devices {
		if dev.Target == "" {
			return nil, fmt.Errorf("target is required for device %d", i)
		}
		// Duplicate targets would share one cached transport client between
		// concurrent pipelines, so the inventory must name each switch once.
		if seenTargets[dev.Target] {
			return nil, fmt.Errorf("duplicate target %s in device inventory", dev.Target)
		}
		seenTargets[dev.Target] = true
		if target != "" && dev.Target != target && dev.Name != target {
			continue
		}

		dev.Transport = strings.ToLower(strings.TrimSpace(dev.Transport))
		if dev.Transport == "" {
			dev.Transport = cfg.Transport
			if debug {
				fmt.Printf("DEBUG: No transport defined for device %s, using global %s\n", dev.Target, cfg.Transport)
			}
		}
		if dev.Transport != "telnet" && dev.Transport != "ssh" {
			return nil, fmt.Errorf("transport %s is invalid for device %s, must be 'telnet' or 'ssh'", dev.Transport, dev.Target)
		}
		if dev.Port < 0 || dev.Port > 65535 {
			return nil, fmt.Errorf("port %d is out of range for device %s", dev.Port, dev.Target)
		}

		dev.Platform = strings.ToLower(strings.TrimSpace(dev.Platform))
		if dev.Platform == "" {
			dev.Platform = cfg.Platform
			if debug {
				fmt.Printf("DEBUG: No platform defined for device %s, using global %s\n", dev.Target, cfg.Platform)
			}
		}
		if dev.Platform == "" {
			return nil, fmt.Errorf("platform is required for device %s, set it on the device or globally", dev.Target)
		}

		if dev.Username == "" && cfg.Username == "" {
			return nil, fmt.Errorf("username is required for device %s", dev.Target)
		}
		if dev.Password == "" && cfg.Password == "" {
			return nil, fmt.Errorf("password is required for device %s", dev.Target)
		}
		if dev.Username == "" {
			dev.Username = cfg.Username
			if debug {
				fmt.Printf("DEBUG: No username defined for device %s, using global %s\n", dev.Target, cfg.Username)
			}
		}
		if dev.Password == "" {
			dev.Password = cfg.Password
			if debug {
				fmt.Printf("DEBUG: No password defined for device %s, using global\n", dev.Target)
			}
		}
		if dev.EnablePassword == "" && cfg.EnablePassword != "" {
			dev.EnablePassword = cfg.EnablePassword
			if debug {
				fmt.Printf("DEBUG: No enable_password defined for device %s, using global\n", dev.Target)
			}
		}

		if dev.Community == "" {
			dev.Community = cfg.Community
		}
		if dev.SNMPPort == 0 {
			dev.SNMPPort = cfg.SNMPPort
		}
		if dev.TimeoutSeconds <= 0 {
			dev.TimeoutSeconds = cfg.TimeoutSeconds
		}

		dev.CommandFallback = commandFallback
		dev.VerbosityLevel = verbosityLevel

		if debug {
			fmt.Printf("DEBUG: Final configuration for device %s: Platform=%s, Transport=%s, Community set=%v, Timeout=%s\n", dev.Target, dev.Platform, dev.Transport, dev.Community != "", dev.Timeout())
		}

		devices = append(devices, dev)
	}

	if len(cfg.Devices) == 0 {
		return nil, fmt.Errorf("no devices defined in the YAML configuration")
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("target %s not found in the device inventory", target)
	}
	cfg.Devices = devices

	return &cfg, nil
}
