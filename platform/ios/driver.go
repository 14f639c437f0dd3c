package ios

import (
	"fmt"
	"strings"

	"github.com/macwalk/macwalk/domain/entities"
	"github.com/macwalk/macwalk/domain/ports"
)

const (
	driverName      = "ios"
	macTableCommand = "show mac address-table"
	probeCommand    = "show version"
)

// Driver implements MAC table retrieval for Cisco IOS switches. The primary
// path is the structured getter; the raw command grammar is the configurable
// fallback.
type Driver struct{}

// New creates a new IOS driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// Method identifies the primary retrieval strategy.
func (d *Driver) Method() entities.RetrievalMethod {
	return entities.MethodStructured
}

// ProbeCommand returns the command used by connectivity checks.
func (d *Driver) ProbeCommand() string {
	return probeCommand
}

// AuthSequence returns the IOS login prompt sequence.
func (d *Driver) AuthSequence(dev entities.Device) []entities.AuthPrompt {
	prompts := []entities.AuthPrompt{
		{WaitFor: "Username:", SendCmd: dev.Username},
		{WaitFor: "Password:", SendCmd: dev.Password},
	}
	if dev.EnablePassword != "" {
		prompts = append(prompts,
			entities.AuthPrompt{WaitFor: ">", SendCmd: "enable"},
			entities.AuthPrompt{WaitFor: "Password:", SendCmd: dev.EnablePassword},
		)
	}
	return prompts
}

// Retrieve fetches the MAC table through the structured getter. When the
// getter fails and the device allows command fallback, the raw show command
// is parsed instead.
func (d *Driver) Retrieve(sess ports.Session, dev entities.Device) (entities.Retrieval, error) {
	raws, err := sess.InvokeGetter(ports.GetterMACTable)
	if err == nil {
		entries := make([]entities.RawEntry, 0, len(raws))
		for _, raw := range raws {
			if raw["active"] == "false" {
				continue
			}
			entries = append(entries, adaptStructuredEntry(raw))
		}
		if dev.IsDebugEnabled() {
			fmt.Printf("DEBUG: %s: structured getter returned %d entries\n", dev.DisplayName(), len(entries))
		}
		return entities.Retrieval{Entries: entries, Method: entities.MethodStructured}, nil
	}
	if !dev.CommandFallback {
		return entities.Retrieval{}, err
	}
	if dev.IsDebugEnabled() {
		fmt.Printf("DEBUG: %s: structured getter failed (%v), falling back to '%s'\n", dev.DisplayName(), err, macTableCommand)
	}
	return retrieveByCommand(sess, dev)
}

func retrieveByCommand(sess ports.Session, dev entities.Device) (entities.Retrieval, error) {
	output, err := sess.ExecuteCommand(macTableCommand)
	if err != nil {
		return entities.Retrieval{}, fmt.Errorf("failed to retrieve MAC table: %w", err)
	}
	if dev.IsRawOutputEnabled() {
		fmt.Printf("Raw output of '%s':\n%s\n", macTableCommand, output)
	}
	entries, skippedLines := parseMACTable(output)
	if len(entries) == 0 && (skippedLines > 0 || isIOSCommandError(output)) {
		return entities.Retrieval{}, &ports.ParseError{Command: macTableCommand}
	}
	if dev.IsDebugEnabled() {
		fmt.Printf("DEBUG: %s: parsed %d MAC table rows (%d skipped)\n", dev.DisplayName(), len(entries), skippedLines)
	}
	return entities.Retrieval{
		Entries:      entries,
		Method:       entities.MethodCommand,
		SkippedLines: skippedLines,
	}, nil
}

// adaptStructuredEntry renames getter fields onto the common raw keys; the
// static flag folds into the type field. Values stay uncleaned for the
// normalizer.
func adaptStructuredEntry(raw entities.RawEntry) entities.RawEntry {
	entryType := "dynamic"
	if strings.EqualFold(raw["static"], "true") {
		entryType = "static"
	}
	return entities.RawEntry{
		"vlan": raw["vlan"],
		"mac":  raw["mac"],
		"type": entryType,
		"port": raw["interface"],
	}
}
