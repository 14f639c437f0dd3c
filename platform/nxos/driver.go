package nxos

import (
	"fmt"

	"github.com/macwalk/macwalk/domain/entities"
	"github.com/macwalk/macwalk/domain/ports"
)

const (
	driverName      = "nxos"
	macTableCommand = "show mac address-table"
	probeCommand    = "show version"
)

// Driver implements MAC table retrieval for Cisco NX-OS switches. NX-OS
// retrieval is command based; there is no structured getter path.
type Driver struct{}

// New creates a new NX-OS driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// Method identifies the primary retrieval strategy.
func (d *Driver) Method() entities.RetrievalMethod {
	return entities.MethodCommand
}

// ProbeCommand returns the command used by connectivity checks.
func (d *Driver) ProbeCommand() string {
	return probeCommand
}

// AuthSequence returns the NX-OS login prompt sequence.
func (d *Driver) AuthSequence(dev entities.Device) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: "login:", SendCmd: dev.Username},
		{WaitFor: "Password:", SendCmd: dev.Password},
	}
}

// Retrieve fetches the MAC table by running the show command and parsing
// its output.
func (d *Driver) Retrieve(sess ports.Session, dev entities.Device) (entities.Retrieval, error) {
	output, err := sess.ExecuteCommand(macTableCommand)
	if err != nil {
		return entities.Retrieval{}, fmt.Errorf("failed to retrieve MAC table: %w", err)
	}
	if dev.IsRawOutputEnabled() {
		fmt.Printf("Raw output of '%s':\n%s\n", macTableCommand, output)
	}
	entries, skippedLines := parseMACTable(output)
	if len(entries) == 0 && (skippedLines > 0 || isNXOSCommandError(output)) {
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
