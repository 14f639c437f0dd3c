package platform

import (
	"fmt"
	"strings"

	"github.com/macwalk/macwalk/domain/entities"
	"github.com/macwalk/macwalk/domain/ports"
	"github.com/macwalk/macwalk/platform/ios"
	"github.com/macwalk/macwalk/platform/nxos"
)

// Driver defines the behaviour required to scan a switching platform.
type Driver interface {
	Name() string

	// Method identifies the platform's primary retrieval strategy.
	Method() entities.RetrievalMethod

	// ProbeCommand returns a cheap command used by connectivity checks.
	ProbeCommand() string

	// AuthSequence returns the login prompt sequence for CLI transports.
	AuthSequence(dev entities.Device) []entities.AuthPrompt

	// Retrieve fetches the device's MAC table as raw entries.
	Retrieve(sess ports.Session, dev entities.Device) (entities.Retrieval, error)
}

// UnsupportedPlatformError reports an inventory platform tag no driver claims.
// It is a per-device failure, never fatal to a run.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported switch platform: %q", e.Platform)
}

var registry = []Driver{
	ios.New(),
	nxos.New(),
}

// aliases maps platform spellings used by other automation stacks onto
// canonical driver names.
var aliases = map[string]string{
	"cisco_ios":  "ios",
	"cisco_nxos": "nxos",
	"nxos_ssh":   "nxos",
}

// Get returns the driver for a platform tag. The mapping is total: every tag
// resolves to exactly one driver or to an UnsupportedPlatformError.
func Get(name string) (Driver, error) {
	normalized := normalizeName(name)
	if canonical, ok := aliases[normalized]; ok {
		normalized = canonical
	}
	for _, driver := range registry {
		if driver.Name() == normalized {
			return driver, nil
		}
	}
	return nil, &UnsupportedPlatformError{Platform: name}
}

// Supported returns the canonical names of all registered drivers.
func Supported() []string {
	names := make([]string, len(registry))
	for i, driver := range registry {
		names[i] = driver.Name()
	}
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
