package ports

import (
	"errors"
	"fmt"

	"github.com/macwalk/macwalk/domain/entities"
)

// GetterKind names a structured data getter a session may expose
type GetterKind string

// GetterMACTable asks for the device's MAC address table as structured entries
const GetterMACTable GetterKind = "mac-address-table"

// ErrGetterUnsupported is returned by sessions that cannot serve structured
// getters for this device, and by devices whose firmware rejects the getter.
var ErrGetterUnsupported = errors.New("structured getter not supported on this session")

// ParseError reports command output in which no MAC table row could be
// recognized at all, as opposed to rows that were individually skipped.
type ParseError struct {
	Command string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no MAC table rows recognized in output of %q", e.Command)
}

// Session defines the port for interacting with one switch
type Session interface {
	Connect() error
	Disconnect()
	IsConnected() bool
	ExecuteCommand(cmd string) (string, error)
	InvokeGetter(kind GetterKind) ([]entities.RawEntry, error)
}

// SessionFactory produces an unconnected session for an inventory device
type SessionFactory func(dev entities.Device) Session
