package transport

import (
	"github.com/macwalk/macwalk/domain/entities"
	"github.com/macwalk/macwalk/domain/ports"
	"github.com/macwalk/macwalk/platform"
)

// structuredGetter is the contract the session needs from its getter side
type structuredGetter interface {
	FetchMACTable() ([]entities.RawEntry, error)
}

// DeviceSession adapts the transport clients onto the session port. It pairs
// a CLI client with an optional SNMP getter; devices without a community
// string are CLI only.
type DeviceSession struct {
	dev       entities.Device
	cli       Client
	getter    structuredGetter
	connected bool
}

// NewSessionFactory returns the session provider the scanner fans out over.
// CLI clients come from the shared cache and get the platform's auth
// sequence installed when they support it.
func NewSessionFactory() ports.SessionFactory {
	return func(dev entities.Device) ports.Session {
		cli := Get(dev)
		if driver, err := platform.Get(dev.Platform); err == nil {
			if configurable, ok := cli.(AuthConfigurable); ok {
				configurable.SetAuthSequence(driver.AuthSequence(dev))
			}
		}
		return NewDeviceSession(dev, cli)
	}
}

// NewDeviceSession creates a session over an existing CLI client
func NewDeviceSession(dev entities.Device, cli Client) *DeviceSession {
	sess := &DeviceSession{dev: dev, cli: cli}
	if dev.Community != "" {
		sess.getter = NewSNMPGetter(dev)
	}
	return sess
}

// Connect prepares the session. CLI-only sessions dial immediately; sessions
// with an SNMP getter defer the CLI dial until a command actually needs it,
// so getter-served devices do not require CLI reachability.
func (s *DeviceSession) Connect() error {
	if s.getter == nil {
		if err := s.cli.Connect(); err != nil {
			return err
		}
	}
	s.connected = true
	return nil
}

// Disconnect releases the CLI connection
func (s *DeviceSession) Disconnect() {
	s.connected = false
	s.cli.Disconnect()
}

func (s *DeviceSession) IsConnected() bool {
	return s.connected
}

// ExecuteCommand runs a CLI command, dialing first if the session was
// getter-primary and never needed the CLI before
func (s *DeviceSession) ExecuteCommand(cmd string) (string, error) {
	if !s.cli.IsConnected() {
		if err := s.cli.Connect(); err != nil {
			return "", err
		}
	}
	return s.cli.ExecuteCommand(cmd)
}

// InvokeGetter serves structured retrieval. Sessions without an SNMP getter
// report the operation as unsupported so drivers can fall back.
func (s *DeviceSession) InvokeGetter(kind ports.GetterKind) ([]entities.RawEntry, error) {
	if s.getter == nil {
		return nil, ports.ErrGetterUnsupported
	}
	switch kind {
	case ports.GetterMACTable:
		return s.getter.FetchMACTable()
	default:
		return nil, ports.ErrGetterUnsupported
	}
}
