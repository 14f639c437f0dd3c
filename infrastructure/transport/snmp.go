package transport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/macwalk/macwalk/domain/entities"
)

const (
	oidDot1qTpFdbPort         = ".1.3.6.1.2.1.17.7.1.2.2.1.2" // Q-BRIDGE-MIB dot1qTpFdbPort
	oidDot1qTpFdbStatus       = ".1.3.6.1.2.1.17.7.1.2.2.1.3" // Q-BRIDGE-MIB dot1qTpFdbStatus
	oidDot1dBasePortToIfIndex = ".1.3.6.1.2.1.17.1.4.1.2"     // BRIDGE-MIB dot1dBasePortToIfIndex
	oidIfName                 = ".1.3.6.1.2.1.31.1.1.1.1"     // IF-MIB ifName

	defaultSNMPPort = 161
)

// dot1qTpFdbStatus values
const (
	fdbStatusOther   = 1
	fdbStatusInvalid = 2
	fdbStatusLearned = 3
	fdbStatusSelf    = 4
	fdbStatusMgmt    = 5
)

// SNMPGetter serves the structured MAC table getter by walking the
// forwarding database over SNMP v2c. Each fetch opens and closes its own
// UDP socket.
type SNMPGetter struct {
	dev entities.Device
}

// NewSNMPGetter creates a getter for the given device
func NewSNMPGetter(dev entities.Device) *SNMPGetter {
	return &SNMPGetter{dev: dev}
}

// FetchMACTable walks dot1qTpFdbPort and returns one raw entry per learned
// address, joined with the status column and the resolved interface names.
func (g *SNMPGetter) FetchMACTable() ([]entities.RawEntry, error) {
	port := g.dev.SNMPPort
	if port == 0 {
		port = defaultSNMPPort
	}
	client := &gosnmp.GoSNMP{
		Target:    g.dev.Target,
		Port:      port,
		Community: g.dev.Community,
		Version:   gosnmp.Version2c,
		Timeout:   g.dev.Timeout(),
		Retries:   1,
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s via SNMP: %v", g.dev.Target, err)
	}
	defer client.Conn.Close()

	// Status and port-name lookups are best effort; switches with partial
	// BRIDGE-MIB support still yield addresses.
	statuses := g.walkStatuses(client)
	portNames := g.resolvePortNames(client)

	var entries []entities.RawEntry
	err := client.Walk(oidDot1qTpFdbPort, func(pdu gosnmp.SnmpPDU) error {
		suffix, vlan, mac, ok := splitFdbIndex(pdu.Name, oidDot1qTpFdbPort)
		if !ok {
			return nil
		}
		basePort, ok := pdu.Value.(int)
		if !ok {
			return nil
		}

		status, known := statuses[suffix]
		if !known {
			status = fdbStatusLearned
		}

		name, ok := portNames[basePort]
		if !ok {
			name = fmt.Sprintf("port-%d", basePort)
		}

		entries = append(entries, entities.RawEntry{
			"mac":       mac,
			"vlan":      strconv.Itoa(vlan),
			"interface": name,
			"static":    strconv.FormatBool(status == fdbStatusSelf || status == fdbStatusMgmt),
			"active":    strconv.FormatBool(status != fdbStatusInvalid),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk dot1qTpFdbPort on %s: %v", g.dev.Target, err)
	}

	if g.dev.IsDebugEnabled() {
		fmt.Printf("DEBUG: %s: SNMP walk returned %d FDB entries\n", g.dev.DisplayName(), len(entries))
	}
	return entries, nil
}

// walkStatuses collects dot1qTpFdbStatus keyed by the FDB index suffix
func (g *SNMPGetter) walkStatuses(client *gosnmp.GoSNMP) map[string]int {
	statuses := make(map[string]int)
	client.Walk(oidDot1qTpFdbStatus, func(pdu gosnmp.SnmpPDU) error {
		suffix, _, _, ok := splitFdbIndex(pdu.Name, oidDot1qTpFdbStatus)
		if !ok {
			return nil
		}
		if status, ok := pdu.Value.(int); ok {
			statuses[suffix] = status
		}
		return nil
	})
	return statuses
}

// resolvePortNames joins dot1dBasePortToIfIndex with ifName so entries carry
// interface names instead of bridge port numbers
func (g *SNMPGetter) resolvePortNames(client *gosnmp.GoSNMP) map[int]string {
	ifIndexes := make(map[int]int)
	client.Walk(oidDot1dBasePortToIfIndex, func(pdu gosnmp.SnmpPDU) error {
		basePort, ok := lastOIDNumber(pdu.Name)
		if !ok {
			return nil
		}
		if ifIndex, ok := pdu.Value.(int); ok {
			ifIndexes[basePort] = ifIndex
		}
		return nil
	})

	ifNames := make(map[int]string)
	client.Walk(oidIfName, func(pdu gosnmp.SnmpPDU) error {
		ifIndex, ok := lastOIDNumber(pdu.Name)
		if !ok {
			return nil
		}
		if pdu.Type == gosnmp.OctetString {
			if bytes, ok := pdu.Value.([]byte); ok {
				ifNames[ifIndex] = string(bytes)
			}
		}
		return nil
	})

	names := make(map[int]string, len(ifIndexes))
	for basePort, ifIndex := range ifIndexes {
		if name, ok := ifNames[ifIndex]; ok {
			names[basePort] = name
		}
	}
	return names
}

// splitFdbIndex decomposes a dot1qTpFdb OID into its index suffix, the VLAN
// number and the MAC address encoded in the last six sub-identifiers.
func splitFdbIndex(name, base string) (suffix string, vlan int, mac string, ok bool) {
	suffix = strings.TrimPrefix(name, base+".")
	if suffix == name {
		return "", 0, "", false
	}
	parts := strings.Split(suffix, ".")
	if len(parts) != 7 {
		return "", 0, "", false
	}
	vlan, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", 0, "", false
	}
	octets := make([]byte, 6)
	for i, part := range parts[1:] {
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 || value > 255 {
			return "", 0, "", false
		}
		octets[i] = byte(value)
	}
	mac = fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		octets[0], octets[1], octets[2], octets[3], octets[4], octets[5])
	return suffix, vlan, mac, true
}

// lastOIDNumber extracts the final sub-identifier of an OID
func lastOIDNumber(name string) (int, bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return 0, false
	}
	value, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return 0, false
	}
	return value, true
}
