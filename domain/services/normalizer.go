package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/macwalk/macwalk/domain/entities"
)

// ErrMalformedAddress reports a MAC whose payload is not exactly 12 hex digits
// after separator removal.
var ErrMalformedAddress = errors.New("malformed MAC address")

var macSeparators = strings.NewReplacer(".", "", ":", "", "-", "")

// CanonicalMAC reduces any accepted MAC notation (dot-grouped nibbles, colon-
// or dash-grouped bytes, bare hex) to lower-case hex bytes joined by colons.
func CanonicalMAC(raw string) (string, error) {
	clean := strings.ToLower(macSeparators.Replace(strings.TrimSpace(raw)))
	if len(clean) != 12 {
		return "", fmt.Errorf("%w: %q is %d characters after separator removal", ErrMalformedAddress, raw, len(clean))
	}
	for _, ch := range clean {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return "", fmt.Errorf("%w: %q contains non-hex character %q", ErrMalformedAddress, raw, ch)
		}
	}
	var builder strings.Builder
	for i := 0; i < len(clean); i += 2 {
		if i > 0 {
			builder.WriteByte(':')
		}
		builder.WriteString(clean[i : i+2])
	}
	return builder.String(), nil
}

// NormalizeRecord maps one raw entry into the canonical record shape
func NormalizeRecord(raw entities.RawEntry) (entities.MacRecord, error) {
	mac, err := CanonicalMAC(raw["mac"])
	if err != nil {
		return entities.MacRecord{}, err
	}
	return entities.MacRecord{
		Vlan: vlanNumber(raw["vlan"]),
		Mac:  mac,
		Type: recordType(raw["type"]),
		Port: strings.TrimSpace(raw["port"]),
	}, nil
}

// NormalizeRecords maps a raw entry set into canonical records, skipping and
// counting entries whose address is malformed.
func NormalizeRecords(raws []entities.RawEntry) ([]entities.MacRecord, int) {
	records := make([]entities.MacRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, err := NormalizeRecord(raw)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

// recordType maps a platform's learned-type token onto the canonical enum
func recordType(raw string) entities.RecordType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dynamic":
		return entities.RecordDynamic
	case "static":
		return entities.RecordStatic
	default:
		return entities.RecordOther
	}
}

// vlanNumber parses a VLAN field; absent or non-numeric values map to the
// sentinel, never an error.
func vlanNumber(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return entities.VlanNone
	}
	return v
}
