package nxos

import (
	"strings"

	"github.com/macwalk/macwalk/domain/entities"
)

// minRowFields is the smallest column count of an NX-OS MAC table row:
// marker, vlan, mac address, type, age, secure/ntfy flags, port. Newer
// releases add columns; the port stays last.
const minRowFields = 7

// rowMarkers are the entry markers NX-OS prints in the first column.
var rowMarkers = map[string]bool{
	"*": true,
	"+": true,
	"G": true,
}

// parseMACTable extracts MAC table rows from NX-OS 'show mac address-table'
// output. A line is a candidate when its first token is an entry marker;
// candidates that do not match the row shape count as skipped. Legend lines
// explain the markers and are not candidates even though they start with one.
func parseMACTable(output string) ([]entities.RawEntry, int) {
	var entries []entities.RawEntry
	skipped := 0

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isSeparatorLine(line) || isLegendLine(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 || !rowMarkers[fields[0]] {
			continue
		}

		if len(fields) < minRowFields || !looksLikeMac(fields[2]) {
			skipped++
			continue
		}

		entries = append(entries, entities.RawEntry{
			"vlan": fields[1],
			"mac":  fields[2],
			"type": fields[3],
			"port": fields[len(fields)-1],
		})
	}

	return entries, skipped
}

// isLegendLine detects the marker legend NX-OS prints above the table.
// Those lines start with "*" or "+" themselves, so they must be excluded
// before candidate testing.
func isLegendLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "legend") {
		return true
	}
	return strings.Contains(lower, "primary entry") || strings.Contains(lower, "gateway mac")
}

// isSeparatorLine detects header rules such as "---------+--------".
func isSeparatorLine(line string) bool {
	for _, r := range line {
		if r != '-' && r != '+' && r != ' ' {
			return false
		}
	}
	return strings.ContainsRune(line, '-')
}

// looksLikeMac reports whether the token is a MAC address in any common
// notation, checked by stripping separators and expecting 12 hex digits.
func looksLikeMac(token string) bool {
	cleaned := strings.NewReplacer(".", "", ":", "", "-", "").Replace(token)
	if len(cleaned) != 12 {
		return false
	}
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// commandErrHints are fragments the switch prints when it rejects the
// command itself rather than returning an empty table.
var commandErrHints = []string{
	"% Invalid command",
	"% Invalid input",
	"% Incomplete command",
	"% Ambiguous command",
	"Invalid command",
	"Unknown command",
	"syntax error",
	"Syntax error",
}

func isNXOSCommandError(output string) bool {
	for _, hint := range commandErrHints {
		if strings.Contains(output, hint) {
			return true
		}
	}
	return false
}
