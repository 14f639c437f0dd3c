package ios

import (
	"strconv"
	"strings"

	"github.com/macwalk/macwalk/domain/entities"
)

// iosRowFields is the exact column count of an IOS MAC table row:
// vlan, mac address, type, port.
const iosRowFields = 4

// parseMACTable extracts MAC table rows from 'show mac address-table'
// output. A line is a candidate when its first token is a VLAN number or
// the literal "All"; candidates that do not match the row shape count as
// skipped.
func parseMACTable(output string) ([]entities.RawEntry, int) {
	var entries []entities.RawEntry
	skipped := 0

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isSeparatorLine(line) {
			continue
		}

		fields := strings.Fields(line)
		if !isCandidateRow(fields) {
			continue
		}

		if len(fields) != iosRowFields || !looksLikeMac(fields[1]) {
			skipped++
			continue
		}

		entries = append(entries, entities.RawEntry{
			"vlan": fields[0],
			"mac":  fields[1],
			"type": fields[2],
			"port": fields[3],
		})
	}

	return entries, skipped
}

// isCandidateRow reports whether the fields open like a MAC table row:
// a numeric VLAN or the "All" pseudo-VLAN used for CPU-bound entries.
func isCandidateRow(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	if strings.EqualFold(fields[0], "All") {
		return true
	}
	_, err := strconv.Atoi(fields[0])
	return err == nil
}

// isSeparatorLine detects header rules such as "----+----".
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
	"% Invalid input",
	"% Incomplete command",
	"% Ambiguous command",
	"Invalid command",
	"Unknown command",
	"syntax error",
	"Syntax error",
	"% Bad",
}

func isIOSCommandError(output string) bool {
	for _, hint := range commandErrHints {
		if strings.Contains(output, hint) {
			return true
		}
	}
	return false
}
