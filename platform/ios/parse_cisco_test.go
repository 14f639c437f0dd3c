package ios

import (
	"reflect"
	"testing"

	"github.com/macwalk/macwalk/domain/entities"
)

const iosMacTableOutput = `          Mac Address Table
-------------------------------------------

Vlan    Mac Address       Type        Ports
----    -----------       --------    -----
 All    0100.0ccc.cccc    STATIC      CPU
  10    000c.2937.a1ae    DYNAMIC     Gi0/1
  10    0050.5684.2bff    DYNAMIC     Gi0/2
  20    0018.b974.0a11    STATIC      Gi0/24
Total Mac Addresses for this criterion: 4
`

func TestParseMACTable(t *testing.T) {
	entries, skipped := parseMACTable(iosMacTableOutput)

	want := []entities.RawEntry{
		{"vlan": "All", "mac": "0100.0ccc.cccc", "type": "STATIC", "port": "CPU"},
		{"vlan": "10", "mac": "000c.2937.a1ae", "type": "DYNAMIC", "port": "Gi0/1"},
		{"vlan": "10", "mac": "0050.5684.2bff", "type": "DYNAMIC", "port": "Gi0/2"},
		{"vlan": "20", "mac": "0018.b974.0a11", "type": "STATIC", "port": "Gi0/24"},
	}

	if !reflect.DeepEqual(entries, want) {
		t.Errorf("parseMACTable() entries = %v, want %v", entries, want)
	}
	if skipped != 0 {
		t.Errorf("parseMACTable() skipped = %d, want 0", skipped)
	}
}

func TestParseMACTable_SkipsMalformedRows(t *testing.T) {
	output := `Vlan    Mac Address       Type        Ports
----    -----------       --------    -----
  10    000c.2937.a1ae    DYNAMIC     Gi0/1
  10    not-a-mac         DYNAMIC     Gi0/2
  20    0018.b974.0a11    STATIC
`
	entries, skipped := parseMACTable(output)

	if len(entries) != 1 {
		t.Fatalf("parseMACTable() entries = %d, want 1", len(entries))
	}
	if entries[0]["mac"] != "000c.2937.a1ae" {
		t.Errorf("parseMACTable() entry mac = %q, want %q", entries[0]["mac"], "000c.2937.a1ae")
	}
	if skipped != 2 {
		t.Errorf("parseMACTable() skipped = %d, want 2", skipped)
	}
}

func TestParseMACTable_EmptyTable(t *testing.T) {
	output := `          Mac Address Table
-------------------------------------------

Vlan    Mac Address       Type        Ports
----    -----------       --------    -----
Total Mac Addresses for this criterion: 0
`
	entries, skipped := parseMACTable(output)

	if len(entries) != 0 {
		t.Errorf("parseMACTable() entries = %d, want 0", len(entries))
	}
	if skipped != 0 {
		t.Errorf("parseMACTable() skipped = %d, want 0", skipped)
	}
}

func TestParseMACTable_ColonNotation(t *testing.T) {
	output := `  30    00:1a:2b:3c:4d:5e    dynamic     Fa0/3`

	entries, skipped := parseMACTable(output)

	if len(entries) != 1 {
		t.Fatalf("parseMACTable() entries = %d, want 1", len(entries))
	}
	if entries[0]["mac"] != "00:1a:2b:3c:4d:5e" {
		t.Errorf("parseMACTable() entry mac = %q, want %q", entries[0]["mac"], "00:1a:2b:3c:4d:5e")
	}
	if skipped != 0 {
		t.Errorf("parseMACTable() skipped = %d, want 0", skipped)
	}
}

func TestIsCandidateRow(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   bool
	}{
		{"numeric vlan", []string{"10", "000c.2937.a1ae", "DYNAMIC", "Gi0/1"}, true},
		{"all pseudo vlan", []string{"All", "0100.0ccc.cccc", "STATIC", "CPU"}, true},
		{"lowercase all", []string{"all", "0100.0ccc.cccc", "STATIC", "CPU"}, true},
		{"header", []string{"Vlan", "Mac", "Address"}, false},
		{"total line", []string{"Total", "Mac", "Addresses"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCandidateRow(tt.fields); got != tt.want {
				t.Errorf("isCandidateRow(%v) = %v, want %v", tt.fields, got, tt.want)
			}
		})
	}
}

func TestLooksLikeMac(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"000c.2937.a1ae", true},
		{"00:0c:29:37:a1:ae", true},
		{"00-0c-29-37-a1-ae", true},
		{"000C2937A1AE", true},
		{"000c.2937.a1a", false},
		{"000c.2937.a1aeff", false},
		{"000g.2937.a1ae", false},
		{"Gi0/1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := looksLikeMac(tt.token); got != tt.want {
				t.Errorf("looksLikeMac(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestIsIOSCommandError(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"invalid input", "% Invalid input detected at '^' marker.", true},
		{"incomplete", "% Incomplete command.", true},
		{"ambiguous", "% Ambiguous command: \"show ma\"", true},
		{"clean output", iosMacTableOutput, false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isIOSCommandError(tt.output); got != tt.want {
				t.Errorf("isIOSCommandError() = %v, want %v", got, tt.want)
			}
		})
	}
}
