package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/macwalk/macwalk/domain/entities"
)

func sampleResults() []entities.DeviceResult {
	return []entities.DeviceResult{
		{
			Device: entities.Device{Name: "sw-core-01", Target: "10.0.0.1", Platform: "ios"},
			Records: []entities.MacRecord{
				{Vlan: 10, Mac: "00:0c:29:37:a1:ae", Type: entities.RecordDynamic, Port: "Gi0/1"},
				{Vlan: entities.VlanNone, Mac: "01:00:0c:cc:cc:cc", Type: entities.RecordStatic, Port: "CPU"},
			},
			Method:  entities.MethodStructured,
			Elapsed: 1200 * time.Millisecond,
		},
		{
			Device: entities.Device{Name: "sw-edge-07", Target: "10.0.0.2", Platform: "nxos"},
			Failure: &entities.Failure{
				Kind:    entities.FailureConnect,
				Message: "connect: connection refused",
			},
		},
		{
			Device:  entities.Device{Target: "10.0.0.3", Platform: "nxos"},
			Records: nil,
			Method:  entities.MethodCommand,
		},
	}
}

func TestWriteDeviceTables(t *testing.T) {
	var buf bytes.Buffer
	WriteDeviceTables(&buf, sampleResults())
	out := buf.String()

	for _, want := range []string{
		"Device: sw-core-01 (10.0.0.1) platform=ios method=structured records=2",
		"00:0c:29:37:a1:ae",
		"Gi0/1",
		"FAILED [connect]: connect: connection refused",
		"No MAC addresses learned",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDeviceTables_VlanPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	WriteDeviceTables(&buf, sampleResults())

	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "01:00:0c:cc:cc:cc") {
			if !strings.HasPrefix(strings.TrimSpace(line), "-") {
				t.Errorf("record without VLAN should render a dash: %q", line)
			}
			return
		}
	}
	t.Fatal("record without VLAN not rendered")
}

func TestWriteProbeTable(t *testing.T) {
	var buf bytes.Buffer
	WriteProbeTable(&buf, []entities.ProbeResult{
		{Device: entities.Device{Name: "sw-core-01", Target: "10.0.0.1", Platform: "ios"}, OK: true, Elapsed: 80 * time.Millisecond},
		{Device: entities.Device{Target: "10.0.0.2", Platform: "nxos"}, OK: false, Message: "connect: connection refused"},
	})
	out := buf.String()

	if !strings.Contains(out, "ok") {
		t.Errorf("probe table missing ok status:\n%s", out)
	}
	if !strings.Contains(out, "failed") {
		t.Errorf("probe table missing failed status:\n%s", out)
	}
	if !strings.Contains(out, "connect: connection refused") {
		t.Errorf("probe table missing failure detail:\n%s", out)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, "f9e8d7", entities.Summary{
		Devices:        3,
		Succeeded:      2,
		Failed:         1,
		TotalRecords:   2,
		SkippedLines:   4,
		SkippedRecords: 1,
	})
	out := buf.String()

	if !strings.Contains(out, "Run f9e8d7 finished: 3 devices, 2 succeeded, 1 failed") {
		t.Errorf("summary missing run line:\n%s", out)
	}
	if !strings.Contains(out, "Records: 2 (skipped lines: 4, skipped records: 1)") {
		t.Errorf("summary missing record totals:\n%s", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}

	if !reflect.DeepEqual(rows[0], CSVHeader) {
		t.Errorf("header = %v, want %v", rows[0], CSVHeader)
	}
	// Two records from the successful device; the failed and empty devices
	// contribute nothing.
	if len(rows) != 3 {
		t.Fatalf("CSV rows = %d, want 3 (header + 2 records)", len(rows))
	}

	want := []string{"sw-core-01", "10.0.0.1", "ios", "10", "00:0c:29:37:a1:ae", "dynamic", "Gi0/1"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row = %v, want %v", rows[1], want)
	}
	if rows[2][3] != "" {
		t.Errorf("VLAN cell = %q, want empty for record without VLAN", rows[2][3])
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	written, err := ExportCSV(path, sampleResults())
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if written != path {
		t.Errorf("ExportCSV() = %q, want %q", written, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.HasPrefix(string(data), strings.Join(CSVHeader, ",")) {
		t.Errorf("export does not start with header: %s", data)
	}
}

func TestDefaultCSVName(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	got := DefaultCSVName(now)
	want := "mac_addresses_20250314_150926.csv"
	if got != want {
		t.Errorf("DefaultCSVName() = %q, want %q", got, want)
	}
}
