package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/macwalk/macwalk/domain/entities"
)

// CSVHeader is the exported column set, stable for downstream tooling
var CSVHeader = []string{"hostname", "ip_address", "platform", "vlan", "mac_address", "type", "port"}

// WriteDeviceTables renders one table per device with its records, or the
// failure line when the scan did not succeed.
func WriteDeviceTables(w io.Writer, results []entities.DeviceResult) {
	for _, result := range results {
		dev := result.Device
		if !result.OK() {
			fmt.Fprintf(w, "Device: %s (%s) platform=%s FAILED [%s]: %s\n\n",
				dev.DisplayName(), dev.Target, dev.Platform, result.Failure.Kind, result.Failure.Message)
			continue
		}

		fmt.Fprintf(w, "Device: %s (%s) platform=%s method=%s records=%d elapsed=%s\n",
			dev.DisplayName(), dev.Target, dev.Platform, result.Method, len(result.Records), result.Elapsed.Round(time.Millisecond))
		if result.SkippedLines > 0 || result.SkippedRecords > 0 {
			fmt.Fprintf(w, "Skipped: %d unparseable lines, %d malformed records\n", result.SkippedLines, result.SkippedRecords)
		}
		if len(result.Records) == 0 {
			fmt.Fprintf(w, "No MAC addresses learned\n\n")
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VLAN\tMAC ADDRESS\tTYPE\tPORT")
		for _, record := range result.Records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", vlanCell(record.Vlan, "-"), record.Mac, record.Type, record.Port)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}
}

// WriteProbeTable renders connectivity check outcomes
func WriteProbeTable(w io.Writer, results []entities.ProbeResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tTARGET\tPLATFORM\tSTATUS\tELAPSED\tDETAIL")
	for _, result := range results {
		status := "ok"
		if !result.OK {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			result.Device.DisplayName(), result.Device.Target, result.Device.Platform,
			status, result.Elapsed.Round(time.Millisecond), result.Message)
	}
	tw.Flush()
}

// WriteSummary renders run totals, keeping zero-record successes and
// failures distinguishable.
func WriteSummary(w io.Writer, runID string, summary entities.Summary) {
	fmt.Fprintf(w, "Run %s finished: %d devices, %d succeeded, %d failed\n",
		runID, summary.Devices, summary.Succeeded, summary.Failed)
	fmt.Fprintf(w, "Records: %d (skipped lines: %d, skipped records: %d)\n",
		summary.TotalRecords, summary.SkippedLines, summary.SkippedRecords)
}

// WriteCSV streams every successful device's records as CSV rows
func WriteCSV(w io.Writer, results []entities.DeviceResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}
	for _, result := range results {
		if !result.OK() {
			continue
		}
		dev := result.Device
		for _, record := range result.Records {
			row := []string{
				dev.DisplayName(),
				dev.Target,
				dev.Platform,
				vlanCell(record.Vlan, ""),
				record.Mac,
				string(record.Type),
				record.Port,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %v", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the record set to path, or to a timestamped file in the
// working directory when path is empty. It returns the file name written.
func ExportCSV(path string, results []entities.DeviceResult) (string, error) {
	if path == "" {
		path = DefaultCSVName(time.Now())
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file %s: %v", path, err)
	}
	defer file.Close()

	if err := WriteCSV(file, results); err != nil {
		return "", err
	}
	return path, nil
}

// DefaultCSVName builds the timestamped export name
func DefaultCSVName(now time.Time) string {
	return fmt.Sprintf("mac_addresses_%s.csv", now.Format("20060102_150405"))
}

// vlanCell formats a VLAN for display; records without a VLAN use the
// placeholder.
func vlanCell(vlan int, placeholder string) string {
	if vlan == entities.VlanNone {
		return placeholder
	}
	return strconv.Itoa(vlan)
}
