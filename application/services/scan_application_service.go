package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-syslog"

	"github.com/macwalk/macwalk/domain/entities"
	"github.com/macwalk/macwalk/domain/ports"
	"github.com/macwalk/macwalk/domain/services"
)

// Options controls how a scan run is wired
type Options struct {
	Workers int
	Syslog  bool
	Out     io.Writer // defaults to os.Stdout
	Err     io.Writer // defaults to os.Stderr
}

// ScanReport bundles one run's outcome under its run ID
type ScanReport struct {
	RunID   string
	Results []entities.DeviceResult
	Summary entities.Summary
}

// ScanApplicationService orchestrates inventory scans: it owns the run
// loggers, tags every run with an ID and drives the scanner.
type ScanApplicationService struct {
	devices []entities.Device
	scanner *services.Scanner
	outLog  *log.Logger
	errLog  *log.Logger
}

// NewScanApplicationService creates the application service over a session
// factory. With Syslog set, run logs go to the local syslog daemon instead
// of the standard streams.
func NewScanApplicationService(devices []entities.Device, factory ports.SessionFactory, opts Options) (*ScanApplicationService, error) {
	svc := &ScanApplicationService{devices: devices}

	if opts.Syslog {
		if logger, err := gsyslog.NewLogger(gsyslog.LOG_ERR, "LOCAL0", "macwalk"); err != nil {
			return nil, fmt.Errorf("unable to create syslog: %v", err)
		} else {
			svc.errLog = log.New(logger, "", log.LstdFlags)
		}
		if logger, err := gsyslog.NewLogger(gsyslog.LOG_INFO, "LOCAL0", "macwalk"); err != nil {
			return nil, fmt.Errorf("unable to create syslog: %v", err)
		} else {
			svc.outLog = log.New(logger, "", log.LstdFlags)
		}
	} else {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		errW := opts.Err
		if errW == nil {
			errW = os.Stderr
		}
		svc.outLog = log.New(out, "", log.LstdFlags)
		svc.errLog = log.New(errW, "", log.LstdFlags)
	}

	svc.scanner = services.NewScanner(factory, opts.Workers, svc.outLog)
	return svc, nil
}

// Scan collects the MAC tables of every inventory device
func (s *ScanApplicationService) Scan(ctx context.Context) ScanReport {
	runID := uuid.NewString()
	s.outLog.Printf("run %s: scanning %d devices", runID, len(s.devices))

	results := s.scanner.Run(ctx, s.devices)
	summary := entities.Summarize(results)

	for _, result := range results {
		if !result.OK() {
			s.errLog.Printf("run %s: %s: [%s] %s", runID, result.Device.DisplayName(), result.Failure.Kind, result.Failure.Message)
		}
	}
	s.outLog.Printf("run %s: %d/%d devices succeeded, %d records", runID, summary.Succeeded, summary.Devices, summary.TotalRecords)

	return ScanReport{RunID: runID, Results: results, Summary: summary}
}

// Check probes connectivity to every inventory device without scanning
func (s *ScanApplicationService) Check(ctx context.Context) []entities.ProbeResult {
	runID := uuid.NewString()
	s.outLog.Printf("run %s: probing %d devices", runID, len(s.devices))

	results := s.scanner.Probe(ctx, s.devices)
	for _, result := range results {
		if !result.OK {
			s.errLog.Printf("run %s: %s: %s", runID, result.Device.DisplayName(), result.Message)
		}
	}
	return results
}
