package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/macwalk/macwalk/domain/entities"
	"github.com/macwalk/macwalk/domain/ports"
	"github.com/macwalk/macwalk/platform"
)

// DefaultWorkers bounds concurrent device sessions when no explicit worker
// count is configured.
const DefaultWorkers = 8

// Scanner fans MAC table collection out over an inventory. Each device is
// scanned on its own session; one device's failure never interrupts the
// others.
type Scanner struct {
	factory ports.SessionFactory
	workers int
	logger  *log.Logger
}

// NewScanner creates a scanner backed by the given session factory. A nil
// logger silences progress output.
func NewScanner(factory ports.SessionFactory, workers int, logger *log.Logger) *Scanner {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scanner{
		factory: factory,
		workers: workers,
		logger:  logger,
	}
}

// Run scans every device and returns one result per device, in inventory
// order. Failed devices produce a result with a populated Failure instead of
// aborting the run.
func (s *Scanner) Run(ctx context.Context, devices []entities.Device) []entities.DeviceResult {
	if len(devices) == 0 {
		return nil
	}

	results := make([]entities.DeviceResult, len(devices))
	workers := s.fanOut(len(devices), func(i int) {
		results[i] = s.scanDevice(ctx, devices[i])
	})

	s.logger.Printf("scan finished: %d devices, %d workers", len(devices), workers)
	return results
}

// Probe checks connectivity to every device and returns one result per
// device, in inventory order.
func (s *Scanner) Probe(ctx context.Context, devices []entities.Device) []entities.ProbeResult {
	if len(devices) == 0 {
		return nil
	}

	results := make([]entities.ProbeResult, len(devices))
	s.fanOut(len(devices), func(i int) {
		results[i] = s.probeDevice(ctx, devices[i])
	})
	return results
}

// fanOut runs fn(0..count-1) on a bounded worker pool and blocks until all
// jobs finish. It returns the effective worker count.
func (s *Scanner) fanOut(count int, fn func(i int)) int {
	workers := s.workers
	if workers > count {
		workers = count
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return workers
}

// scanDevice runs one device's pipeline under its timeout. The pipeline
// goroutine writes to a buffered channel so an abandoned scan cannot leak a
// blocked sender; transport deadlines bound the orphan itself.
func (s *Scanner) scanDevice(ctx context.Context, dev entities.Device) entities.DeviceResult {
	start := time.Now()
	dctx, cancel := context.WithTimeout(ctx, dev.Timeout())
	defer cancel()

	done := make(chan entities.DeviceResult, 1)
	go func() {
		done <- s.runPipeline(dev)
	}()

	var result entities.DeviceResult
	select {
	case result = <-done:
	case <-dctx.Done():
		result = entities.DeviceResult{
			Device: dev,
			Failure: &entities.Failure{
				Kind:    entities.FailureTimeout,
				Message: fmt.Sprintf("no response within %s", dev.Timeout()),
			},
		}
	}
	result.Elapsed = time.Since(start)

	if result.OK() {
		s.logger.Printf("%s: %d MAC records via %s in %s", dev.DisplayName(), len(result.Records), result.Method, result.Elapsed.Round(time.Millisecond))
	} else {
		s.logger.Printf("%s: scan failed: %s", dev.DisplayName(), result.Failure.Message)
	}
	return result
}

func (s *Scanner) runPipeline(dev entities.Device) entities.DeviceResult {
	result := entities.DeviceResult{Device: dev}

	driver, err := platform.Get(dev.Platform)
	if err != nil {
		result.Failure = classify("resolve", err)
		return result
	}

	sess := s.factory(dev)
	if err := sess.Connect(); err != nil {
		result.Failure = classify("connect", err)
		return result
	}
	defer sess.Disconnect()

	retrieval, err := driver.Retrieve(sess, dev)
	if err != nil {
		result.Failure = classify("retrieve", err)
		return result
	}

	records, skippedRecords := NormalizeRecords(retrieval.Entries)
	result.Records = records
	result.Method = retrieval.Method
	result.SkippedLines = retrieval.SkippedLines
	result.SkippedRecords = skippedRecords
	return result
}

// probeDevice checks that a device answers its platform's probe command.
func (s *Scanner) probeDevice(ctx context.Context, dev entities.Device) entities.ProbeResult {
	start := time.Now()
	dctx, cancel := context.WithTimeout(ctx, dev.Timeout())
	defer cancel()

	done := make(chan entities.ProbeResult, 1)
	go func() {
		msg := runProbe(s.factory, dev)
		done <- entities.ProbeResult{Device: dev, OK: msg == "", Message: msg}
	}()

	var result entities.ProbeResult
	select {
	case result = <-done:
	case <-dctx.Done():
		result = entities.ProbeResult{
			Device:  dev,
			Message: fmt.Sprintf("no response within %s", dev.Timeout()),
		}
	}
	result.Elapsed = time.Since(start)

	if result.OK {
		s.logger.Printf("%s: reachable in %s", dev.DisplayName(), result.Elapsed.Round(time.Millisecond))
	} else {
		s.logger.Printf("%s: probe failed: %s", dev.DisplayName(), result.Message)
	}
	return result
}

// runProbe returns an empty string on success and the failure text otherwise.
func runProbe(factory ports.SessionFactory, dev entities.Device) string {
	driver, err := platform.Get(dev.Platform)
	if err != nil {
		return "resolve: " + err.Error()
	}

	sess := factory(dev)
	if err := sess.Connect(); err != nil {
		return "connect: " + err.Error()
	}
	defer sess.Disconnect()

	// A getter-primary device that answers over the getter is reachable;
	// requiring a CLI login too would fail devices the scan itself serves
	// without one. Getter failures fall through to the CLI probe, mirroring
	// the scan's command fallback.
	if driver.Method() == entities.MethodStructured {
		if _, err := sess.InvokeGetter(ports.GetterMACTable); err == nil {
			return ""
		}
	}

	if _, err := sess.ExecuteCommand(driver.ProbeCommand()); err != nil {
		return "probe: " + err.Error()
	}
	return ""
}

// classify maps a pipeline error onto the failure taxonomy. Anything not
// recognized counts as a connectivity problem.
func classify(stage string, err error) *entities.Failure {
	kind := entities.FailureConnect

	var unsupportedPlatform *platform.UnsupportedPlatformError
	var parseErr *ports.ParseError
	switch {
	case errors.As(err, &unsupportedPlatform):
		kind = entities.FailureUnsupportedPlatform
	case errors.As(err, &parseErr):
		kind = entities.FailureParse
	case errors.Is(err, ports.ErrGetterUnsupported):
		kind = entities.FailureUnsupportedOperation
	}

	return &entities.Failure{
		Kind:    kind,
		Message: stage + ": " + err.Error(),
	}
}
