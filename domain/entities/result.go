package entities

import "time"

// FailureKind classifies why a device scan failed
type FailureKind string

const (
	FailureConnect              FailureKind = "connect"
	FailureTimeout              FailureKind = "timeout"
	FailureUnsupportedPlatform  FailureKind = "unsupported-platform"
	FailureUnsupportedOperation FailureKind = "unsupported-operation"
	FailureParse                FailureKind = "parse"
)

// Failure records a device-level scan failure
type Failure struct {
	Kind    FailureKind
	Message string
}

// DeviceResult holds the outcome of one device's scan. A nil Failure means
// success; a success may legitimately carry zero records.
type DeviceResult struct {
	Device         Device
	Records        []MacRecord
	Method         RetrievalMethod
	SkippedLines   int
	SkippedRecords int
	Elapsed        time.Duration
	Failure        *Failure
}

// OK reports whether the device scan succeeded
func (r DeviceResult) OK() bool {
	return r.Failure == nil
}

// ProbeResult holds the outcome of one device's connectivity check
type ProbeResult struct {
	Device  Device
	OK      bool
	Message string
	Elapsed time.Duration
}

// Summary aggregates a finished run
type Summary struct {
	Devices        int
	Succeeded      int
	Failed         int
	TotalRecords   int
	SkippedLines   int
	SkippedRecords int
}

// Summarize reduces an ordered result set into run totals
func Summarize(results []DeviceResult) Summary {
	s := Summary{Devices: len(results)}
	for _, r := range results {
		if !r.OK() {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.TotalRecords += len(r.Records)
		s.SkippedLines += r.SkippedLines
		s.SkippedRecords += r.SkippedRecords
	}
	return s
}
