package profile

import (
	"github.com/jacobarthurs/dprof/internal/analyzer"
	"github.com/jacobarthurs/dprof/internal/phase"
)

// DataScan is one consolidated table-scan record. Records from different
// extraction sources merge by table name; later sources only ever enrich the
// table-function filter, never duplicate.
type DataScan struct {
	TableName           string   `json:"tableName"`
	ScanType            string   `json:"scanType"`
	Filters             []string `json:"filters"`
	Timestamp           string   `json:"timestamp"`
	RowsScanned         int64    `json:"rowsScanned"`
	DurationMs          int64    `json:"durationMs"`
	TableFunctionFilter string   `json:"tableFunctionFilter,omitempty"`
}

type VDSDetail struct {
	Path string `json:"path"`
	SQL  string `json:"sql"`
}

type Reflections struct {
	Chosen     []string `json:"chosen"`
	Considered []string `json:"considered"`
}

// OptionValue is one non-default session option. Value is the single active
// typed value from the profile: string, number, or bool.
type OptionValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ExtractedProfile is the engine's primary output. Every field defaults to
// an empty value rather than being absent; callers never see a
// partially-undefined record.
type ExtractedProfile struct {
	Query               string        `json:"query"`
	Plan                string        `json:"plan"`
	PDSPaths            []string      `json:"pdsPaths"`
	VDSPaths            []string      `json:"vdsPaths"`
	VDSDetails          []VDSDetail   `json:"vdsDetails"`
	PlanOperatorSummary string        `json:"planOperatorSummary"`
	Reflections         Reflections   `json:"reflections"`
	DataScans           []DataScan    `json:"dataScans"`
	SnapshotID          string        `json:"snapshotId,omitempty"`
	EngineVersion       string        `json:"engineVersion,omitempty"`
	NonDefaultOptions   []OptionValue `json:"nonDefaultOptions"`

	PerformanceMetrics *analyzer.PerformanceMetrics `json:"performanceMetrics,omitempty"`
	PhaseValidation    *phase.ValidationResult      `json:"phaseValidation,omitempty"`
}

func newExtractedProfile() ExtractedProfile {
	return ExtractedProfile{
		PDSPaths:          []string{},
		VDSPaths:          []string{},
		VDSDetails:        []VDSDetail{},
		Reflections:       Reflections{Chosen: []string{}, Considered: []string{}},
		DataScans:         []DataScan{},
		NonDefaultOptions: []OptionValue{},
	}
}
