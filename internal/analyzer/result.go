package analyzer

import "encoding/json"

type Severity int

const (
	Low    Severity = 0
	Medium Severity = 1
	High   Severity = 2
)

func (s Severity) String() string {
	switch s {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type BottleneckType string

const (
	BottleneckIO          BottleneckType = "IO"
	BottleneckCPU         BottleneckType = "CPU"
	BottleneckMemory      BottleneckType = "Memory"
	BottleneckSelectivity BottleneckType = "Selectivity"
)

// Bottleneck is one heuristically classified performance problem. Each
// detection rule emits at most one, for its worst offender.
type Bottleneck struct {
	Type           BottleneckType `json:"type"`
	Description    string         `json:"description"`
	Severity       Severity       `json:"severity"`
	OperatorID     int64          `json:"operatorId"`
	FragmentID     string         `json:"fragmentId,omitempty"`
	Recommendation string         `json:"recommendation"`
	Details        string         `json:"details,omitempty"`
}

// OperatorMetric carries the timing and volume counters for one operator
// instance in the execution tree.
type OperatorMetric struct {
	OperatorID   int64  `json:"operatorId"`
	OperatorType string `json:"operatorType"`
	FragmentID   string `json:"fragmentId"`

	SetupMs   int64 `json:"setupMs"`
	ProcessMs int64 `json:"processMs"`
	WaitMs    int64 `json:"waitMs"`
	TotalMs   int64 `json:"totalMs"`

	InputRecords  int64   `json:"inputRecords"`
	OutputRecords int64   `json:"outputRecords"`
	InputBytes    int64   `json:"inputBytes"`
	OutputBytes   int64   `json:"outputBytes"`
	PeakMemoryMB  float64 `json:"peakMemoryMB"`

	// Selectivity is outputRecords/inputRecords, only defined when the
	// operator saw input. Throughput is inputRecords per process-second,
	// only defined when the operator did measurable work.
	Selectivity             *float64 `json:"selectivity,omitempty"`
	ThroughputRecordsPerSec *float64 `json:"throughputRecordsPerSec,omitempty"`
}

type QueryInfo struct {
	QueryID string `json:"queryId"`
	User    string `json:"user"`
	State   string `json:"state"`
}

type PhaseDuration struct {
	PhaseName  string `json:"phaseName"`
	DurationMs int64  `json:"durationMs"`
}

type DataVolumeStats struct {
	TotalRecordsProcessed int64 `json:"totalRecordsProcessed"`
	TotalBytesProcessed   int64 `json:"totalBytesProcessed"`
	TotalRecordsOutput    int64 `json:"totalRecordsOutput"`
	TotalBytesOutput      int64 `json:"totalBytesOutput"`
}

// OperatorStats aggregates over every operator in the profile, not just the
// top-N kept for the report.
type OperatorStats struct {
	TotalOperators      int     `json:"totalOperators"`
	TotalOperatorTimeMs int64   `json:"totalOperatorTimeMs"`
	AvgOperatorTimeMs   float64 `json:"avgOperatorTimeMs"`
	MaxOperatorTimeMs   int64   `json:"maxOperatorTimeMs"`
}

// PerformanceMetrics is the full timing breakdown for one profile. Computed
// once per document and immutable afterwards.
type PerformanceMetrics struct {
	TotalQueryTimeMs int64 `json:"totalQueryTimeMs"`
	PlanningTimeMs   int64 `json:"planningTimeMs"`
	ExecutionTimeMs  int64 `json:"executionTimeMs"`

	QueryInfo    QueryInfo        `json:"queryInfo"`
	TopOperators []OperatorMetric `json:"topOperators"`
	Phases       []PhaseDuration  `json:"phases"`
	Bottlenecks  []Bottleneck     `json:"bottlenecks"`

	DataVolumeStats DataVolumeStats `json:"dataVolumeStats"`
	OperatorStats   OperatorStats   `json:"operatorStats"`

	LongestRunningOperator *OperatorMetric `json:"longestRunningOperator,omitempty"`
	LongestRunningPhase    *PhaseDuration  `json:"longestRunningPhase,omitempty"`
}
