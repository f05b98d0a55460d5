// Package retry reconstructs multi-attempt query timelines from a set of
// named artifact files (attempt logs, attempt profiles, and headers), and
// classifies the retry backoff pattern.
package retry

type AttemptStatus string

const (
	StatusFailed    AttemptStatus = "failed"
	StatusSuccess   AttemptStatus = "success"
	StatusTimeout   AttemptStatus = "timeout"
	StatusCancelled AttemptStatus = "cancelled"
)

type FinalStatus string

const (
	FinalFailed  FinalStatus = "failed"
	FinalSuccess FinalStatus = "success"
	FinalPartial FinalStatus = "partial"
)

type BackoffType string

const (
	BackoffLinear      BackoffType = "linear"
	BackoffExponential BackoffType = "exponential"
	BackoffCustom      BackoffType = "custom"
)

// File is one named artifact supplied by the caller, already read into
// memory and tagged with the query it belongs to.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	QueryID string `json:"queryId"`
}

type AttemptTiming struct {
	StartMs    int64 `json:"start"`
	EndMs      int64 `json:"end"`
	DurationMs int64 `json:"durationMs"`
}

// QueryAttempt is one execution try, reconstructed from its log and profile
// artifacts. A malformed log degrades to zero timestamps and status failed
// rather than aborting the grouping.
type QueryAttempt struct {
	AttemptNumber     int           `json:"attemptNumber"`
	AttemptID         string        `json:"attemptId"`
	Timing            AttemptTiming `json:"timestamp"`
	ErrorID           string        `json:"errorId"`
	Status            AttemptStatus `json:"status"`
	LogFile           string        `json:"logFile,omitempty"`
	ProfileFile       string        `json:"profileFile,omitempty"`
	RawLogContent     string        `json:"-"`
	RawProfileContent string        `json:"-"`
}

type RetryPattern struct {
	// RetryIntervals holds the gap between consecutive attempts in
	// seconds; length is attempts-1.
	RetryIntervals     []float64   `json:"retryIntervals"`
	TimeoutProgression []float64   `json:"timeoutProgression"`
	BackoffType        BackoffType `json:"backoffType"`
	MaxRetries         int         `json:"maxRetries"`
	TotalDurationMs    int64       `json:"totalDurationMs"`
}

type MultiAttemptQuery struct {
	BaseQueryID   string         `json:"baseQueryId"`
	TotalAttempts int            `json:"totalAttempts"`
	FinalStatus   FinalStatus    `json:"finalStatus"`
	Attempts      []QueryAttempt `json:"attempts"`
	HeaderFile    string         `json:"headerFile,omitempty"`
	HeaderContent string         `json:"headerContent,omitempty"`
	RetryPattern  RetryPattern   `json:"retryPattern"`
}

// GroupResult splits the input set into plain single-attempt files and
// reconstructed multi-attempt groups.
type GroupResult struct {
	SingleFiles        []File              `json:"singleFiles"`
	MultiAttemptGroups []MultiAttemptQuery `json:"multiAttemptGroups"`
}
