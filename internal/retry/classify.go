package retry

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type fileKind int

const (
	kindPlain fileKind = iota
	kindHeader
	kindAttemptLog
	kindAttemptProfile
)

// Two filename conventions exist for attempt artifacts; both are accepted.
var (
	attemptRe    = regexp.MustCompile(`^(log|profile)_attempt_(\d+)\.json$`)
	altAttemptRe = regexp.MustCompile(`^attempt_(\d+)_(?:initial|retry)(_profile)?\.json$`)
)

// classifyName decides what role a file plays from its base name alone.
func classifyName(name string) (kind fileKind, attempt int) {
	base := path.Base(name)

	if base == "header.json" {
		return kindHeader, 0
	}

	if m := attemptRe.FindStringSubmatch(base); m != nil {
		n, _ := strconv.Atoi(m[2])
		if m[1] == "profile" {
			return kindAttemptProfile, n
		}
		return kindAttemptLog, n
	}

	if m := altAttemptRe.FindStringSubmatch(base); m != nil {
		n, _ := strconv.Atoi(m[1])
		if m[2] != "" {
			return kindAttemptProfile, n
		}
		return kindAttemptLog, n
	}

	return kindPlain, 0
}

var (
	timestampRe = regexp.MustCompile(`timestamp'([^']*)'`)
	errorIDRe   = regexp.MustCompile(`\[Error Id: ([^\]]+)\]`)
)

// parseAttemptLog fills an attempt's timing, error id and status from raw
// log text. Parsing is tolerant: missing or malformed pieces leave the
// defaults in place (zero timestamps, status failed).
func parseAttemptLog(content string, attempt *QueryAttempt) {
	matches := timestampRe.FindAllStringSubmatch(content, 2)
	if len(matches) >= 2 {
		start := parseLogTimestamp(matches[0][1])
		end := parseLogTimestamp(matches[1][1])
		if start > 0 && end >= start {
			attempt.Timing = AttemptTiming{
				StartMs:    start,
				EndMs:      end,
				DurationMs: end - start,
			}
		}
	}

	if m := errorIDRe.FindStringSubmatch(content); m != nil {
		attempt.ErrorID = strings.TrimSpace(m[1])
	}

	attempt.Status = inferStatus(content)
}

// parseLogTimestamp accepts epoch milliseconds or RFC3339; anything else is
// zero.
func parseLogTimestamp(value string) int64 {
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ms
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UnixMilli()
	}
	return 0
}

func inferStatus(content string) AttemptStatus {
	switch {
	case strings.Contains(content, "SUCCESS"), strings.Contains(content, "COMPLETED"):
		return StatusSuccess
	case strings.Contains(content, "TIMEOUT"):
		return StatusTimeout
	case strings.Contains(content, "CANCELLED"):
		return StatusCancelled
	default:
		return StatusFailed
	}
}
