package retry

import (
	"fmt"
	"sort"
)

type groupAcc struct {
	queryID       string
	headerFile    string
	headerContent string
	attempts      map[int]*QueryAttempt
	files         []File
}

// GroupAttempts classifies a set of named files into ordinary single-attempt
// files and multi-attempt query groups. Files sharing a query id whose names
// match an attempt convention form a group; a query needs at least two
// attempts to count as multi-attempt.
func GroupAttempts(files []File) GroupResult {
	result := GroupResult{
		SingleFiles:        []File{},
		MultiAttemptGroups: []MultiAttemptQuery{},
	}

	groups := make(map[string]*groupAcc)
	var order []string

	acc := func(queryID string) *groupAcc {
		g, ok := groups[queryID]
		if !ok {
			g = &groupAcc{queryID: queryID, attempts: make(map[int]*QueryAttempt)}
			groups[queryID] = g
			order = append(order, queryID)
		}
		return g
	}

	attempt := func(g *groupAcc, n int) *QueryAttempt {
		a, ok := g.attempts[n]
		if !ok {
			a = &QueryAttempt{
				AttemptNumber: n,
				AttemptID:     fmt.Sprintf("%s_attempt_%d", g.queryID, n),
				Status:        StatusFailed,
			}
			g.attempts[n] = a
		}
		return a
	}

	for _, file := range files {
		kind, n := classifyName(file.Name)
		if kind == kindPlain {
			result.SingleFiles = append(result.SingleFiles, file)
			continue
		}

		g := acc(file.QueryID)
		g.files = append(g.files, file)

		switch kind {
		case kindHeader:
			g.headerFile = file.Name
			g.headerContent = file.Content
		case kindAttemptLog:
			a := attempt(g, n)
			a.LogFile = file.Name
			a.RawLogContent = file.Content
			parseAttemptLog(file.Content, a)
		case kindAttemptProfile:
			a := attempt(g, n)
			a.ProfileFile = file.Name
			a.RawProfileContent = file.Content
		}
	}

	for _, queryID := range order {
		g := groups[queryID]

		if len(g.attempts) < 2 {
			// Not a retried query; its files stay ordinary.
			result.SingleFiles = append(result.SingleFiles, g.files...)
			continue
		}

		attempts := make([]QueryAttempt, 0, len(g.attempts))
		for _, a := range g.attempts {
			attempts = append(attempts, *a)
		}
		sort.Slice(attempts, func(i, j int) bool {
			return attempts[i].AttemptNumber < attempts[j].AttemptNumber
		})

		result.MultiAttemptGroups = append(result.MultiAttemptGroups, MultiAttemptQuery{
			BaseQueryID:   queryID,
			TotalAttempts: len(attempts),
			FinalStatus:   finalStatus(attempts),
			Attempts:      attempts,
			HeaderFile:    g.headerFile,
			HeaderContent: g.headerContent,
			RetryPattern:  classifyPattern(attempts),
		})
	}

	return result
}

// finalStatus: success wins outright; a group that never succeeded but was
// cut short (timeout/cancelled) is partial; all-failed stays failed.
func finalStatus(attempts []QueryAttempt) FinalStatus {
	sawInterrupted := false
	for _, a := range attempts {
		switch a.Status {
		case StatusSuccess:
			return FinalSuccess
		case StatusTimeout, StatusCancelled:
			sawInterrupted = true
		}
	}
	if sawInterrupted {
		return FinalPartial
	}
	return FinalFailed
}
