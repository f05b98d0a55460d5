package profile

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jacobarthurs/dprof/internal/document"
)

// Plan-text scan patterns. The plan format is stable but undocumented, so
// these stay literal patterns rather than a grammar; each one sits behind a
// named function so it can be tested on its own.
var (
	dataFileScanRe  = regexp.MustCompile(`Table Function Type=\[DATA_FILE_SCAN\][^\n]*?table=([^,()\s\]]+)`)
	tableFnFilterRe = regexp.MustCompile(`TableFunction\(filters=\[\[(.*?)\]\].*?table=([^,()\s]+)`)
	tableFnCatchRe  = regexp.MustCompile(`TableFunction\(([^()]*?table=[^()]*?)\)`)
	tableCaptureRe  = regexp.MustCompile(`table=([^,()\s]+)`)
)

// scanSet accumulates DataScan records keyed by table name while preserving
// first-seen order. Later writers only enrich the table-function filter.
type scanSet struct {
	scans []DataScan
	index map[string]int
}

func newScanSet() *scanSet {
	return &scanSet{index: make(map[string]int)}
}

func (s *scanSet) add(scan DataScan) {
	if scan.TableName == "" {
		return
	}
	if _, exists := s.index[scan.TableName]; exists {
		return
	}
	s.index[scan.TableName] = len(s.scans)
	s.scans = append(s.scans, scan)
}

// append records a scan without deduplication; only the first occurrence of
// a table claims the merge slot.
func (s *scanSet) append(scan DataScan) {
	if scan.TableName == "" {
		return
	}
	if _, exists := s.index[scan.TableName]; !exists {
		s.index[scan.TableName] = len(s.scans)
	}
	s.scans = append(s.scans, scan)
}

func (s *scanSet) enrichFilter(table, filter string) bool {
	i, exists := s.index[table]
	if !exists {
		return false
	}
	if s.scans[i].TableFunctionFilter == "" {
		s.scans[i].TableFunctionFilter = filter
	}
	return true
}

func (s *scanSet) has(table string) bool {
	_, exists := s.index[table]
	return exists
}

// ExtractDataScans consolidates scan records from every location they can
// appear in: the direct scan list, the alternate table-scan-profile list,
// execution events, and three plan-text patterns.
func ExtractDataScans(doc document.Document, planText string, log *zap.Logger) []DataScan {
	if log == nil {
		log = zap.NewNop()
	}
	set := newScanSet()

	extractDirectScans(doc, set)
	extractTableScanProfiles(doc, set)
	extractScanEvents(doc, set)
	extractDataFileScans(planText, set)
	extractTableFunctionFilters(planText, set)
	extractTableFunctionCatchAll(planText, set)

	if set.scans == nil {
		return []DataScan{}
	}
	return set.scans
}

// extractDirectScans reads the profile's own dataScans list.
func extractDirectScans(doc document.Document, set *scanSet) {
	for _, raw := range doc.List("dataScans") {
		scan := document.Map(raw)
		set.add(DataScan{
			TableName:           scan.Str("tableName"),
			ScanType:            scan.Str("scanType"),
			Filters:             scan.StrList("filters"),
			Timestamp:           timestampStr(scan.Get("timestamp")),
			RowsScanned:         scan.Int("rowsScanned"),
			DurationMs:          scan.Int("durationMs"),
			TableFunctionFilter: scan.Str("tableFunctionFilter"),
		})
	}
}

// extractTableScanProfiles reads the alternate table-scan-profile list,
// which uses snake_case field names in some engine versions.
func extractTableScanProfiles(doc document.Document, set *scanSet) {
	for _, raw := range doc.List("tableScanProfiles") {
		scan := document.Map(raw)
		set.add(DataScan{
			TableName:   firstStr(scan, "tableName", "table_name"),
			ScanType:    firstStr(scan, "scanType", "scan_type"),
			Filters:     scan.StrList("filters"),
			Timestamp:   timestampStr(scan.Get("timestamp")),
			RowsScanned: firstInt(scan, "rowsScanned", "rows_scanned"),
			DurationMs:  firstInt(scan, "durationMs", "duration_ms"),
		})
	}
}

// extractScanEvents picks table-scan and table-function entries out of the
// execution event stream. Scan type falls back to the attributes marker,
// then to the event type itself.
func extractScanEvents(doc document.Document, set *scanSet) {
	for _, raw := range doc.List("executionEvents") {
		event := document.Map(raw)
		eventType := event.Str("type")
		if eventType != "TABLE_SCAN" && eventType != "TABLE_FUNCTION" {
			continue
		}

		scanType := event.Str("scanType")
		if scanType == "" {
			scanType = event.Str("attributes", "scanMode")
		}
		if scanType == "" {
			scanType = eventType
		}

		set.add(DataScan{
			TableName:   event.Str("tableName"),
			ScanType:    scanType,
			Filters:     event.StrList("filters"),
			Timestamp:   timestampStr(event.Get("timestamp")),
			RowsScanned: event.Int("rowsScanned"),
			DurationMs:  event.Int("durationMs"),
		})
	}
}

// extractDataFileScans records every DATA_FILE_SCAN table-function
// occurrence in the plan text. Each occurrence is its own record.
func extractDataFileScans(planText string, set *scanSet) {
	for _, m := range dataFileScanRe.FindAllStringSubmatch(planText, -1) {
		set.append(DataScan{
			TableName: m[1],
			ScanType:  "DATA_FILE_SCAN",
		})
	}
}

// extractTableFunctionFilters extracts filter expressions from
// TableFunction plan fragments. An existing record for the table is
// enriched; otherwise a new record is created carrying the filter.
func extractTableFunctionFilters(planText string, set *scanSet) {
	for _, m := range tableFnFilterRe.FindAllStringSubmatch(planText, -1) {
		filter, table := m[1], m[2]
		if set.enrichFilter(table, filter) {
			continue
		}
		set.add(DataScan{
			TableName:           table,
			ScanType:            "TABLE_FUNCTION",
			TableFunctionFilter: filter,
		})
	}
}

// extractTableFunctionCatchAll picks up any remaining TableFunction fragment
// that names a table and projects columns, adding a record only when the
// table has not been seen by any earlier source.
func extractTableFunctionCatchAll(planText string, set *scanSet) {
	for _, m := range tableFnCatchRe.FindAllStringSubmatch(planText, -1) {
		body := m[1]
		if !containsColumns(body) {
			continue
		}
		tm := tableCaptureRe.FindStringSubmatch(body)
		if tm == nil || set.has(tm[1]) {
			continue
		}
		set.add(DataScan{
			TableName: tm[1],
			ScanType:  "TABLE_FUNCTION",
		})
	}
}

func containsColumns(fragment string) bool {
	return strings.Contains(fragment, "columns=")
}

func firstStr(m document.Document, keys ...string) string {
	for _, key := range keys {
		if s := m.Str(key); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(m document.Document, keys ...string) int64 {
	for _, key := range keys {
		if v := m.Get(key); v != nil {
			return document.Int(v, 0)
		}
	}
	return 0
}

// timestampStr renders a timestamp field that may arrive as a string or an
// epoch-milliseconds number.
func timestampStr(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		if n := document.Int(v, -1); n >= 0 {
			return strconv.FormatInt(n, 10)
		}
		return ""
	}
}
