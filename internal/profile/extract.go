// Package profile turns a raw query-profile document into the structured
// diagnostic report. Analyze is the primary entry point of the engine.
package profile

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jacobarthurs/dprof/internal/document"
)

const (
	datasetTypePhysical = 1
	datasetTypeVirtual  = 2

	convertToRelPhase = "Convert To Rel"
)

var snapshotRe = regexp.MustCompile(`snapshot=\[(\d+)\]`)

// trimLines removes trailing whitespace from every line, keeping the text
// otherwise verbatim.
func trimLines(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}

// extractSnapshotID pulls the table snapshot id referenced by the plan text,
// if any.
func extractSnapshotID(planText string) string {
	m := snapshotRe.FindStringSubmatch(planText)
	if m == nil {
		return ""
	}
	return m[1]
}

// extractDatasets splits the dataset-profile list into physical and virtual
// dataset paths. Virtual paths are sorted so downstream diffs are stable;
// physical paths keep document order.
func extractDatasets(doc document.Document, p *ExtractedProfile, log *zap.Logger) {
	for _, raw := range doc.List("datasetProfile") {
		ds := document.Map(raw)
		path := ds.Str("datasetPath")
		if path == "" {
			log.Warn("dataset profile entry has no path; skipping")
			continue
		}

		switch ds.Int("type") {
		case datasetTypePhysical:
			p.PDSPaths = append(p.PDSPaths, path)
		case datasetTypeVirtual:
			p.VDSPaths = append(p.VDSPaths, path)
			p.VDSDetails = append(p.VDSDetails, VDSDetail{
				Path: path,
				SQL:  ds.Str("sql"),
			})
		default:
			log.Warn("dataset profile entry has unknown type",
				zap.String("path", path),
				zap.Int64("type", ds.Int("type")))
		}
	}

	sort.Strings(p.VDSPaths)
	sort.Slice(p.VDSDetails, func(i, j int) bool {
		return p.VDSDetails[i].Path < p.VDSDetails[j].Path
	})
}

// extractPlanOperatorSummary condenses the "Convert To Rel" phase plan into
// its scan and expansion lines. ScanCrel lines are rewritten to start at
// PDS:, and ExpansionNode lines sort ahead of everything else.
func extractPlanOperatorSummary(doc document.Document) string {
	var phasePlan string
	for _, raw := range doc.List("planPhases") {
		p := document.Map(raw)
		if p.Str("phaseName") == convertToRelPhase {
			phasePlan = p.Str("plan")
			break
		}
	}
	if phasePlan == "" {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(phasePlan, "\n") {
		switch {
		case strings.Contains(line, "ScanCrel"):
			idx := strings.Index(line, "ScanCrel")
			kept = append(kept, "PDS:"+line[idx+len("ScanCrel"):])
		case strings.Contains(line, "ExpansionNode"):
			kept = append(kept, strings.TrimSpace(line))
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		iExp := strings.Contains(kept[i], "ExpansionNode")
		jExp := strings.Contains(kept[j], "ExpansionNode")
		if iExp != jExp {
			return iExp
		}
		return kept[i] < kept[j]
	})

	return strings.Join(kept, "\n")
}

// extractReflections prefers the profile's direct reflections field and
// falls back to reconstructing chosen/considered lists from the
// acceleration section's layout profiles.
func extractReflections(doc document.Document, p *ExtractedProfile) {
	if direct := doc.Get("reflections"); direct != nil {
		m := document.Map(direct)
		p.Reflections.Chosen = append(p.Reflections.Chosen, m.StrList("chosen")...)
		p.Reflections.Considered = append(p.Reflections.Considered, m.StrList("considered")...)
		return
	}

	layouts := doc.List("accelerationProfile", "layoutProfiles")
	for i, raw := range layouts {
		layout := document.Map(raw)

		name := layout.Str("name")
		if name == "" {
			if strings.EqualFold(layout.Str("type"), "raw") {
				name = "Raw Reflection " + strconv.Itoa(i+1)
			} else {
				name = "Reflection " + strconv.Itoa(i+1)
			}
		}

		considered := name
		if n := layout.Int("numSubstitutions"); n > 0 {
			considered += " (" + strconv.Itoa(int(n)) + " substitutions)"
		}
		p.Reflections.Considered = append(p.Reflections.Considered, considered)

		if layout.Bool("defaultReflection") || layout.Bool("used") {
			p.Reflections.Chosen = append(p.Reflections.Chosen, name)
		}
	}
}

// extractOptions decodes the embedded JSON array of non-default session
// options. Each entry carries exactly one active typed value.
func extractOptions(doc document.Document, log *zap.Logger) []OptionValue {
	raw := doc.Str("nonDefaultOptionsJSON")
	if raw == "" {
		return nil
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warn("malformed nonDefaultOptionsJSON; ignoring", zap.Error(err))
		return nil
	}

	options := make([]OptionValue, 0, len(entries))
	for _, entry := range entries {
		opt := OptionValue{
			Name:  document.Str(entry["name"], "Unknown"),
			Value: "Unknown",
		}
		for _, key := range []string{"num_val", "float_val", "bool_val", "string_val"} {
			if v, ok := entry[key]; ok && v != nil {
				opt.Value = v
				break
			}
		}
		options = append(options, opt)
	}
	return options
}
