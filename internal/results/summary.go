package results

import (
	"sort"

	"github.com/xkilldash9x/sonarlens/api/schemas"
)

// TopComponentsLimit caps the top-components list in a Summary.
const TopComponentsLimit = 10

// Summarize computes aggregate statistics over a normalized issue sequence
// in a single pass. Severity and type counters are pre-seeded at zero for
// every enumeration member so the output always carries complete keys. The
// top-components list is sorted by count descending, ties broken by first
// appearance in the input sequence, and truncated to TopComponentsLimit.
// The result is deterministic for a given input order.
func Summarize(issues []schemas.Issue) schemas.Summary {
	bySeverity := make(map[schemas.Severity]int, len(schemas.AllSeverities))
	for _, s := range schemas.AllSeverities {
		bySeverity[s] = 0
	}
	byType := make(map[schemas.IssueType]int, len(schemas.AllIssueTypes))
	for _, t := range schemas.AllIssueTypes {
		byType[t] = 0
	}

	fileCounts := make(map[string]int)
	fileOrder := make([]string, 0)

	for _, issue := range issues {
		bySeverity[issue.Severity]++
		byType[issue.Type]++

		if _, seen := fileCounts[issue.FileName]; !seen {
			fileOrder = append(fileOrder, issue.FileName)
		}
		fileCounts[issue.FileName]++
	}

	top := make([]schemas.ComponentCount, 0, len(fileOrder))
	for _, name := range fileOrder {
		top = append(top, schemas.ComponentCount{FileName: name, Count: fileCounts[name]})
	}
	// Stable sort keeps the first-seen order among equal counts.
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > TopComponentsLimit {
		top = top[:TopComponentsLimit]
	}

	return schemas.Summary{
		Total:         len(issues),
		BySeverity:    bySeverity,
		ByType:        byType,
		TopComponents: top,
	}
}
