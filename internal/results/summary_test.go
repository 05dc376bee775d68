package results

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/sonarlens/api/schemas"
)

func issueIn(file string, severity schemas.Severity, issueType schemas.IssueType) schemas.Issue {
	return schemas.Issue{FileName: file, Severity: severity, Type: issueType}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.TopComponents)

	require.Len(t, summary.BySeverity, 5, "all severity keys must be present")
	for _, s := range schemas.AllSeverities {
		assert.Zero(t, summary.BySeverity[s])
	}
	require.Len(t, summary.ByType, 3, "all type keys must be present")
	for _, it := range schemas.AllIssueTypes {
		assert.Zero(t, summary.ByType[it])
	}
}

func TestSummarizeCounts(t *testing.T) {
	issues := []schemas.Issue{
		issueIn("a.go", schemas.SeverityMajor, schemas.TypeBug),
		issueIn("b.go", schemas.SeverityMajor, schemas.TypeCodeSmell),
		issueIn("c.go", schemas.SeverityBlocker, schemas.TypeVulnerability),
		issueIn("a.go", schemas.SeverityInfo, schemas.TypeCodeSmell),
	}

	summary := Summarize(issues)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.BySeverity[schemas.SeverityMajor])
	assert.Equal(t, 1, summary.BySeverity[schemas.SeverityBlocker])
	assert.Equal(t, 1, summary.BySeverity[schemas.SeverityInfo])
	assert.Equal(t, 0, summary.BySeverity[schemas.SeverityMinor])
	assert.Equal(t, 2, summary.ByType[schemas.TypeCodeSmell])
	assert.Equal(t, 1, summary.ByType[schemas.TypeBug])
	assert.Equal(t, 1, summary.ByType[schemas.TypeVulnerability])
}

func TestSummarizeTopComponents(t *testing.T) {
	// Components [A, A, B, C, C, C] must yield [(C,3), (A,2), (B,1)].
	var issues []schemas.Issue
	for _, f := range []string{"A", "A", "B", "C", "C", "C"} {
		issues = append(issues, issueIn(f, schemas.SeverityMinor, schemas.TypeCodeSmell))
	}

	summary := Summarize(issues)
	require.Len(t, summary.TopComponents, 3)
	assert.Equal(t, schemas.ComponentCount{FileName: "C", Count: 3}, summary.TopComponents[0])
	assert.Equal(t, schemas.ComponentCount{FileName: "A", Count: 2}, summary.TopComponents[1])
	assert.Equal(t, schemas.ComponentCount{FileName: "B", Count: 1}, summary.TopComponents[2])
}

func TestSummarizeTiesBrokenByFirstAppearance(t *testing.T) {
	var issues []schemas.Issue
	for _, f := range []string{"z.go", "a.go", "m.go"} {
		issues = append(issues, issueIn(f, schemas.SeverityMinor, schemas.TypeCodeSmell))
	}

	summary := Summarize(issues)
	require.Len(t, summary.TopComponents, 3)
	assert.Equal(t, "z.go", summary.TopComponents[0].FileName)
	assert.Equal(t, "a.go", summary.TopComponents[1].FileName)
	assert.Equal(t, "m.go", summary.TopComponents[2].FileName)
}

func TestSummarizeTopComponentsTruncatedToTen(t *testing.T) {
	var issues []schemas.Issue
	for i := 0; i < 25; i++ {
		issues = append(issues, issueIn(fmt.Sprintf("file%02d.go", i), schemas.SeverityMinor, schemas.TypeCodeSmell))
	}

	summary := Summarize(issues)
	assert.Len(t, summary.TopComponents, TopComponentsLimit)
}

func TestSummarizeSeverityCountsOrderInvariant(t *testing.T) {
	forward := []schemas.Issue{
		issueIn("a.go", schemas.SeverityMajor, schemas.TypeBug),
		issueIn("b.go", schemas.SeverityInfo, schemas.TypeCodeSmell),
		issueIn("c.go", schemas.SeverityBlocker, schemas.TypeVulnerability),
	}
	reversed := []schemas.Issue{forward[2], forward[1], forward[0]}

	a := Summarize(forward)
	b := Summarize(reversed)
	assert.Equal(t, a.BySeverity, b.BySeverity)
	assert.Equal(t, a.ByType, b.ByType)
	assert.Equal(t, a.Total, b.Total)
}
