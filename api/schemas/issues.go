package schemas

// -- Enumerations --
// Severity and IssueType mirror the fixed vocabularies of the issue-search
// API. Order matters for reporting: AllSeverities and AllIssueTypes define
// the canonical iteration order used by the summary aggregator.

// Severity is the server-side severity code of an issue.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityMinor    Severity = "MINOR"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
	SeverityBlocker  Severity = "BLOCKER"
)

// AllSeverities lists every valid severity, least to most severe.
var AllSeverities = []Severity{
	SeverityInfo,
	SeverityMinor,
	SeverityMajor,
	SeverityCritical,
	SeverityBlocker,
}

// Valid reports whether s is a member of the fixed severity enumeration.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityMinor, SeverityMajor, SeverityCritical, SeverityBlocker:
		return true
	}
	return false
}

// IssueType is the server-side classification of an issue.
type IssueType string

const (
	TypeCodeSmell     IssueType = "CODE_SMELL"
	TypeBug           IssueType = "BUG"
	TypeVulnerability IssueType = "VULNERABILITY"

	// typeSecurityHotspot appears in raw payloads from older servers; it is
	// folded into the hotspot flag during normalization rather than kept as
	// a distinct type.
	TypeSecurityHotspot IssueType = "SECURITY_HOTSPOT"
)

// AllIssueTypes lists every valid issue type.
var AllIssueTypes = []IssueType{
	TypeCodeSmell,
	TypeBug,
	TypeVulnerability,
}

// Valid reports whether t is a member of the fixed issue-type enumeration.
func (t IssueType) Valid() bool {
	switch t {
	case TypeCodeSmell, TypeBug, TypeVulnerability:
		return true
	}
	return false
}

// -- Wire models --

// RawIssue is one issue object exactly as the search endpoint returns it.
type RawIssue struct {
	Key          string   `json:"key"`
	Rule         string   `json:"rule"`
	Severity     string   `json:"severity"`
	Component    string   `json:"component"`
	Project      string   `json:"project"`
	Line         int      `json:"line,omitempty"`
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	Author       string   `json:"author,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Type         string   `json:"type"`
	CreationDate string   `json:"creationDate"`
	UpdateDate   string   `json:"updateDate"`
}

// Paging is the nested paging block of the search envelope.
type Paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// SearchResponse is the JSON envelope of GET /api/issues/search.
// The coordinator tolerates either the nested paging block or the legacy
// top-level total/p/ps fields.
type SearchResponse struct {
	Total  int        `json:"total"`
	Page   int        `json:"p"`
	Size   int        `json:"ps"`
	Paging Paging     `json:"paging"`
	Issues []RawIssue `json:"issues"`
}

// TotalIssues returns the server-reported total issue count.
func (r *SearchResponse) TotalIssues() int {
	if r.Paging.Total > 0 {
		return r.Paging.Total
	}
	return r.Total
}

// PageSize returns the server-reported page size.
func (r *SearchResponse) PageSize() int {
	if r.Paging.PageSize > 0 {
		return r.Paging.PageSize
	}
	return r.Size
}

// PageIndex returns the server-reported 1-based page index.
func (r *SearchResponse) PageIndex() int {
	if r.Paging.PageIndex > 0 {
		return r.Paging.PageIndex
	}
	return r.Page
}

// TotalPages derives the page count from the reported total and page size.
func (r *SearchResponse) TotalPages() int {
	size := r.PageSize()
	if size <= 0 {
		return 1
	}
	pages := r.TotalIssues() / size
	if r.TotalIssues()%size != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}

// -- Normalized models --

// Issue is an immutable, normalized issue record. RuleName is empty when the
// rule identifier has no entry in the lookup table; Line is zero when the
// issue is not anchored to a line; Author is empty when unattributed.
type Issue struct {
	Key          string    `json:"key"`
	Rule         string    `json:"rule"`
	RuleName     string    `json:"ruleName,omitempty"`
	Severity     Severity  `json:"severity"`
	Type         IssueType `json:"type"`
	Status       string    `json:"status"`
	Component    string    `json:"component"`
	FileName     string    `json:"fileName"`
	Line         int       `json:"line,omitempty"`
	Message      string    `json:"message"`
	Author       string    `json:"author,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	IsHotspot    bool      `json:"isHotspot"`
	CreationDate string    `json:"creationDate"`
	UpdateDate   string    `json:"updateDate"`
}

// ExportResult is the fully-materialized outcome of a fetch. A merged
// all-pages result carries Page=1 and TotalPages=1 to signal downstream
// consumers that pagination is exhausted.
type ExportResult struct {
	Issues     []Issue `json:"issues"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
}

// ComponentCount pairs a component file name with its issue count.
type ComponentCount struct {
	FileName string `json:"fileName"`
	Count    int    `json:"count"`
}

// Summary holds aggregate statistics over a normalized issue set. The
// severity and type maps always contain every enumeration member,
// zero-filled when absent from the data.
type Summary struct {
	Total         int               `json:"total"`
	BySeverity    map[Severity]int  `json:"bySeverity"`
	ByType        map[IssueType]int `json:"byType"`
	TopComponents []ComponentCount  `json:"topComponents"`
}
