package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xkilldash9x/sonarlens/api/schemas"
)

// csvHeader is the fixed column order of the delimited-text output.
var csvHeader = []string{
	"key", "rule", "ruleName", "severity", "type", "status",
	"component", "fileName", "line", "message", "author", "tags",
	"isHotspot", "creationDate", "updateDate",
}

// WriteJSON serializes v as an indented structural dump.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

// WriteCSV serializes the issue sequence as RFC-4180 delimited text: fields
// containing the delimiter, a quote, or a newline are quoted, with embedded
// quotes doubled.
func WriteCSV(w io.Writer, issues []schemas.Issue) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, issue := range issues {
		line := ""
		if issue.Line > 0 {
			line = strconv.Itoa(issue.Line)
		}
		record := []string{
			issue.Key,
			issue.Rule,
			issue.RuleName,
			string(issue.Severity),
			string(issue.Type),
			issue.Status,
			issue.Component,
			issue.FileName,
			line,
			issue.Message,
			issue.Author,
			strings.Join(issue.Tags, ";"),
			strconv.FormatBool(issue.IsHotspot),
			issue.CreationDate,
			issue.UpdateDate,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV record for issue %s: %w", issue.Key, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV output: %w", err)
	}
	return nil
}
