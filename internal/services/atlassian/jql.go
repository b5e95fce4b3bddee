package atlassian

import (
	"fmt"
	"strings"
	"time"
)

// jqlDateFormat renders calendar-date-only comparisons; JQL rejects
// time-of-day values against the updated field without quoting tricks.
const jqlDateFormat = "2006-01-02"

// IssueFilter is a stateless value object describing one issue search.
// It is consumed once by BuildJQL and never mutated.
type IssueFilter struct {
	Status        []string
	Project       string
	Team          string
	AssigneeEmail string
	StartDate     time.Time
	EndDate       time.Time
	Extra         string // appended verbatim as an additional clause
}

// BuildJQL assembles the filter into a JQL expression, AND-joining present
// fields in a fixed order: status, project, team, assignee, start date,
// end date, extra. An empty filter yields the empty string, which the
// search API treats as "match all". Output is deterministic for a given
// filter.
func BuildJQL(f IssueFilter) string {
	var clauses []string

	switch len(f.Status) {
	case 0:
	case 1:
		clauses = append(clauses, fmt.Sprintf("status = %s", quoteJQL(f.Status[0])))
	default:
		quoted := make([]string, len(f.Status))
		for i, s := range f.Status {
			quoted[i] = quoteJQL(s)
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(quoted, ", ")))
	}

	if f.Project != "" {
		clauses = append(clauses, fmt.Sprintf("project = %s", quoteJQL(f.Project)))
	}
	if f.Team != "" {
		clauses = append(clauses, fmt.Sprintf("team = %s", quoteJQL(f.Team)))
	}
	if f.AssigneeEmail != "" {
		clauses = append(clauses, fmt.Sprintf("assignee = %s", quoteJQL(f.AssigneeEmail)))
	}
	if !f.StartDate.IsZero() {
		clauses = append(clauses, fmt.Sprintf("updated >= %q", f.StartDate.Format(jqlDateFormat)))
	}
	if !f.EndDate.IsZero() {
		clauses = append(clauses, fmt.Sprintf("updated <= %q", f.EndDate.Format(jqlDateFormat)))
	}
	if f.Extra != "" {
		clauses = append(clauses, f.Extra)
	}

	return strings.Join(clauses, " AND ")
}

func quoteJQL(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}
