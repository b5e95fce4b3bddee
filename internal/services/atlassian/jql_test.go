package atlassian

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildJQL_EmptyFilter(t *testing.T) {
	assert.Equal(t, "", BuildJQL(IssueFilter{}))
}

func TestBuildJQL_SingleStatus(t *testing.T) {
	jql := BuildJQL(IssueFilter{Status: []string{"Done"}})
	assert.Equal(t, `status = "Done"`, jql)
}

func TestBuildJQL_MultipleStatuses(t *testing.T) {
	jql := BuildJQL(IssueFilter{
		Status:  []string{"Done", "In Progress"},
		Project: "ABC",
	})
	assert.Equal(t, `status IN ("Done", "In Progress") AND project = "ABC"`, jql)
}

func TestBuildJQL_ClauseOrder(t *testing.T) {
	jql := BuildJQL(IssueFilter{
		Status:        []string{"Done"},
		Project:       "ABC",
		Team:          "Platform",
		AssigneeEmail: "dev@example.com",
		StartDate:     time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Extra:         "labels = backend",
	})
	expected := `status = "Done" AND project = "ABC" AND team = "Platform" AND assignee = "dev@example.com" AND updated >= "2024-01-15" AND updated <= "2024-02-01" AND labels = backend`
	assert.Equal(t, expected, jql)
}

func TestBuildJQL_DateOnlyStart(t *testing.T) {
	jql := BuildJQL(IssueFilter{
		StartDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, `updated >= "2024-03-05"`, jql)
}

func TestBuildJQL_QuoteEscaping(t *testing.T) {
	jql := BuildJQL(IssueFilter{Project: `My "Special" Project`})
	assert.Equal(t, `project = "My \"Special\" Project"`, jql)
}

func TestBuildJQL_Deterministic(t *testing.T) {
	f := IssueFilter{
		Status:  []string{"To Do", "In Progress"},
		Project: "ABC",
	}
	assert.Equal(t, BuildJQL(f), BuildJQL(f))
}
