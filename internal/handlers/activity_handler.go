package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/gitkamaal/devtracker/internal/common"
	"github.com/gitkamaal/devtracker/internal/interfaces"
	"github.com/gitkamaal/devtracker/internal/models"
	"github.com/gitkamaal/devtracker/internal/services/atlassian"
	"github.com/gitkamaal/devtracker/internal/services/bitbucket"
	"github.com/gitkamaal/devtracker/internal/services/github"
)

// ActivityHandler serves the typed data-fetch endpoints. Each handler
// resolves the provider credential from the session, builds the query and
// returns the provider payload unmodified.
type ActivityHandler struct {
	session   interfaces.SessionService
	atlassian *atlassian.Service
	github    *github.Service
	bitbucket *bitbucket.Service
	logger    arbor.ILogger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(session interfaces.SessionService, atlassianService *atlassian.Service, githubService *github.Service, bitbucketService *bitbucket.Service, logger arbor.ILogger) *ActivityHandler {
	return &ActivityHandler{
		session:   session,
		atlassian: atlassianService,
		github:    githubService,
		bitbucket: bitbucketService,
		logger:    logger,
	}
}

// jiraCredential prefers the email+token slot and falls back to the
// Atlassian OAuth slot; both address the same Jira/Confluence data.
func (h *ActivityHandler) jiraCredential() (*models.Credential, bool) {
	if cred, ok := h.session.Credential(models.ProviderJira); ok {
		return cred, true
	}
	return h.session.Credential(models.ProviderAtlassian)
}

func (h *ActivityHandler) requireCredential(w http.ResponseWriter, provider models.Provider) (*models.Credential, bool) {
	cred, ok := h.session.Credential(provider)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Provider "+string(provider)+" is not connected")
		return nil, false
	}
	return cred, true
}

// JiraProjectsHandler returns all visible Jira projects
func (h *ActivityHandler) JiraProjectsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cred, ok := h.jiraCredential()
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Jira is not connected")
		return
	}

	projects, err := h.atlassian.ListProjects(r.Context(), cred)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, projects)
}

// JiraIssuesHandler searches issues with a filter built from query
// parameters: status (repeatable or comma-separated), project, team,
// assignee, startDate, endDate (2006-01-02), jql (verbatim extra clause).
func (h *ActivityHandler) JiraIssuesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cred, ok := h.jiraCredential()
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Jira is not connected")
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
	maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))

	result, err := h.atlassian.SearchIssues(r.Context(), cred, filter, startAt, maxResults)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// ConfluenceSpacesHandler lists visible Confluence spaces
func (h *ActivityHandler) ConfluenceSpacesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cred, ok := h.jiraCredential()
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Confluence is not connected")
		return
	}

	start, _ := strconv.Atoi(r.URL.Query().Get("start"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	spaces, err := h.atlassian.ListSpaces(r.Context(), cred, start, limit)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, spaces)
}

// ConfluencePagesHandler lists pages, optionally scoped by space key
func (h *ActivityHandler) ConfluencePagesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cred, ok := h.jiraCredential()
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Confluence is not connected")
		return
	}

	start, _ := strconv.Atoi(r.URL.Query().Get("start"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	pages, err := h.atlassian.ListPages(r.Context(), cred, r.URL.Query().Get("space"), start, limit)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, pages)
}

// GitHubReposHandler lists the authenticated user's repositories
func (h *ActivityHandler) GitHubReposHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cred, ok := h.requireCredential(w, models.ProviderGitHub)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	repos, err := h.github.ListRepositories(r.Context(), cred, page, perPage)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, repos)
}

// GitHubPullsHandler searches pull requests authored by the token owner
func (h *ActivityHandler) GitHubPullsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cred, ok := h.requireCredential(w, models.ProviderGitHub)
	if !ok {
		return
	}

	login := r.URL.Query().Get("author")
	if login == "" {
		user, err := h.github.GetAuthenticatedUser(r.Context(), cred)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
		login = user.GetLogin()
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	result, err := h.github.SearchPullRequests(r.Context(), cred, login, page, perPage)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// BitbucketReposHandler lists repositories in a workspace
func (h *ActivityHandler) BitbucketReposHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cred, ok := h.requireCredential(w, models.ProviderBitbucket)
	if !ok {
		return
	}

	repos, err := h.bitbucket.ListRepositories(r.Context(), cred, r.URL.Query().Get("workspace"))
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, repos)
}

// BitbucketPullsHandler lists pull requests for one repository
func (h *ActivityHandler) BitbucketPullsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cred, ok := h.requireCredential(w, models.ProviderBitbucket)
	if !ok {
		return
	}

	query := r.URL.Query()
	pulls, err := h.bitbucket.ListPullRequests(r.Context(), cred, query.Get("workspace"), query.Get("repo"))
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, pulls)
}

// filterFromQuery builds an IssueFilter from request query parameters
func filterFromQuery(r *http.Request) (atlassian.IssueFilter, error) {
	query := r.URL.Query()
	filter := atlassian.IssueFilter{
		Project:       query.Get("project"),
		Team:          query.Get("team"),
		AssigneeEmail: query.Get("assignee"),
		Extra:         query.Get("jql"),
	}

	for _, raw := range query["status"] {
		for _, s := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				filter.Status = append(filter.Status, trimmed)
			}
		}
	}

	if start := query.Get("startDate"); start != "" {
		parsed, err := time.Parse("2006-01-02", start)
		if err != nil {
			return filter, common.NewValidationError("startDate", "expected format 2006-01-02")
		}
		filter.StartDate = parsed
	}
	if end := query.Get("endDate"); end != "" {
		parsed, err := time.Parse("2006-01-02", end)
		if err != nil {
			return filter, common.NewValidationError("endDate", "expected format 2006-01-02")
		}
		filter.EndDate = parsed
	}

	return filter, nil
}
