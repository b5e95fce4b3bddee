package models

// AccessibleResource is one tenant entry from the Atlassian resource
// discovery call made after OAuth authentication.
type AccessibleResource struct {
	ID        string   `json:"id"` // cloud id
	URL       string   `json:"url"`
	Name      string   `json:"name"`
	Scopes    []string `json:"scopes"`
	AvatarURL string   `json:"avatarUrl"`
}

// AtlassianMe is the authenticated-user payload from the platform /me
// endpoint used by OAuth credentials before tenant routing exists.
type AtlassianMe struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Picture   string `json:"picture"`
}

// JiraMyself is the authenticated-user payload from /rest/api/3/myself
// (site API) or /me (platform API).
type JiraMyself struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
	TimeZone     string `json:"timeZone"`
}

// JiraProject is one project record from /rest/api/3/project
type JiraProject struct {
	ID             string `json:"id"`
	Key            string `json:"key"`
	Name           string `json:"name"`
	ProjectTypeKey string `json:"projectTypeKey"`
}

// JiraIssue is one issue from a JQL search. Optional fields (assignee,
// priority) default to their zero values when the provider omits them.
type JiraIssue struct {
	ID     string          `json:"id"`
	Key    string          `json:"key"`
	Fields JiraIssueFields `json:"fields"`
}

type JiraIssueFields struct {
	Summary   string        `json:"summary"`
	Status    JiraStatus    `json:"status"`
	IssueType JiraIssueType `json:"issuetype"`
	Priority  *JiraPriority `json:"priority,omitempty"`
	Assignee  *JiraUserRef  `json:"assignee,omitempty"`
	Updated   string        `json:"updated"`
	Created   string        `json:"created"`
}

type JiraStatus struct {
	Name string `json:"name"`
}

type JiraIssueType struct {
	Name string `json:"name"`
}

type JiraPriority struct {
	Name string `json:"name"`
}

type JiraUserRef struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// JiraSearchResult is the page envelope returned by the JQL search endpoint
type JiraSearchResult struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	IsLast     bool        `json:"isLast"`
	Issues     []JiraIssue `json:"issues"`
}

// ConfluenceSpace is one space from /wiki/rest/api/space
type ConfluenceSpace struct {
	ID   int64  `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ConfluenceSpaceList is the page envelope for space listings
type ConfluenceSpaceList struct {
	Results []ConfluenceSpace `json:"results"`
	Start   int               `json:"start"`
	Limit   int               `json:"limit"`
	Size    int               `json:"size"`
}

// ConfluencePage is one content record from /wiki/rest/api/content
type ConfluencePage struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

// ConfluencePageList is the page envelope for content listings
type ConfluencePageList struct {
	Results []ConfluencePage `json:"results"`
	Start   int              `json:"start"`
	Limit   int              `json:"limit"`
	Size    int              `json:"size"`
}
