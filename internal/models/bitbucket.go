package models

// BitbucketUser is the authenticated-user payload from /2.0/user
type BitbucketUser struct {
	UUID        string `json:"uuid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AccountID   string `json:"account_id"`
}

// BitbucketRepo is one repository from /2.0/repositories/{workspace}
type BitbucketRepo struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	IsPrivate bool   `json:"is_private"`
	Language  string `json:"language"`
	UpdatedOn string `json:"updated_on"`
}

// BitbucketPullRequest is one PR from /2.0/repositories/{workspace}/{repo}/pullrequests
type BitbucketPullRequest struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	State string `json:"state"`
	Author struct {
		DisplayName string `json:"display_name"`
		UUID        string `json:"uuid"`
	} `json:"author"`
	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
}

// BitbucketPage is the paged envelope Bitbucket wraps list responses in.
// Values stays raw-typed per resource at the call site.
type BitbucketRepoPage struct {
	Size    int             `json:"size"`
	Page    int             `json:"page"`
	Next    string          `json:"next"`
	Values  []BitbucketRepo `json:"values"`
}

type BitbucketPullRequestPage struct {
	Size   int                    `json:"size"`
	Page   int                    `json:"page"`
	Next   string                 `json:"next"`
	Values []BitbucketPullRequest `json:"values"`
}
