package models

// ProxyRequest is the JSON body accepted by the authenticated proxy
// endpoint. It exists only for the duration of one forwarded call and is
// never persisted. Requires URL plus either Token or both Email and
// APIToken.
type ProxyRequest struct {
	URL         string      `json:"url" validate:"required,url"`
	Email       string      `json:"email,omitempty" validate:"required_without=Token"`
	APIToken    string      `json:"apiToken,omitempty" validate:"required_without=Token"`
	Token       string      `json:"token,omitempty"`
	Method      string      `json:"method,omitempty"`
	Body        interface{} `json:"body,omitempty"`
	IsBitbucket bool        `json:"isBitbucket,omitempty"`
}
