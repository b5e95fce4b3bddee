package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// OAuth flows (GitHub access-token flow, Atlassian 3LO with refresh)
	mux.HandleFunc("/auth/github/login", s.app.OAuthHandler.GitHubLoginHandler)
	mux.HandleFunc("/auth/github/callback", s.app.OAuthHandler.GitHubCallbackHandler)
	mux.HandleFunc("/auth/atlassian/login", s.app.OAuthHandler.AtlassianLoginHandler)
	mux.HandleFunc("/auth/atlassian/callback", s.app.OAuthHandler.AtlassianCallbackHandler)
	mux.HandleFunc("/auth/complete", s.app.OAuthHandler.CompleteHandler)

	// API routes - session lifecycle
	mux.HandleFunc("/api/session", s.app.SessionHandler.StatusHandler)          // GET - all provider slots
	mux.HandleFunc("/api/session/jira", s.handleJiraSession)                    // POST (connect), DELETE (disconnect)
	mux.HandleFunc("/api/session/bitbucket", s.handleBitbucketSession)          // POST (connect), DELETE (disconnect)
	mux.HandleFunc("/api/session/refresh", s.app.SessionHandler.RefreshHandler) // POST - Atlassian token refresh
	mux.HandleFunc("/api/session/", s.app.SessionHandler.DisconnectHandler)     // DELETE /{provider}

	// API routes - authenticated upstream proxy
	mux.HandleFunc("/api/proxy", s.app.ProxyHandler.Handle)

	// API routes - Jira
	mux.HandleFunc("/api/jira/projects", s.app.ActivityHandler.JiraProjectsHandler)
	mux.HandleFunc("/api/jira/issues", s.app.ActivityHandler.JiraIssuesHandler)

	// API routes - Confluence
	mux.HandleFunc("/api/confluence/spaces", s.app.ActivityHandler.ConfluenceSpacesHandler)
	mux.HandleFunc("/api/confluence/pages", s.app.ActivityHandler.ConfluencePagesHandler)

	// API routes - GitHub
	mux.HandleFunc("/api/github/repos", s.app.ActivityHandler.GitHubReposHandler)
	mux.HandleFunc("/api/github/pulls", s.app.ActivityHandler.GitHubPullsHandler)

	// API routes - Bitbucket
	mux.HandleFunc("/api/bitbucket/repos", s.app.ActivityHandler.BitbucketReposHandler)
	mux.HandleFunc("/api/bitbucket/pulls", s.app.ActivityHandler.BitbucketPullsHandler)

	// System routes
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

func (s *Server) handleJiraSession(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		"POST":   s.app.SessionHandler.ConnectJiraHandler,
		"DELETE": s.app.SessionHandler.DisconnectHandler,
	})
}

func (s *Server) handleBitbucketSession(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		"POST":   s.app.SessionHandler.ConnectBitbucketHandler,
		"DELETE": s.app.SessionHandler.DisconnectHandler,
	})
}
