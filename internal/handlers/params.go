package handlers

import (
	"net/http"

	"masterlink/internal/models"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// callerID is the authenticated user id the JWT middleware stored on the
// request context; zero when the request is unauthenticated.
func callerID(r *http.Request) int {
	if v, ok := r.Context().Value(models.CtxUserID).(int); ok {
		return v
	}
	return 0
}
