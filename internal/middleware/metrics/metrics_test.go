package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/v1/boards/{board}/threads/{thread}", "threads"},
		{"/v1/boards/{board}/threads/{thread}/replies/{reply}", "replies"},
		{"/v1/boards/{board}/threads/{thread}/flags", "flags"},
		{"/v1/boards/{board}/threads/{thread}/replies/{reply}/flags/count", "flags"},
		{"/v1/boards/{board}/flagged", "flags"},
		{"/v1/boards/{board}/users/{user}/ban", "bans"},
		{"/v1/boards/{board}/invites/{user}/accept", "invites"},
		{"/v1/boards/{board}/members/{user}", "invites"},
		{"/v1/boards/{board}/users/{user}/role", "roles"},
		{"/v1/boards/{board}/owner", "roles"},
		{"/v1/boards/{board}/config", "config"},
		{"/health", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, group(tt.route), tt.route)
	}
}

func TestMiddlewarePassesStatusThrough(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
