package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyhaines/boards/internal/auth"
	"github.com/wyhaines/boards/internal/content"
	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/handler"
	"github.com/wyhaines/boards/internal/kv"
	"github.com/wyhaines/boards/internal/setup"
	"github.com/wyhaines/boards/internal/utils/jwt"
)

type env struct {
	srv  *httptest.Server
	jwt  jwt.JwtService
	auth *auth.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := kv.NewMemory()
	a := auth.New(db)
	c := content.New(db, a)
	j := jwt.New("test_secret", time.Hour)
	h := handler.New(a, c, j)

	deps := &setup.Dependencies{DB: db, Auth: a, Content: c, Handler: h, Jwt: j}
	srv := httptest.NewServer(New(deps))
	t.Cleanup(srv.Close)
	return &env{srv: srv, jwt: j, auth: a}
}

func (e *env) do(t *testing.T, method, path string, user domain.UserId, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	if user != "" {
		token, err := e.jwt.NewToken(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTokenEndpoint(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, "POST", "/v1/token", "", handler.TokenRequest{User: "alice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[handler.TokenResponse](t, resp)
	assert.NotEmpty(t, body.Token)

	resp = e.do(t, "POST", "/v1/token", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "user is required")
}

func TestMutationsRequireToken(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, "POST", "/v1/boards/1/threads", "", handler.CreateThreadRequest{Title: "t", Body: "b"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestThreadLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t)

	// Bootstrap: the caller becomes owner of board 1.
	resp := e.do(t, "POST", "/v1/boards/1/owner", "alice", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Owner invites bob.
	resp = e.do(t, "POST", "/v1/boards/1/members/bob", "alice", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Bob creates a thread.
	resp = e.do(t, "POST", "/v1/boards/1/threads", "bob", handler.CreateThreadRequest{Title: "hello", Body: "world"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Everyone can read it, token or not.
	resp = e.do(t, "GET", "/v1/boards/1/threads/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	thread := decode[handler.ThreadResponse](t, resp)
	assert.Equal(t, "hello", thread.Title)
	assert.Equal(t, "world", thread.Body)
	assert.Equal(t, domain.UserId("bob"), thread.Creator)

	// Bob replies to his own thread.
	resp = e.do(t, "POST", "/v1/boards/1/threads/1/replies", "bob", handler.CreateReplyRequest{Parent: 0, Body: "first"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, "GET", "/v1/boards/1/threads/1/replies", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	replies := decode[[]handler.ReplyResponse](t, resp)
	require.Len(t, replies, 1)
	assert.Equal(t, uint32(0), replies[0].Depth, "direct replies sit at depth 0")

	// A guest cannot post.
	resp = e.do(t, "POST", "/v1/boards/1/threads", "mallory", handler.CreateThreadRequest{Title: "x", Body: "y"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Listing shows the one thread.
	resp = e.do(t, "GET", "/v1/boards/1/threads", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	threads := decode[[]domain.Thread](t, resp)
	assert.Len(t, threads, 1)

	resp = e.do(t, "GET", "/v1/boards/1/threads/count", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count := decode[handler.CountResponse](t, resp)
	assert.Equal(t, uint64(1), count.Count)

	resp = e.do(t, "GET", "/v1/boards/1/threads/1/replies/count", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count = decode[handler.CountResponse](t, resp)
	assert.Equal(t, uint64(1), count.Count)
}

func TestModerationOverHTTP(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.auth.SetBoardOwner(1, "alice"))
	require.NoError(t, e.auth.InviteMember("alice", 1, "bob", domain.RoleMember))
	require.NoError(t, e.auth.InviteMember("alice", 1, "carol", domain.RoleMember))

	resp := e.do(t, "POST", "/v1/boards/1/threads", "bob", handler.CreateThreadRequest{Title: "t", Body: "b"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Carol flags the thread; threshold dropped to 1 hides it immediately.
	resp = e.do(t, "PUT", "/v1/boards/1/config", "alice", handler.BoardConfigRequest{FlagThreshold: uint32Ptr(1)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, "POST", "/v1/boards/1/threads/1/flags", "carol", handler.FlagRequest{Reason: "spam"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	flagged := decode[handler.FlagCountResponse](t, resp)
	assert.Equal(t, uint32(1), flagged.FlagCount)

	// Hidden from members, visible to the owner.
	resp = e.do(t, "GET", "/v1/boards/1/threads", "bob", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]domain.Thread](t, resp))

	resp = e.do(t, "GET", "/v1/boards/1/flagged", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	queue := decode[[]domain.FlaggedItem](t, resp)
	require.Len(t, queue, 1)
	assert.Equal(t, domain.FlaggedThread, queue[0].Kind)

	// Ban carol; her next flag attempt is rejected before the duplicate
	// check even runs.
	resp = e.do(t, "POST", "/v1/boards/1/users/carol/ban", "alice", handler.BanRequest{Reason: "abuse"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, "POST", "/v1/boards/1/threads/1/flags", "carol", handler.FlagRequest{Reason: "again"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRoleEndpoints(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.auth.SetBoardOwner(1, "alice"))

	resp := e.do(t, "PUT", "/v1/boards/1/users/bob/role", "alice", handler.SetRoleRequest{Role: "moderator"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, "GET", "/v1/boards/1/users/bob/role", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	role := decode[handler.RoleResponse](t, resp)
	assert.Equal(t, "moderator", role.Role)

	resp = e.do(t, "GET", "/v1/boards/1/users/bob/permissions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	perms := decode[domain.PermissionSet](t, resp)
	assert.True(t, perms.CanModerate)
	assert.False(t, perms.CanAdmin)

	resp = e.do(t, "PUT", "/v1/boards/1/users/bob/role", "alice", handler.SetRoleRequest{Role: "emperor"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBadPathParams(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, "GET", "/v1/boards/notanumber/threads", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func uint32Ptr(v uint32) *uint32 { return &v }
