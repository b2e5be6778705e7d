package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskvault/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, srv *testServer, username, password string, role types.Role) types.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := srv.users.Create(context.Background(), types.User{
		Username:     username,
		Email:        username + "@example.com",
		Role:         role,
		PasswordHash: string(hashed),
	})
	require.NoError(t, err)
	return user
}

func TestSignUpCreatesUserWithDefaultRole(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(t, http.MethodPost, "/signup", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "p1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	user := decodeBody[types.User](t, rec)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, types.RoleUser, user.Role)
	require.NotZero(t, user.ID)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestSignUpRejectsDuplicates(t *testing.T) {
	srv := newTestServer()
	seedUser(t, srv, "alice", "p1", types.RoleUser)

	rec := srv.do(t, http.MethodPost, "/signup", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "p1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignUpRejectsInvalidInput(t *testing.T) {
	srv := newTestServer()

	cases := []map[string]string{
		{"email": "a@example.com", "password": "p1"},
		{"username": "a", "password": "p1"},
		{"username": "a", "email": "not-an-email", "password": "p1"},
		{"username": "a", "email": "a@example.com"},
	}
	for _, payload := range cases {
		rec := srv.do(t, http.MethodPost, "/signup", "", payload)
		require.Equal(t, http.StatusBadRequest, rec.Code, "payload %v", payload)
	}
}

func TestLoginReturnsUsableToken(t *testing.T) {
	srv := newTestServer()
	seedUser(t, srv, "boss", "hunter2", types.RoleAdmin)

	rec := srv.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "boss",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	parsed := decodeBody[TokenResponse](t, rec)
	require.NotEmpty(t, parsed.Token)

	claims, err := srv.tokens.Verify(parsed.Token)
	require.NoError(t, err)
	require.Equal(t, types.RoleAdmin, claims.Role)
}

func TestLoginFailsUniformly(t *testing.T) {
	srv := newTestServer()
	seedUser(t, srv, "alice", "correct", types.RoleUser)

	wrongPassword := srv.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "alice",
		"password": "incorrect",
	})
	unknownUser := srv.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "nobody",
		"password": "whatever",
	})

	require.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	require.Equal(t, http.StatusBadRequest, unknownUser.Code)
	require.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestLogoutBlacklistsToken(t *testing.T) {
	srv := newTestServer()
	seedUser(t, srv, "boss", "hunter2", types.RoleAdmin)

	login := srv.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "boss",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, login.Code)
	token := decodeBody[TokenResponse](t, login).Token

	before := srv.do(t, http.MethodGet, "/todos", token, nil)
	require.Equal(t, http.StatusOK, before.Code)

	logout := srv.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, logout.Code)

	// The token has not expired, but every subsequent request fails.
	after := srv.do(t, http.MethodGet, "/todos", token, nil)
	require.Equal(t, http.StatusUnauthorized, after.Code)

	// Logging out again with the revoked token is itself unauthorized.
	again := srv.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusUnauthorized, again.Code)
}

func TestLogoutRequiresAuthentication(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(t, http.MethodPost, "/logout", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
