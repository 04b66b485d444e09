package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/inkwell/internal/users"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerUser creates a fresh user through the public API and returns it.
func registerUser(ctx context.Context, t *testing.T, username, password string) users.User {
	t.Helper()

	regReqJson, err := json.Marshal(registerRequest{
		Username: username,
		Email:    username + "@example.org",
		Password: password,
	})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/api/auth/register", serverEndpoint),
		bytes.NewBuffer(regReqJson),
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	var user users.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	require.NotZero(t, user.ID)

	return user
}

// doLogin logs the user in through the public API and returns the session token.
func doLogin(ctx context.Context, t *testing.T, username, password string) string {
	t.Helper()

	loginReqJson, err := json.Marshal(loginRequest{
		Username: username,
		Password: password,
	})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/api/auth/login", serverEndpoint),
		bytes.NewBuffer(loginReqJson),
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, respBytes)

	var loginResp loginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)

	return loginResp.Token
}

// registerAndLogin is the usual test entrypoint: fresh user, live session.
func registerAndLogin(ctx context.Context, t *testing.T, username, password string) (users.User, string) {
	t.Helper()
	user := registerUser(ctx, t, username, password)
	token := doLogin(ctx, t, username, password)
	return user, token
}
