package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/inkwell/internal/users"
)

func (s *IntegrationTestSuite) TestRegisterAndLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := registerUser(ctx, t, "logintester", "goodpass1234")

	// duplicate username is refused
	s.do(
		s.newRequest(ctx, "", "POST", "/api/auth/register", registerRequest{
			Username: "logintester",
			Password: "whatever1234",
		}),
		http.StatusConflict,
	)

	// wrong password is refused
	s.do(
		s.newRequest(ctx, "", "POST", "/api/auth/login", loginRequest{
			Username: "logintester",
			Password: "not-the-password",
		}),
		http.StatusBadRequest,
	)

	token := doLogin(ctx, t, "logintester", "goodpass1234")

	// user profiles are public, password hash never included
	profileBytes := s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/users/%d", user.ID), nil),
		http.StatusOK,
	)
	var profile users.User
	require.NoError(t, json.Unmarshal(profileBytes, &profile))
	assert.Equal(t, "logintester", profile.Username)
	assert.NotContains(t, string(profileBytes), "password")

	// only the user may patch their own record
	_, strangerToken := registerAndLogin(ctx, t, "loginstranger", "strangerpass1")
	s.do(
		s.newRequest(ctx, strangerToken, "PATCH", fmt.Sprintf("/api/users/%d", user.ID), map[string]any{
			"email": "evil@example.org",
		}),
		http.StatusForbidden,
	)
	s.do(
		s.newRequest(ctx, token, "PATCH", fmt.Sprintf("/api/users/%d", user.ID), map[string]any{
			"email": "fresh@example.org",
		}),
		http.StatusOK,
	)

	profileBytes = s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/users/%d", user.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(profileBytes, &profile))
	assert.Equal(t, "fresh@example.org", profile.Email)

	// logout kills the session
	s.do(s.newRequest(ctx, token, "POST", "/api/auth/logout", nil), http.StatusOK)
	s.do(
		s.newRequest(ctx, token, "PATCH", fmt.Sprintf("/api/users/%d", user.ID), map[string]any{
			"email": "late@example.org",
		}),
		http.StatusUnauthorized,
	)
}
