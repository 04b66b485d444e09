package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/inkwell/internal/blog"
	"github.com/inkwellhq/inkwell/internal/shares"
)

func (s *IntegrationTestSuite) TestShareLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, authorToken := registerAndLogin(ctx, t, "shareblogger", "blogpass123")
	sharer, sharerToken := registerAndLogin(ctx, t, "sharer", "sharepass123")

	var post blog.Blog
	postBytes := s.do(
		s.newRequest(ctx, authorToken, "POST", "/api/blogs", newBlogPayload("shared post")),
		http.StatusCreated,
	)
	require.NoError(t, json.Unmarshal(postBytes, &post))

	// sharing needs a session
	s.do(s.newRequest(ctx, "", "POST", fmt.Sprintf("/api/shares/%d", post.ID), nil), http.StatusUnauthorized)

	var share shares.Share
	shareBytes := s.do(
		s.newRequest(ctx, sharerToken, "POST", fmt.Sprintf("/api/shares/%d", post.ID), nil),
		http.StatusCreated,
	)
	require.NoError(t, json.Unmarshal(shareBytes, &share))
	require.NotZero(t, share.ID)
	assert.Equal(t, sharer.ID, share.UserID)

	// sharing a missing blog is refused
	s.do(s.newRequest(ctx, sharerToken, "POST", "/api/shares/25342523", nil), http.StatusNotFound)

	// blog shares list publicly
	var blogShares []shares.Share
	listedBytes := s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/shares/blog/%d", post.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(listedBytes, &blogShares))
	require.Len(t, blogShares, 1)
	assert.Equal(t, share.ID, blogShares[0].ID)

	// user shares need a session
	s.do(s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/shares/user/%d", sharer.ID), nil), http.StatusUnauthorized)

	var userShares []shares.Share
	listedBytes = s.do(
		s.newRequest(ctx, sharerToken, "GET", fmt.Sprintf("/api/shares/user/%d", sharer.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(listedBytes, &userShares))
	require.Len(t, userShares, 1)

	// only the sharer can take the share back
	s.do(s.newRequest(ctx, authorToken, "DELETE", fmt.Sprintf("/api/shares/%d", share.ID), nil), http.StatusNotFound)
	s.do(s.newRequest(ctx, sharerToken, "DELETE", fmt.Sprintf("/api/shares/%d", share.ID), nil), http.StatusOK)

	listedBytes = s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/shares/blog/%d", post.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(listedBytes, &blogShares))
	assert.Empty(t, blogShares)
}
