package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/inkwell/internal/blog"
	"github.com/inkwellhq/inkwell/internal/comments"
)

func (s *IntegrationTestSuite) TestCommentLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, authorToken := registerAndLogin(ctx, t, "commentblogger", "blogpass123")
	commenter, commenterToken := registerAndLogin(ctx, t, "commenter", "commentpass1")

	var post blog.Blog
	postBytes := s.do(
		s.newRequest(ctx, authorToken, "POST", "/api/blogs", newBlogPayload("commented post")),
		http.StatusCreated,
	)
	require.NoError(t, json.Unmarshal(postBytes, &post))

	// commenting needs a session
	s.do(
		s.newRequest(ctx, "", "POST", fmt.Sprintf("/api/comments/%d", post.ID), map[string]any{
			"content": "anonymous drive-by",
		}),
		http.StatusUnauthorized,
	)

	// comment lands on the blog
	var comment comments.Comment
	commentBytes := s.do(
		s.newRequest(ctx, commenterToken, "POST", fmt.Sprintf("/api/comments/%d", post.ID), map[string]any{
			"content": "great post",
		}),
		http.StatusCreated,
	)
	require.NoError(t, json.Unmarshal(commentBytes, &comment))
	require.NotZero(t, comment.ID)
	assert.Equal(t, commenter.ID, comment.AuthorID)

	// and the blog now references it
	var updatedPost blog.Blog
	postBytes = s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/blogs/%d", post.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(postBytes, &updatedPost))
	assert.Equal(t, []int64{int64(comment.ID)}, updatedPost.CommentIDs)

	// comments list publicly
	var listed []comments.Comment
	listedBytes := s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/blogs/%d/comments", post.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(listedBytes, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "great post", listed[0].Content)

	// edit own comment
	editedBytes := s.do(
		s.newRequest(ctx, commenterToken, "PATCH", fmt.Sprintf("/api/comments/%d", comment.ID), map[string]any{
			"content": "great post, really",
		}),
		http.StatusOK,
	)
	var edited comments.Comment
	require.NoError(t, json.Unmarshal(editedBytes, &edited))
	assert.Equal(t, "great post, really", edited.Content)

	// the blog author cannot edit or delete a foreign comment, and the
	// response does not reveal the comment exists
	s.do(
		s.newRequest(ctx, authorToken, "PATCH", fmt.Sprintf("/api/comments/%d", comment.ID), map[string]any{
			"content": "moderated",
		}),
		http.StatusNotFound,
	)
	s.do(
		s.newRequest(ctx, authorToken, "DELETE", fmt.Sprintf("/api/comments/%d", comment.ID), nil),
		http.StatusNotFound,
	)

	// commenter takes their only comment back; the blog lets go of the id
	s.do(
		s.newRequest(ctx, commenterToken, "DELETE", fmt.Sprintf("/api/comments/%d", comment.ID), nil),
		http.StatusOK,
	)

	postBytes = s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/blogs/%d", post.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(postBytes, &updatedPost))
	assert.Empty(t, updatedPost.CommentIDs)

	listedBytes = s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/blogs/%d/comments", post.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(listedBytes, &listed))
	assert.Empty(t, listed)
}

func (s *IntegrationTestSuite) TestCommentOnMissingBlog() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, token := registerAndLogin(ctx, t, "voidcommenter", "commentpass1")

	s.do(
		s.newRequest(ctx, token, "POST", "/api/comments/25342523", map[string]any{
			"content": "into the void",
		}),
		http.StatusNotFound,
	)
}
