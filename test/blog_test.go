package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/inkwell/internal/blog"
	"github.com/inkwellhq/inkwell/internal/middleware"
)

func (s *IntegrationTestSuite) newRequest(
	ctx context.Context,
	token, method, path string,
	body any,
) *http.Request {
	t := s.T()
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewBuffer(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthTokenHeader, token)
	}

	return req
}

func (s *IntegrationTestSuite) do(req *http.Request, expectedStatus int) []byte {
	t := s.T()
	t.Helper()

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, string(respBytes))

	return respBytes
}

func newBlogPayload(title string) map[string]any {
	return map[string]any{
		"title":     title,
		"thumbnail": "https://imgs.example.org/thumb.png",
		"category":  "technology",
		"sections": []map[string]any{
			{"sectionType": "heading", "content": title + " heading"},
			{"sectionType": "paragraph", "content": "some body text"},
			{"sectionType": "list", "content": "a\nb\nc"},
		},
	}
}

func (s *IntegrationTestSuite) TestBlogLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	author, token := registerAndLogin(ctx, t, "blogauthor", "blogpass123")

	// anonymous visitors cannot publish
	anonReq := s.newRequest(ctx, "", "POST", "/api/blogs", newBlogPayload("nope"))
	s.do(anonReq, http.StatusUnauthorized)

	// publish
	created := blog.Blog{}
	createdBytes := s.do(
		s.newRequest(ctx, token, "POST", "/api/blogs", newBlogPayload("my first post")),
		http.StatusCreated,
	)
	require.NoError(t, json.Unmarshal(createdBytes, &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, author.ID, created.AuthorID)
	require.Len(t, created.Sections, 3)
	// submitted sections got their style defaults
	assert.Equal(t, 24, created.Sections[0].FontSize)
	assert.Equal(t, 700, created.Sections[0].FontWeight)
	assert.Equal(t, 16, created.Sections[1].FontSize)

	// visible to anonymous readers
	gotBytes := s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/blogs/%d", created.ID), nil),
		http.StatusOK,
	)
	var got blog.Blog
	require.NoError(t, json.Unmarshal(gotBytes, &got))
	assert.Equal(t, "my first post", got.Title)

	// rendered form
	renderedBytes := s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/blogs/%d/rendered", created.ID), nil),
		http.StatusOK,
	)
	var rendered []blog.RenderedSection
	require.NoError(t, json.Unmarshal(renderedBytes, &rendered))
	require.Len(t, rendered, 3)
	assert.Equal(t, "h2", rendered[0].Element)
	assert.Equal(t, "p", rendered[1].Element)
	assert.Equal(t, "ul", rendered[2].Element)
	assert.Equal(t, []string{"a", "b", "c"}, rendered[2].Items)

	// partial update by the author
	updatedBytes := s.do(
		s.newRequest(ctx, token, "PATCH", fmt.Sprintf("/api/blogs/%d", created.ID), map[string]any{
			"title": "my first post, revised",
		}),
		http.StatusOK,
	)
	var updated blog.Blog
	require.NoError(t, json.Unmarshal(updatedBytes, &updated))
	assert.Equal(t, "my first post, revised", updated.Title)
	assert.Len(t, updated.Sections, 3)

	// another user cannot touch it
	_, strangerToken := registerAndLogin(ctx, t, "blogstranger", "strangerpass1")
	s.do(
		s.newRequest(ctx, strangerToken, "PATCH", fmt.Sprintf("/api/blogs/%d", created.ID), map[string]any{
			"title": "hijacked",
		}),
		http.StatusForbidden,
	)
	s.do(
		s.newRequest(ctx, strangerToken, "DELETE", fmt.Sprintf("/api/blogs/%d", created.ID), nil),
		http.StatusForbidden,
	)

	// but can like it, twice toggles it off
	likeBytes := s.do(
		s.newRequest(ctx, strangerToken, "POST", fmt.Sprintf("/api/blogs/%d/like", created.ID), nil),
		http.StatusOK,
	)
	var likeResp struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}
	require.NoError(t, json.Unmarshal(likeBytes, &likeResp))
	assert.True(t, likeResp.Liked)
	assert.Equal(t, 1, likeResp.Likes)

	likeBytes = s.do(
		s.newRequest(ctx, strangerToken, "POST", fmt.Sprintf("/api/blogs/%d/like", created.ID), nil),
		http.StatusOK,
	)
	require.NoError(t, json.Unmarshal(likeBytes, &likeResp))
	assert.False(t, likeResp.Liked)
	assert.Equal(t, 0, likeResp.Likes)

	// author deletes; the blog vanishes from reads
	s.do(
		s.newRequest(ctx, token, "DELETE", fmt.Sprintf("/api/blogs/%d", created.ID), nil),
		http.StatusOK,
	)
	s.do(
		s.newRequest(ctx, "", "GET", fmt.Sprintf("/api/blogs/%d", created.ID), nil),
		http.StatusNotFound,
	)
}

func (s *IntegrationTestSuite) TestBlogPagination() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, token := registerAndLogin(ctx, t, "pageauthor", "pagepass123")

	for i := 1; i <= 5; i++ {
		s.do(
			s.newRequest(ctx, token, "POST", "/api/blogs", newBlogPayload(fmt.Sprintf("page post %d", i))),
			http.StatusCreated,
		)
	}

	pageBytes := s.do(
		s.newRequest(ctx, "", "GET", "/api/blogs/page/1/size/3", nil),
		http.StatusOK,
	)
	var postsResp blog.PostsResponse
	require.NoError(t, json.Unmarshal(pageBytes, &postsResp))
	assert.Len(t, postsResp.Posts, 3)
	assert.GreaterOrEqual(t, postsResp.Total, 5)

	// newest first
	for i := 1; i < len(postsResp.Posts); i++ {
		assert.GreaterOrEqual(t, postsResp.Posts[i-1].ID, postsResp.Posts[i].ID)
	}

	s.do(s.newRequest(ctx, "", "GET", "/api/blogs/page/0/size/3", nil), http.StatusBadRequest)
}

func (s *IntegrationTestSuite) TestBlogValidation() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, token := registerAndLogin(ctx, t, "validauthor", "validpass123")

	// a blog whose sections are all empty is refused
	payload := newBlogPayload("all empty")
	payload["sections"] = []map[string]any{
		{"sectionType": "paragraph", "content": "  "},
		{"sectionType": "paragraph", "content": ""},
	}
	s.do(s.newRequest(ctx, token, "POST", "/api/blogs", payload), http.StatusBadRequest)

	// unknown category
	payload = newBlogPayload("odd category")
	payload["category"] = "horoscope"
	s.do(s.newRequest(ctx, token, "POST", "/api/blogs", payload), http.StatusBadRequest)
}
