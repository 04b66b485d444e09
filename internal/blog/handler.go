package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/inkwellhq/inkwell/internal/cache"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/telemetry/metrics"
	"github.com/inkwellhq/inkwell/pkg"
)

type PostsResponse struct {
	Posts []*Blog `json:"posts"`
	Total int     `json:"total"`
}

type newBlogRequest struct {
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	Category  Category  `json:"category"`
	Sections  []Section `json:"sections"`
}

type likeBlogResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type blogRepo interface {
	Add(ctx context.Context, blog *Blog) error
	Update(ctx context.Context, id, callerID int, params UpdateBlogParams) (*Blog, error)
	Delete(ctx context.Context, id, callerID int) error
	Like(ctx context.Context, id, userID int) (bool, error)
	All(ctx context.Context) ([]*Blog, error)
	Count(ctx context.Context) (int, error)
	GetPage(ctx context.Context, page, size int) ([]*Blog, error)
	Get(ctx context.Context, id int) (*Blog, error)
}

type Handler struct {
	repo          blogRepo
	renderedCache cache.Cache
	metrics       *metrics.Manager
}

func NewHandler(
	repo blogRepo,
	renderedCache cache.Cache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:          repo,
		renderedCache: renderedCache,
		metrics:       metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/blogs", handler.handleNew).Methods("POST", "OPTIONS").Name("new-blog")
	router.HandleFunc("/api/blogs", handler.handleAll).Methods("GET").Name("all-blogs")
	router.HandleFunc("/api/blogs/page/{page}/size/{size}", handler.handleGetPage).Methods("GET").Name("blogs-page")
	router.HandleFunc("/api/blogs/{id:[0-9]+}", handler.handleGet).Methods("GET").Name("get-blog")
	router.HandleFunc("/api/blogs/{id:[0-9]+}/rendered", handler.handleGetRendered).Methods("GET").Name("get-blog-rendered")
	router.HandleFunc("/api/blogs/{id:[0-9]+}", handler.handleUpdate).Methods("PATCH", "OPTIONS").Name("update-blog")
	router.HandleFunc("/api/blogs/{id:[0-9]+}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-blog")
	router.HandleFunc("/api/blogs/{id:[0-9]+}/like", handler.handleLike).Methods("POST", "OPTIONS").Name("like-blog")
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.LoggedUserID(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var newBlogReq newBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&newBlogReq); err != nil {
		log.Errorf("new blog, unmarshal json params: %s", err)
		http.Error(w, "add blog failed", http.StatusBadRequest)
		return
	}

	newBlog := &Blog{
		Title:     newBlogReq.Title,
		Thumbnail: newBlogReq.Thumbnail,
		Category:  newBlogReq.Category,
		Sections:  NormalizeSections(newBlogReq.Sections),
		AuthorID:  callerID,
	}

	if err := handler.repo.Add(r.Context(), newBlog); err != nil {
		if errors.Is(err, ErrBlogInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("add new blog failed: %s", err)
		http.Error(w, "add new blog failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterBlogPosts.Inc()
	log.Tracef("new blog %d: [%s] added", newBlog.ID, newBlog.Title)

	blogJson, err := json.Marshal(newBlog)
	if err != nil {
		log.Errorf("marshal new blog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, blogJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.LoggedUserID(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := blogIDFromRequest(r)
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	var params UpdateBlogParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("update blog, unmarshal json params: %s", err)
		http.Error(w, "update blog failed", http.StatusBadRequest)
		return
	}

	if params.Sections != nil {
		normalized := NormalizeSections(*params.Sections)
		params.Sections = &normalized
	}

	updatedBlog, err := handler.repo.Update(r.Context(), id, callerID, params)
	if err != nil {
		handler.writeBlogError(w, "update blog", id, err)
		return
	}

	handler.renderedCache.Del(renderedCacheKey(id))

	updatedJson, err := json.Marshal(updatedBlog)
	if err != nil {
		log.Errorf("marshal updated blog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.LoggedUserID(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := blogIDFromRequest(r)
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id, callerID); err != nil {
		handler.writeBlogError(w, "delete blog", id, err)
		return
	}

	handler.renderedCache.Del(renderedCacheKey(id))

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func (handler *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.LoggedUserID(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := blogIDFromRequest(r)
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	liked, err := handler.repo.Like(r.Context(), id, callerID)
	if err != nil {
		handler.writeBlogError(w, "like blog", id, err)
		return
	}

	likedBlog, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		handler.writeBlogError(w, "like blog, get", id, err)
		return
	}

	resp, err := json.Marshal(likeBlogResponse{
		Liked: liked,
		Likes: len(likedBlog.Likes),
	})
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := blogIDFromRequest(r)
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	foundBlog, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		handler.writeBlogError(w, "get blog", id, err)
		return
	}

	blogJson, err := json.Marshal(foundBlog)
	if err != nil {
		log.Errorf("marshal blog %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, blogJson)
}

func (handler *Handler) handleGetRendered(w http.ResponseWriter, r *http.Request) {
	id, err := blogIDFromRequest(r)
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	if cached, ok := handler.renderedCache.Get(renderedCacheKey(id)); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	foundBlog, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		handler.writeBlogError(w, "get rendered blog", id, err)
		return
	}

	renderedJson, err := json.Marshal(RenderBlog(foundBlog))
	if err != nil {
		log.Errorf("marshal rendered blog %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := handler.renderedCache.Set(renderedCacheKey(id), renderedJson, 0); err != nil {
		log.Warnf("cache rendered blog %d: %s", id, err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, renderedJson)
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	allBlogs, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all blogs error: %s", err)
		http.Error(w, "get all blogs error", http.StatusInternalServerError)
		return
	}

	if allBlogs == nil {
		allBlogs = []*Blog{}
	}

	allBlogsJson, err := json.Marshal(allBlogs)
	if err != nil {
		log.Errorf("marshal all blogs error: %s", err)
		http.Error(w, "marshal all blogs error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, allBlogsJson)
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	pageStr := vars["page"]
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		log.Errorf("handle get blogs page, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	sizeStr := vars["size"]
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		log.Errorf("handle get blogs page, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	log.Tracef("get blogs - page %s size %s", pageStr, sizeStr)

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	blogPosts, err := handler.repo.GetPage(r.Context(), page, size)
	if err != nil {
		log.Errorf("get blogs error: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}

	totalBlogsCount, err := handler.repo.Count(r.Context())
	if err != nil {
		log.Errorf("get blogs error: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}

	if blogPosts == nil {
		blogPosts = []*Blog{}
	}

	postsResp := PostsResponse{
		Posts: blogPosts,
		Total: totalBlogsCount,
	}

	blogPostsRespJson, err := json.Marshal(postsResp)
	if err != nil {
		log.Errorf("marshal blogs error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, blogPostsRespJson, http.StatusOK)
}

func (handler *Handler) writeBlogError(w http.ResponseWriter, op string, id int, err error) {
	switch {
	case errors.Is(err, ErrBlogNotFound):
		http.Error(w, "blog not found", http.StatusNotFound)
	case errors.Is(err, ErrNotBlogAuthor):
		http.Error(w, "not the blog author", http.StatusForbidden)
	case errors.Is(err, ErrBlogInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s %d: %s", op, id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func blogIDFromRequest(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("id empty")
	}
	return strconv.Atoi(idStr)
}

func renderedCacheKey(id int) []byte {
	return []byte(fmt.Sprintf("blog-rendered-%d", id))
}
