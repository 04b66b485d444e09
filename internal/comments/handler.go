package comments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/inkwellhq/inkwell/internal/blog"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/telemetry/metrics"
	"github.com/inkwellhq/inkwell/pkg"
)

type newCommentRequest struct {
	Content string `json:"content"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

type commentsRepo interface {
	Add(ctx context.Context, comment *Comment) error
	Update(ctx context.Context, id, callerID int, content string) (*Comment, error)
	Delete(ctx context.Context, id, callerID int) error
	ListForBlog(ctx context.Context, blogID int) ([]*Comment, error)
}

type Handler struct {
	repo    commentsRepo
	metrics *metrics.Manager
}

func NewHandler(repo commentsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/comments/{blogId:[0-9]+}", handler.handleNew).Methods("POST", "OPTIONS").Name("new-comment")
	router.HandleFunc("/api/comments/{id:[0-9]+}", handler.handleUpdate).Methods("PATCH").Name("update-comment")
	router.HandleFunc("/api/comments/{id:[0-9]+}", handler.handleDelete).Methods("DELETE").Name("delete-comment")
	router.HandleFunc("/api/blogs/{id:[0-9]+}/comments", handler.handleListForBlog).Methods("GET").Name("blog-comments")
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.LoggedUserID(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	blogID, err := strconv.Atoi(mux.Vars(r)["blogId"])
	if err != nil {
		http.Error(w, "error, blog id invalid", http.StatusBadRequest)
		return
	}

	var newCommentReq newCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&newCommentReq); err != nil {
		log.Errorf("new comment, unmarshal json params: %s", err)
		http.Error(w, "add comment failed", http.StatusBadRequest)
		return
	}

	comment := &Comment{
		BlogID:   blogID,
		AuthorID: callerID,
		Content:  newCommentReq.Content,
	}

	if err := handler.repo.Add(r.Context(), comment); err != nil {
		handler.writeCommentError(w, "add comment", blogID, err)
		return
	}

	handler.metrics.CounterComments.Inc()
	log.Tracef("new comment %d on blog %d", comment.ID, blogID)

	commentJson, err := json.Marshal(comment)
	if err != nil {
		log.Errorf("marshal new comment: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, commentJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.LoggedUserID(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	var updateReq updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update comment, unmarshal json params: %s", err)
		http.Error(w, "update comment failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.Update(r.Context(), id, callerID, updateReq.Content)
	if err != nil {
		handler.writeCommentError(w, "update comment", id, err)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated comment: %s", err)
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

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id, callerID); err != nil {
		handler.writeCommentError(w, "delete comment", id, err)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func (handler *Handler) handleListForBlog(w http.ResponseWriter, r *http.Request) {
	blogID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	blogComments, err := handler.repo.ListForBlog(r.Context(), blogID)
	if err != nil {
		handler.writeCommentError(w, "list comments", blogID, err)
		return
	}

	if blogComments == nil {
		blogComments = []*Comment{}
	}

	commentsJson, err := json.Marshal(blogComments)
	if err != nil {
		log.Errorf("marshal comments of blog %d: %s", blogID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, commentsJson)
}

func (handler *Handler) writeCommentError(w http.ResponseWriter, op string, id int, err error) {
	switch {
	case errors.Is(err, ErrCommentNotFound):
		http.Error(w, "comment not found", http.StatusNotFound)
	case errors.Is(err, blog.ErrBlogNotFound):
		http.Error(w, "blog not found", http.StatusNotFound)
	case errors.Is(err, ErrCommentInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s %d: %s", op, id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
