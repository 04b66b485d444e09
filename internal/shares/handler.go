package shares

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

type sharesRepo interface {
	Add(ctx context.Context, share *Share) error
	Delete(ctx context.Context, id, callerID int) error
	ListForBlog(ctx context.Context, blogID int) ([]*Share, error)
	ListForUser(ctx context.Context, userID int) ([]*Share, error)
}

type Handler struct {
	repo    sharesRepo
	metrics *metrics.Manager
}

func NewHandler(repo sharesRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/shares/{blogId:[0-9]+}", handler.handleNew).Methods("POST", "OPTIONS").Name("new-share")
	router.HandleFunc("/api/shares/{id:[0-9]+}", handler.handleDelete).Methods("DELETE").Name("delete-share")
	router.HandleFunc("/api/shares/blog/{id:[0-9]+}", handler.handleListForBlog).Methods("GET").Name("blog-shares")
	router.HandleFunc("/api/shares/user/{id:[0-9]+}", handler.handleListForUser).Methods("GET").Name("user-shares")
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

	share := &Share{
		BlogID: blogID,
		UserID: callerID,
	}

	if err := handler.repo.Add(r.Context(), share); err != nil {
		handler.writeShareError(w, "add share", blogID, err)
		return
	}

	handler.metrics.CounterShares.Inc()
	log.Tracef("blog %d shared by user %d", blogID, callerID)

	shareJson, err := json.Marshal(share)
	if err != nil {
		log.Errorf("marshal new share: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, shareJson, http.StatusCreated)
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
		handler.writeShareError(w, "delete share", id, err)
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

	blogShares, err := handler.repo.ListForBlog(r.Context(), blogID)
	if err != nil {
		handler.writeShareError(w, "list blog shares", blogID, err)
		return
	}

	handler.writeShares(w, blogShares)
}

func (handler *Handler) handleListForUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.LoggedUserID(r.Context()); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	userID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	userShares, err := handler.repo.ListForUser(r.Context(), userID)
	if err != nil {
		handler.writeShareError(w, "list user shares", userID, err)
		return
	}

	handler.writeShares(w, userShares)
}

func (handler *Handler) writeShares(w http.ResponseWriter, shares []*Share) {
	if shares == nil {
		shares = []*Share{}
	}

	sharesJson, err := json.Marshal(shares)
	if err != nil {
		log.Errorf("marshal shares: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sharesJson)
}

func (handler *Handler) writeShareError(w http.ResponseWriter, op string, id int, err error) {
	switch {
	case errors.Is(err, ErrShareNotFound):
		http.Error(w, "share not found", http.StatusNotFound)
	case errors.Is(err, blog.ErrBlogNotFound):
		http.Error(w, "blog not found", http.StatusNotFound)
	default:
		log.Errorf("%s %d: %s", op, id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
