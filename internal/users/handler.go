package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/inkwellhq/inkwell/internal/auth"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/telemetry/metrics"
	"github.com/inkwellhq/inkwell/internal/telemetry/tracing"
	"github.com/inkwellhq/inkwell/pkg"
)

type usersRepo interface {
	Add(ctx context.Context, user *User) error
	Get(ctx context.Context, id int) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, id int, params UpdateUserParams) (*User, error)
}

type authService interface {
	Login(ctx context.Context, userID int, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) error
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handler struct {
	repo        usersRepo
	authService authService
	metrics     *metrics.Manager
}

func NewHandler(repo usersRepo, authService authService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:        repo,
		authService: authService,
		metrics:     metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, authRouter *mux.Router) {
	authRouter.HandleFunc("/register", handler.handleRegister).Methods("POST", "OPTIONS").Name("register")
	authRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("logout")
	router.HandleFunc("/api/users/{id:[0-9]+}", handler.handleGet).Methods("GET").Name("get-user")
	router.HandleFunc("/api/users/{id:[0-9]+}", handler.handleUpdate).Methods("PATCH", "OPTIONS").Name("update-user")
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.register")
	defer span.End()

	var registerReq registerRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		log.Errorf("register, unmarshal json params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if registerReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if registerReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(registerReq.Password)
	if err != nil {
		log.Errorf("register, hash password: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	user := &User{
		Username:     registerReq.Username,
		Email:        registerReq.Email,
		PasswordHash: passwordHash,
	}

	if err := handler.repo.Add(ctx, user); err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			http.Error(w, "username taken", http.StatusConflict)
		case errors.Is(err, ErrUserInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("register user [%s]: %s", registerReq.Username, err)
			http.Error(w, "register failed", http.StatusInternalServerError)
		}
		return
	}

	log.Tracef("new user %d [%s] registered", user.ID, user.Username)

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("marshal new user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.login")
	defer span.End()

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		loginReq = loginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByUsername(ctx, loginReq.Username)
	if err != nil {
		handler.metrics.CounterFailedLogins.Inc()
		log.Tracef("[username] failed login attempt for user: %s", loginReq.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	if !pkg.CheckPasswordHash(loginReq.Password, user.PasswordHash) {
		handler.metrics.CounterFailedLogins.Inc()
		log.Tracef("[password] failed login attempt for user: %s", loginReq.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Tracef("new login success for user %d", user.ID)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.logout")
	defer span.End()

	authToken := r.Header.Get(middleware.AuthTokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.authService.Logout(ctx, authToken); err != nil {
		if !errors.Is(err, auth.ErrNotLoggedIn) {
			log.Errorf("logout: %s", err)
		}
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		handler.writeUserError(w, "get user", id, err)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("marshal user %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, userJson)
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

	// users may only touch their own record
	if id != callerID {
		http.Error(w, "no can do", http.StatusForbidden)
		return
	}

	var params UpdateUserParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("update user, unmarshal json params: %s", err)
		http.Error(w, "update user failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.Update(r.Context(), id, params)
	if err != nil {
		handler.writeUserError(w, "update user", id, err)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) writeUserError(w http.ResponseWriter, op string, id int, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrUserInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s %d: %s", op, id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
