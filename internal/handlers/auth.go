package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/models"
	"github.com/otakulog/otakulog/internal/store"
	"github.com/otakulog/otakulog/internal/types"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func authError(ctx *gin.Context, status int, message, field string) {
	ctx.JSON(status, types.AuthError{Message: message, Field: field})
}

// validate checks the registration input in a fixed order and returns the
// first failure.
func (r *RegisterRequest) validate() *types.AuthError {
	if r.Username == "" || r.Email == "" || r.Password == "" || r.ConfirmPassword == "" {
		return &types.AuthError{Message: "All fields are required"}
	}

	if r.Password != r.ConfirmPassword {
		return &types.AuthError{Message: "Passwords do not match", Field: "confirmPassword"}
	}

	if utf8.RuneCountInString(r.Password) < 6 {
		return &types.AuthError{Message: "Password must be at least 6 characters long", Field: "password"}
	}

	// bcrypt only looks at the first 72 bytes.
	if len(r.Password) > auth.MaxPasswordBytes {
		return &types.AuthError{Message: "Password must be at most 72 bytes long", Field: "password"}
	}

	if utf8.RuneCountInString(r.Username) < 3 {
		return &types.AuthError{Message: "Username must be at least 3 characters long", Field: "username"}
	}

	if !emailPattern.MatchString(r.Email) {
		return &types.AuthError{Message: "Please enter a valid email address", Field: "email"}
	}

	return nil
}

func (h *Handler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		authError(ctx, http.StatusBadRequest, "Invalid request", "")
		return
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	if verr := body.validate(); verr != nil {
		ctx.JSON(http.StatusBadRequest, verr)
		return
	}

	_, err := h.users.FindByEmail(ctx.Request.Context(), body.Email)

	if err == nil {
		authError(ctx, http.StatusConflict, "Email already registered", "email")
		return
	}

	if !errors.Is(err, store.ErrNotFound) {
		h.internalAuthError(ctx, "Failed to check existing email", err)
		return
	}

	_, err = h.users.FindByUsername(ctx.Request.Context(), body.Username)

	if err == nil {
		authError(ctx, http.StatusConflict, "Username already taken", "username")
		return
	}

	if !errors.Is(err, store.ErrNotFound) {
		h.internalAuthError(ctx, "Failed to check existing username", err)
		return
	}

	user, err := h.users.Create(ctx.Request.Context(), body.Username, body.Email, body.Password)

	if errors.Is(err, store.ErrDuplicate) {
		// Lost a race with a concurrent registration.
		authError(ctx, http.StatusConflict, "Email or username already registered", "")
		return
	}

	if err != nil {
		h.internalAuthError(ctx, "Failed to create user", err)
		return
	}

	h.startSession(ctx, user)
}

func (h *Handler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		authError(ctx, http.StatusBadRequest, "Invalid request", "")
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	if email == "" || body.Password == "" {
		authError(ctx, http.StatusBadRequest, "Email and password are required", "")
		return
	}

	user, err := h.users.FindByEmail(ctx.Request.Context(), email)

	if errors.Is(err, store.ErrNotFound) {
		authError(ctx, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}

	if err != nil {
		h.internalAuthError(ctx, "Failed to fetch user", err)
		return
	}

	if !auth.ComparePassword(body.Password, user.PasswordHash) {
		authError(ctx, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}

	h.startSession(ctx, user)
}

func (h *Handler) Logout(ctx *gin.Context) {
	h.cookies.Clear(ctx.Writer)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) CurrentUser(ctx *gin.Context, identity auth.Identity) {
	user, err := h.users.FindByID(ctx.Request.Context(), identity.ID)

	if errors.Is(err, store.ErrNotFound) {
		authError(ctx, http.StatusNotFound, "User not found", "")
		return
	}

	if err != nil {
		h.internalAuthError(ctx, "Failed to fetch user", err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *Handler) startSession(ctx *gin.Context, user *models.User) {
	token, err := h.tokens.Issue(auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	if err != nil {
		h.internalAuthError(ctx, "Failed to generate JWT", err)
		return
	}

	h.cookies.Set(ctx.Writer, token)

	ctx.JSON(http.StatusOK, types.AuthResponse{
		User:  types.NewUserResponse(user),
		Token: token,
	})
}

func (h *Handler) internalAuthError(ctx *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	authError(ctx, http.StatusInternalServerError, "Internal server error", "")
}
