package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	app "tomato-health/internal/application"
	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
	"tomato-health/internal/infrastructure/auth"
)

const (
	ctxUser   = "user"
	ctxClaims = "claims"
)

type registerRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type userResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	TelegramID int64     `json:"telegram_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		TelegramID: u.TelegramID,
		CreatedAt:  u.CreatedAt,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Register(c.Request.Context(), app.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	log.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Registration successful! Please log in.",
		"user":    newUserResponse(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName, token.Access, int(time.Until(token.ExpiresAt).Seconds()), "/", "", h.auth.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Login successful!",
		"token":   token,
		"user":    newUserResponse(user),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	claims := c.MustGet(ctxClaims).(*auth.Claims)
	if err := h.denylist.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt); err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName, "", -1, "/", "", h.auth.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "You have been logged out."})
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "user": newUserResponse(currentUser(c))})
}

// RequireAuth пропускает запрос только с действующим токеном
// из заголовка Authorization или из cookie.
func (h *Handler) RequireAuth(c *gin.Context) {
	raw := bearerToken(c.GetHeader("Authorization"))
	if raw == "" {
		raw, _ = c.Cookie(h.auth.CookieName)
	}
	if raw == "" {
		fail(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	claims, err := h.tokens.Verify(raw)
	if err != nil {
		fail(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	ctx := c.Request.Context()
	revoked, err := h.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if revoked {
		fail(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	user, err := h.users.Get(ctx, claims.UserID)
	if errors.Is(err, port.ErrNotFound) {
		fail(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Set(ctxUser, user)
	c.Set(ctxClaims, claims)
	c.Next()
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func currentUser(c *gin.Context) *entity.User {
	return c.MustGet(ctxUser).(*entity.User)
}
