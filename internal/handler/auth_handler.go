package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhlee-dev/sis-portal/internal/middleware"
	"github.com/jhlee-dev/sis-portal/internal/models"
	"github.com/jhlee-dev/sis-portal/internal/service"
	"github.com/jhlee-dev/sis-portal/internal/session"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

type authService interface {
	AuthenticateAdmin(ctx context.Context, req service.AdminLoginRequest) (*models.Account, error)
	AuthenticateStudent(ctx context.Context, req service.StudentLoginRequest) (*models.StudentProfile, error)
	RecordLogout(ctx context.Context, accountID *int64, ip, userAgent string)
}

type sessionManager interface {
	Create(ctx context.Context, identity session.Identity) (string, error)
	Destroy(ctx context.Context, token string) error
}

// CookieConfig describes the session cookie the handlers set and clear.
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

// AuthHandler serves the login page and the login/logout flows.
type AuthHandler struct {
	auth     authService
	sessions sessionManager
	cookie   CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth authService, sessions sessionManager, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie}
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login authenticates the submitted form. The role field selects between the
// credentialed admin mode and the passwordless student mode; a failure
// re-renders the login page with status 401 and no cookie is set.
func (h *AuthHandler) Login(c *gin.Context) {
	role := c.DefaultPostForm("role", string(models.RoleStudent))

	var (
		identity session.Identity
		target   string
		err      error
	)

	switch models.Role(role) {
	case models.RoleAdmin:
		var account *models.Account
		account, err = h.auth.AuthenticateAdmin(c.Request.Context(), service.AdminLoginRequest{
			Username:  c.PostForm("username"),
			Password:  c.PostForm("password"),
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
		if err == nil {
			identity = session.Identity{Role: models.RoleAdmin, AccountID: account.ID}
			target = "/admin"
		}
	default:
		var profile *models.StudentProfile
		profile, err = h.auth.AuthenticateStudent(c.Request.Context(), service.StudentLoginRequest{
			Name:      c.PostForm("name"),
			StudentNo: c.PostForm("student_no"),
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
		if err == nil {
			identity = session.Identity{Role: models.RoleStudent, ProfileID: profile.ID}
			target = "/student"
		}
	}

	if err != nil {
		appErr := appErrors.FromError(err)
		status := appErr.Status
		if appErr.Code == appErrors.ErrInternal.Code {
			// internal detail stays in the logs; the user sees a generic retry hint
			c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "잠시 후 다시 시도해 주세요."})
			return
		}
		c.HTML(status, "login.html", gin.H{"error": appErr.Message})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), identity)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "잠시 후 다시 시도해 주세요."})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, target)
}

// Logout destroys the current session, clears the cookie and returns to the
// login page. A request without a session still redirects cleanly.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		_ = h.sessions.Destroy(c.Request.Context(), token)
	}

	if identity := middleware.IdentityFromContext(c); identity != nil && identity.Role == models.RoleAdmin {
		accountID := identity.AccountID
		h.auth.RecordLogout(c.Request.Context(), &accountID, c.ClientIP(), c.GetHeader("User-Agent"))
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, "/")
}
