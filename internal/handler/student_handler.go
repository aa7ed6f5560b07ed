package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jhlee-dev/sis-portal/internal/middleware"
	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

type studentDirectory interface {
	ProfileByID(ctx context.Context, id int64) (*models.StudentProfile, error)
}

// StudentHandler renders the student's own dashboard.
type StudentHandler struct {
	profiles studentDirectory
	sessions sessionManager
	cookie   CookieConfig
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(profiles studentDirectory, sessions sessionManager, cookie CookieConfig) *StudentHandler {
	return &StudentHandler{profiles: profiles, sessions: sessions, cookie: cookie}
}

// Dashboard shows the logged-in student their own profile. A session whose
// profile no longer exists is cleared before redirecting to the login page.
func (h *StudentHandler) Dashboard(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	profile, err := h.profiles.ProfileByID(c.Request.Context(), identity.ProfileID)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound.Code) {
			if token, cookieErr := c.Cookie(h.cookie.Name); cookieErr == nil {
				_ = h.sessions.Destroy(c.Request.Context(), token)
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "잠시 후 다시 시도해 주세요."})
		return
	}

	var programs []string
	for _, p := range strings.Split(profile.ExtracurricularPrograms, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			programs = append(programs, trimmed)
		}
	}

	c.HTML(http.StatusOK, "student.html", gin.H{
		"profile":  profile,
		"programs": programs,
	})
}
