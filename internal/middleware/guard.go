package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

// RequireRole gates a route group on the caller's role. An unauthenticated
// request is redirected to the login page; an authenticated request with the
// wrong role receives the 403 page. The distinction is an explicit check, not
// an exception path.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)
		if identity == nil {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		if identity.Role != role {
			c.HTML(http.StatusForbidden, "forbidden.html", gin.H{
				"message": appErrors.ErrForbidden.Message,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
