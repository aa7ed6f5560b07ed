package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jhlee-dev/sis-portal/internal/middleware"
	"github.com/jhlee-dev/sis-portal/internal/models"
	"github.com/jhlee-dev/sis-portal/internal/service"
	"github.com/jhlee-dev/sis-portal/pkg/logger"
	"github.com/jhlee-dev/sis-portal/pkg/middleware/requestid"
)

// RouterConfig bundles everything the HTTP surface needs.
type RouterConfig struct {
	Logger     *zap.Logger
	Metrics    *service.MetricsService
	Sessions   middleware.SessionResolver
	CookieName string
	Auth       *AuthHandler
	Student    *StudentHandler
	Admin      *AdminHandler
}

// NewRouter assembles the gin engine: middleware chain, embedded templates
// and every route of the application.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	if cfg.Logger != nil {
		r.Use(logger.GinMiddleware(cfg.Logger))
	}
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.Session(cfg.CookieName, cfg.Sessions))

	r.SetHTMLTemplate(Templates())

	r.GET("/", cfg.Auth.LoginPage)
	r.POST("/login", cfg.Auth.Login)
	r.GET("/logout", cfg.Auth.Logout)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	student := r.Group("/student", middleware.RequireRole(models.RoleStudent))
	student.GET("", cfg.Student.Dashboard)

	admin := r.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.GET("", cfg.Admin.Dashboard)
	admin.GET("/view", cfg.Admin.ViewRoot)
	admin.GET("/view/students", cfg.Admin.ViewStudents)
	admin.GET("/view/students/export", cfg.Admin.ExportStudents)
	admin.GET("/view/curriculum", cfg.Admin.ViewCatalog(models.CatalogCurriculum, "교과인증과정"))
	admin.GET("/view/certifications", cfg.Admin.ViewCatalog(models.CatalogCertification, "인증제"))
	admin.GET("/view/extracurriculars", cfg.Admin.ViewCatalog(models.CatalogExtracurricular, "비교과 프로그램"))
	admin.POST("/students", cfg.Admin.CreateStudent)
	admin.POST("/curriculum", cfg.Admin.CreateCurriculum)
	admin.POST("/certification", cfg.Admin.CreateCertification)
	admin.POST("/extracurricular", cfg.Admin.CreateExtracurricular)

	return r
}
