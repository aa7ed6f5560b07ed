package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jhlee-dev/sis-portal/internal/middleware"
	"github.com/jhlee-dev/sis-portal/internal/models"
	"github.com/jhlee-dev/sis-portal/internal/service"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

type adminListingService interface {
	ListStudents(ctx context.Context, filter models.ProfileFilter) ([]models.StudentProfile, *models.Pagination, error)
	RecentCatalogs(ctx context.Context) (*service.CatalogOverview, error)
	Catalog(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error)
}

type adminRegistrationService interface {
	UpsertProfile(ctx context.Context, actorID int64, req service.UpsertProfileRequest) (*models.StudentProfile, bool, error)
	CreateCatalogEntry(ctx context.Context, actorID int64, req service.CreateCatalogEntryRequest) (*models.CatalogEntry, error)
}

type rosterExporter interface {
	ExportStudents(ctx context.Context, keyword, format string) (*service.RosterExport, error)
}

// AdminHandler serves the admin registration and view pages.
type AdminHandler struct {
	listing      adminListingService
	registration adminRegistrationService
	exporter     rosterExporter
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(listing adminListingService, registration adminRegistrationService, exporter rosterExporter) *AdminHandler {
	return &AdminHandler{listing: listing, registration: registration, exporter: exporter}
}

// Dashboard renders the registration page with the newest catalog entries
// and an optional status message carried in the msg query parameter.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	overview, err := h.listing.RecentCatalogs(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_register.html", gin.H{"msg": "목록을 불러오지 못했습니다."})
		return
	}

	c.HTML(http.StatusOK, "admin_register.html", gin.H{
		"msg":              c.Query("msg"),
		"curriculum":       overview.Curriculum,
		"certifications":   overview.Certifications,
		"extracurriculars": overview.Extracurriculars,
	})
}

// ViewRoot redirects the bare view path to the student listing.
func (h *AdminHandler) ViewRoot(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/admin/view/students")
}

// ViewStudents renders the paginated, keyword-filtered roster.
func (h *AdminHandler) ViewStudents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	kw := c.Query("kw")

	rows, pagination, err := h.listing.ListStudents(c.Request.Context(), models.ProfileFilter{
		Keyword:  kw,
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_view_students.html", gin.H{"rows": nil, "total": 0, "page": 1, "size": 20, "kw": kw})
		return
	}

	c.HTML(http.StatusOK, "admin_view_students.html", gin.H{
		"rows":  rows,
		"total": pagination.TotalCount,
		"page":  pagination.Page,
		"size":  pagination.PageSize,
		"kw":    kw,
	})
}

// ExportStudents streams the roster as a CSV or PDF download.
func (h *AdminHandler) ExportStudents(c *gin.Context) {
	doc, err := h.exporter.ExportStudents(c.Request.Context(), c.Query("kw"), c.DefaultQuery("format", "csv"))
	if err != nil {
		appErr := appErrors.FromError(err)
		c.String(appErr.Status, appErr.Message)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// ViewCatalog renders the full listing of one catalog.
func (h *AdminHandler) ViewCatalog(kind models.CatalogKind, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.listing.Catalog(c.Request.Context(), kind)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin_view_catalog.html", gin.H{"title": title, "items": nil})
			return
		}
		c.HTML(http.StatusOK, "admin_view_catalog.html", gin.H{"title": title, "items": items})
	}
}

// CreateStudent upserts a profile from the registration form and redirects
// back to the dashboard with a confirmation message.
func (h *AdminHandler) CreateStudent(c *gin.Context) {
	actor := middleware.IdentityFromContext(c)

	_, _, err := h.registration.UpsertProfile(c.Request.Context(), actor.AccountID, service.UpsertProfileRequest{
		Name:                       c.PostForm("name"),
		StudentNo:                  c.PostForm("student_no"),
		College:                    c.PostForm("college"),
		Department:                 c.PostForm("department"),
		CertificationTrack:         c.PostForm("certification_track"),
		ExtracurricularPrograms:    c.PostForm("extracurricular_programs"),
		ConsortiumCurriculumStatus: c.PostForm("consortium_status"),
	})
	h.redirectWithMessage(c, err, "학생 등록/수정 완료")
}

// CreateCurriculum appends a curriculum track.
func (h *AdminHandler) CreateCurriculum(c *gin.Context) {
	h.createCatalogEntry(c, models.CatalogCurriculum, "교과인증과정 등록완료")
}

// CreateCertification appends a certification.
func (h *AdminHandler) CreateCertification(c *gin.Context) {
	h.createCatalogEntry(c, models.CatalogCertification, "인증제 등록완료")
}

// CreateExtracurricular appends an extracurricular program.
func (h *AdminHandler) CreateExtracurricular(c *gin.Context) {
	h.createCatalogEntry(c, models.CatalogExtracurricular, "비교과 프로그램 등록완료")
}

func (h *AdminHandler) createCatalogEntry(c *gin.Context, kind models.CatalogKind, successMsg string) {
	actor := middleware.IdentityFromContext(c)

	_, err := h.registration.CreateCatalogEntry(c.Request.Context(), actor.AccountID, service.CreateCatalogEntryRequest{
		Kind:        kind,
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	})
	h.redirectWithMessage(c, err, successMsg)
}

// redirectWithMessage sends the browser back to the dashboard carrying either
// the success confirmation or a validation message. Nothing was written when
// validation fails, so a redirect is safe in both cases.
func (h *AdminHandler) redirectWithMessage(c *gin.Context, err error, successMsg string) {
	msg := successMsg
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			msg = appErr.Message
		} else {
			msg = "처리 중 오류가 발생했습니다."
		}
	}
	c.Redirect(http.StatusSeeOther, "/admin?msg="+url.QueryEscape(msg))
}
