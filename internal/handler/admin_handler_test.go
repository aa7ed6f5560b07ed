package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhlee-dev/sis-portal/internal/middleware"
	"github.com/jhlee-dev/sis-portal/internal/models"
	"github.com/jhlee-dev/sis-portal/internal/service"
	"github.com/jhlee-dev/sis-portal/internal/session"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

type fakeListingService struct {
	profiles   []models.StudentProfile
	pagination models.Pagination
	lastFilter models.ProfileFilter
	overview   service.CatalogOverview
	catalogs   map[models.CatalogKind][]models.CatalogEntry
}

func (f *fakeListingService) ListStudents(_ context.Context, filter models.ProfileFilter) ([]models.StudentProfile, *models.Pagination, error) {
	f.lastFilter = filter
	pagination := f.pagination
	return f.profiles, &pagination, nil
}

func (f *fakeListingService) RecentCatalogs(_ context.Context) (*service.CatalogOverview, error) {
	return &f.overview, nil
}

func (f *fakeListingService) Catalog(_ context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error) {
	return f.catalogs[kind], nil
}

type fakeRegistrationService struct {
	upserts        []service.UpsertProfileRequest
	catalogEntries []service.CreateCatalogEntryRequest
	lastActorID    int64
	err            error
}

func (f *fakeRegistrationService) UpsertProfile(_ context.Context, actorID int64, req service.UpsertProfileRequest) (*models.StudentProfile, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	f.lastActorID = actorID
	f.upserts = append(f.upserts, req)
	return &models.StudentProfile{ID: 1, Name: req.Name, StudentNo: req.StudentNo}, true, nil
}

func (f *fakeRegistrationService) CreateCatalogEntry(_ context.Context, actorID int64, req service.CreateCatalogEntryRequest) (*models.CatalogEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastActorID = actorID
	f.catalogEntries = append(f.catalogEntries, req)
	return &models.CatalogEntry{ID: 1, Name: req.Name}, nil
}

type fakeExporter struct {
	result *service.RosterExport
	err    error
}

func (f *fakeExporter) ExportStudents(_ context.Context, keyword, format string) (*service.RosterExport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newAdminRouter(listing *fakeListingService, registration *fakeRegistrationService, exporter *fakeExporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextIdentityKey, &session.Identity{SessionID: "a1", Role: models.RoleAdmin, AccountID: 3})
	})
	h := NewAdminHandler(listing, registration, exporter)
	r.GET("/admin", h.Dashboard)
	r.GET("/admin/view", h.ViewRoot)
	r.GET("/admin/view/students", h.ViewStudents)
	r.GET("/admin/view/students/export", h.ExportStudents)
	r.GET("/admin/view/certifications", h.ViewCatalog(models.CatalogCertification, "인증제"))
	r.POST("/admin/students", h.CreateStudent)
	r.POST("/admin/curriculum", h.CreateCurriculum)
	return r
}

func TestAdminDashboardShowsRecentAndMessage(t *testing.T) {
	listing := &fakeListingService{overview: service.CatalogOverview{
		Curriculum:     []models.CatalogEntry{{ID: 1, Name: "AI융합전공"}},
		Certifications: []models.CatalogEntry{{ID: 2, Name: "SQLD"}},
	}}
	r := newAdminRouter(listing, &fakeRegistrationService{}, &fakeExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?msg="+url.QueryEscape("학생 등록/수정 완료"), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "학생 등록/수정 완료")
	assert.Contains(t, body, "AI융합전공")
	assert.Contains(t, body, "SQLD")
}

func TestAdminViewRootRedirects(t *testing.T) {
	r := newAdminRouter(&fakeListingService{}, &fakeRegistrationService{}, &fakeExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/view", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/view/students", w.Header().Get("Location"))
}

func TestAdminViewStudentsPassesQueryParams(t *testing.T) {
	listing := &fakeListingService{
		profiles:   []models.StudentProfile{{ID: 2, Name: "김철수", StudentNo: "20250002"}},
		pagination: models.Pagination{Page: 2, PageSize: 10, TotalCount: 11},
	}
	r := newAdminRouter(listing, &fakeRegistrationService{}, &fakeExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/view/students?kw=%EA%B9%80&page=2&size=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ProfileFilter{Keyword: "김", Page: 2, PageSize: 10}, listing.lastFilter)
	assert.Contains(t, w.Body.String(), "김철수")
}

func TestAdminExportStudents(t *testing.T) {
	exporter := &fakeExporter{result: &service.RosterExport{
		Content:     []byte("student_no,name\n"),
		Filename:    "students.csv",
		ContentType: "text/csv; charset=utf-8",
	}}
	r := newAdminRouter(&fakeListingService{}, &fakeRegistrationService{}, exporter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/view/students/export?format=csv", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "students.csv")
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "student_no,name\n", w.Body.String())
}

func TestAdminExportStudentsBadFormat(t *testing.T) {
	exporter := &fakeExporter{err: appErrors.Clone(appErrors.ErrValidation, `unsupported export format "xlsx"`)}
	r := newAdminRouter(&fakeListingService{}, &fakeRegistrationService{}, exporter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/view/students/export?format=xlsx", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminViewCatalog(t *testing.T) {
	listing := &fakeListingService{catalogs: map[models.CatalogKind][]models.CatalogEntry{
		models.CatalogCertification: {{ID: 2, Name: "정보처리기사"}, {ID: 1, Name: "SQLD"}},
	}}
	r := newAdminRouter(listing, &fakeRegistrationService{}, &fakeExporter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/view/certifications", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "정보처리기사")
	assert.Contains(t, w.Body.String(), "인증제")
}

func TestAdminCreateStudent(t *testing.T) {
	registration := &fakeRegistrationService{}
	r := newAdminRouter(&fakeListingService{}, registration, &fakeExporter{})

	w := postForm(r, "/admin/students", url.Values{
		"name":                     {"홍길동"},
		"student_no":               {"20250001"},
		"college":                  {"공과대학"},
		"department":               {"컴퓨터공학과"},
		"certification_track":      {"AI트랙"},
		"extracurricular_programs": {"해커톤"},
		"consortium_status":        {"이수중"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin?msg="+url.QueryEscape("학생 등록/수정 완료"), w.Header().Get("Location"))

	require.Len(t, registration.upserts, 1)
	assert.Equal(t, service.UpsertProfileRequest{
		Name:                       "홍길동",
		StudentNo:                  "20250001",
		College:                    "공과대학",
		Department:                 "컴퓨터공학과",
		CertificationTrack:         "AI트랙",
		ExtracurricularPrograms:    "해커톤",
		ConsortiumCurriculumStatus: "이수중",
	}, registration.upserts[0])
	assert.Equal(t, int64(3), registration.lastActorID)
}

func TestAdminCreateStudentValidationMessage(t *testing.T) {
	registration := &fakeRegistrationService{err: appErrors.Clone(appErrors.ErrValidation, "이름과 학번은 필수 항목입니다.")}
	r := newAdminRouter(&fakeListingService{}, registration, &fakeExporter{})

	w := postForm(r, "/admin/students", url.Values{"name": {"홍길동"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin?msg="+url.QueryEscape("이름과 학번은 필수 항목입니다."), w.Header().Get("Location"))
}

func TestAdminCreateCurriculum(t *testing.T) {
	registration := &fakeRegistrationService{}
	r := newAdminRouter(&fakeListingService{}, registration, &fakeExporter{})

	w := postForm(r, "/admin/curriculum", url.Values{"name": {"AI융합전공"}, "description": {"심화 과정"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin?msg="+url.QueryEscape("교과인증과정 등록완료"), w.Header().Get("Location"))

	require.Len(t, registration.catalogEntries, 1)
	assert.Equal(t, models.CatalogCurriculum, registration.catalogEntries[0].Kind)
	assert.Equal(t, "AI융합전공", registration.catalogEntries[0].Name)
}
