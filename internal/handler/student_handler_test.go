package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhlee-dev/sis-portal/internal/middleware"
	"github.com/jhlee-dev/sis-portal/internal/models"
	"github.com/jhlee-dev/sis-portal/internal/session"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

type fakeStudentDirectory struct {
	profiles map[int64]*models.StudentProfile
}

func (f *fakeStudentDirectory) ProfileByID(_ context.Context, id int64) (*models.StudentProfile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, appErrors.Wrap(sql.ErrNoRows, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "profile not found")
	}
	return profile, nil
}

func newStudentRouter(directory *fakeStudentDirectory, sessions *fakeSessionManager, identity *session.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(middleware.ContextIdentityKey, identity)
		}
	})
	h := NewStudentHandler(directory, sessions, testCookie())
	r.GET("/student", h.Dashboard)
	return r
}

func TestStudentDashboard(t *testing.T) {
	directory := &fakeStudentDirectory{profiles: map[int64]*models.StudentProfile{
		9: {
			ID: 9, Name: "홍길동", StudentNo: "20250001", College: "공과대학", Department: "컴퓨터공학과",
			ExtracurricularPrograms: "해커톤, 창업동아리",
		},
	}}
	identity := &session.Identity{SessionID: "s1", Role: models.RoleStudent, ProfileID: 9}
	r := newStudentRouter(directory, &fakeSessionManager{}, identity)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/student", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "홍길동")
	assert.Contains(t, body, "20250001")
	assert.Contains(t, body, "해커톤, 창업동아리")
}

func TestStudentDashboardStaleSession(t *testing.T) {
	sessions := &fakeSessionManager{}
	identity := &session.Identity{SessionID: "s1", Role: models.RoleStudent, ProfileID: 404}
	r := newStudentRouter(&fakeStudentDirectory{}, sessions, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/student", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "stale-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, []string{"stale-token"}, sessions.destroyed)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestStudentDashboardWithoutIdentity(t *testing.T) {
	r := newStudentRouter(&fakeStudentDirectory{}, &fakeSessionManager{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/student", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
