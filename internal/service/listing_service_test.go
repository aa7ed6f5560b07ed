package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

type mockListingProfileRepo struct {
	profiles   []models.StudentProfile
	total      int
	lastFilter models.ProfileFilter
}

func (m *mockListingProfileRepo) List(_ context.Context, filter models.ProfileFilter) ([]models.StudentProfile, int, error) {
	m.lastFilter = filter
	return m.profiles, m.total, nil
}

func (m *mockListingProfileRepo) FindByID(_ context.Context, id int64) (*models.StudentProfile, error) {
	for i := range m.profiles {
		if m.profiles[i].ID == id {
			return &m.profiles[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockListingCatalogRepo struct {
	recent map[models.CatalogKind][]models.CatalogEntry
	all    map[models.CatalogKind][]models.CatalogEntry
}

func (m *mockListingCatalogRepo) Recent(_ context.Context, kind models.CatalogKind, limit int) ([]models.CatalogEntry, error) {
	entries := m.recent[kind]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *mockListingCatalogRepo) All(_ context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error) {
	return m.all[kind], nil
}

func TestListStudentsClampsPagination(t *testing.T) {
	repo := &mockListingProfileRepo{total: 3}
	svc := NewListingService(repo, &mockListingCatalogRepo{}, nil)

	cases := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"zero values use defaults", 0, 0, 1, 20},
		{"negative page clamps to one", -5, 10, 1, 10},
		{"oversized page size caps at hundred", 2, 500, 2, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, pagination, err := svc.ListStudents(context.Background(), models.ProfileFilter{Page: tc.page, PageSize: tc.size})
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, repo.lastFilter.Page)
			assert.Equal(t, tc.wantSize, repo.lastFilter.PageSize)
			assert.Equal(t, tc.wantPage, pagination.Page)
			assert.Equal(t, tc.wantSize, pagination.PageSize)
			assert.Equal(t, 3, pagination.TotalCount)
		})
	}
}

func TestProfileByID(t *testing.T) {
	repo := &mockListingProfileRepo{profiles: []models.StudentProfile{{ID: 7, Name: "홍길동"}}}
	svc := NewListingService(repo, &mockListingCatalogRepo{}, nil)

	profile, err := svc.ProfileByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "홍길동", profile.Name)

	_, err = svc.ProfileByID(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, "NOT_FOUND"))
}

func TestRecentCatalogsLimitsPreview(t *testing.T) {
	many := make([]models.CatalogEntry, 12)
	for i := range many {
		many[i] = models.CatalogEntry{ID: int64(12 - i)}
	}
	catalogs := &mockListingCatalogRepo{recent: map[models.CatalogKind][]models.CatalogEntry{
		models.CatalogCurriculum:      many,
		models.CatalogCertification:   {{ID: 1, Name: "SQLD"}},
		models.CatalogExtracurricular: {},
	}}
	svc := NewListingService(&mockListingProfileRepo{}, catalogs, nil)

	overview, err := svc.RecentCatalogs(context.Background())
	require.NoError(t, err)
	assert.Len(t, overview.Curriculum, adminDashboardRecentLimit)
	assert.Len(t, overview.Certifications, 1)
	assert.Empty(t, overview.Extracurriculars)
}

func TestCatalog(t *testing.T) {
	catalogs := &mockListingCatalogRepo{all: map[models.CatalogKind][]models.CatalogEntry{
		models.CatalogExtracurricular: {{ID: 2, Name: "창업동아리"}, {ID: 1, Name: "해커톤"}},
	}}
	svc := NewListingService(&mockListingProfileRepo{}, catalogs, nil)

	entries, err := svc.Catalog(context.Background(), models.CatalogExtracurricular)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
}
