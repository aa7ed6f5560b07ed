package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

// adminDashboardRecentLimit is how many entries per catalog the admin
// registration page previews.
const adminDashboardRecentLimit = 8

type listingProfileRepository interface {
	List(ctx context.Context, filter models.ProfileFilter) ([]models.StudentProfile, int, error)
	FindByID(ctx context.Context, id int64) (*models.StudentProfile, error)
}

type listingCatalogRepository interface {
	Recent(ctx context.Context, kind models.CatalogKind, limit int) ([]models.CatalogEntry, error)
	All(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error)
}

// CatalogOverview bundles the recent entries of all three catalogs for the
// admin registration page.
type CatalogOverview struct {
	Curriculum       []models.CatalogEntry
	Certifications   []models.CatalogEntry
	Extracurriculars []models.CatalogEntry
}

// ListingService serves the read side: student roster, catalog views and the
// student's own dashboard.
type ListingService struct {
	profiles listingProfileRepository
	catalogs listingCatalogRepository
	logger   *zap.Logger
}

// NewListingService constructs a ListingService.
func NewListingService(profiles listingProfileRepository, catalogs listingCatalogRepository, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{profiles: profiles, catalogs: catalogs, logger: logger}
}

// ListStudents returns one page of the (optionally keyword-filtered) roster,
// newest first, plus pagination metadata. Out-of-range page and size values
// are clamped, never rejected.
func (s *ListingService) ListStudents(ctx context.Context, filter models.ProfileFilter) ([]models.StudentProfile, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	profiles, total, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profiles")
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return profiles, pagination, nil
}

// ProfileByID loads a single profile, used by the student dashboard. A miss
// maps to NOT_FOUND so the handler can clear the stale session.
func (s *ListingService) ProfileByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// RecentCatalogs returns the newest entries of each catalog for the admin
// registration page.
func (s *ListingService) RecentCatalogs(ctx context.Context) (*CatalogOverview, error) {
	overview := &CatalogOverview{}
	var err error
	if overview.Curriculum, err = s.catalogs.Recent(ctx, models.CatalogCurriculum, adminDashboardRecentLimit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum tracks")
	}
	if overview.Certifications, err = s.catalogs.Recent(ctx, models.CatalogCertification, adminDashboardRecentLimit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certifications")
	}
	if overview.Extracurriculars, err = s.catalogs.Recent(ctx, models.CatalogExtracurricular, adminDashboardRecentLimit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load extracurricular programs")
	}
	return overview, nil
}

// Catalog returns every entry of the given catalog, newest first.
func (s *ListingService) Catalog(ctx context.Context, kind models.CatalogKind) ([]models.CatalogEntry, error) {
	entries, err := s.catalogs.All(ctx, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	return entries, nil
}
