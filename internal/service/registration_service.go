package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

type registrationProfileRepository interface {
	FindByStudentNo(ctx context.Context, studentNo string) (*models.StudentProfile, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
	Update(ctx context.Context, profile *models.StudentProfile) error
}

type registrationCatalogRepository interface {
	Insert(ctx context.Context, kind models.CatalogKind, entry *models.CatalogEntry) error
}

// UpsertProfileRequest holds the admin registration form for a student.
type UpsertProfileRequest struct {
	Name                       string `validate:"required"`
	StudentNo                  string `validate:"required"`
	College                    string
	Department                 string
	CertificationTrack         string
	ExtracurricularPrograms    string
	ConsortiumCurriculumStatus string
}

// CreateCatalogEntryRequest holds the admin form for a catalog entry.
type CreateCatalogEntryRequest struct {
	Kind        models.CatalogKind `validate:"required"`
	Name        string             `validate:"required"`
	Description string
}

// RegistrationService reconciles admin form submissions against existing
// records. Profiles are upserted by student number; catalog entries are
// append-only inserts. Each write is a single committed statement, so
// concurrent upserts to the same natural key are last-write-wins.
type RegistrationService struct {
	profiles  registrationProfileRepository
	catalogs  registrationCatalogRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(profiles registrationProfileRepository, catalogs registrationCatalogRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{profiles: profiles, catalogs: catalogs, audit: audit, validator: validate, logger: logger}
}

// UpsertProfile creates or overwrites the profile identified by the request's
// student number. It reports whether a new record was created.
func (s *RegistrationService) UpsertProfile(ctx context.Context, actorID int64, req UpsertProfileRequest) (*models.StudentProfile, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "이름과 학번은 필수 항목입니다.")
	}

	profile, err := s.profiles.FindByStudentNo(ctx, req.StudentNo)
	created := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up profile")
		}
		profile = &models.StudentProfile{StudentNo: req.StudentNo}
		created = true
	}

	profile.Name = req.Name
	profile.College = req.College
	profile.Department = req.Department
	profile.CertificationTrack = req.CertificationTrack
	profile.ExtracurricularPrograms = req.ExtracurricularPrograms
	profile.ConsortiumCurriculumStatus = req.ConsortiumCurriculumStatus

	if created {
		err = s.profiles.Create(ctx, profile)
	} else {
		err = s.profiles.Update(ctx, profile)
	}
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist profile")
	}

	s.recordMutation(ctx, actorID, models.AuditActionProfileUpsert, "student_profile", fmt.Sprintf("%d", profile.ID), map[string]interface{}{
		"student_no": profile.StudentNo,
		"created":    created,
	})
	return profile, created, nil
}

// CreateCatalogEntry appends a new entry to one of the three catalogs.
// Duplicates by name are permitted and never merged.
func (s *RegistrationService) CreateCatalogEntry(ctx context.Context, actorID int64, req CreateCatalogEntryRequest) (*models.CatalogEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "이름은 필수 항목입니다.")
	}

	entry := &models.CatalogEntry{Name: req.Name, Description: req.Description}
	if err := s.catalogs.Insert(ctx, req.Kind, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist catalog entry")
	}

	s.recordMutation(ctx, actorID, models.AuditActionCatalogCreate, string(req.Kind), fmt.Sprintf("%d", entry.ID), map[string]interface{}{
		"name": entry.Name,
	})
	return entry, nil
}

func (s *RegistrationService) recordMutation(ctx context.Context, actorID int64, action, resource, resourceID string, detail map[string]interface{}) {
	payload, _ := json.Marshal(detail)
	if err := s.audit.Create(ctx, &models.AuditLog{
		AccountID:  &actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		Detail:     payload,
	}); err != nil {
		s.logger.Warn("failed to record mutation audit log", zap.Error(err))
	}
}
