package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhlee-dev/sis-portal/internal/models"
)

const profileColumns = "id, account_id, name, student_no, college, department, certification_track, extracurricular_programs, consortium_curriculum_status"

// keyword matching is a plain substring check, so LIKE metacharacters in
// user input must not act as wildcards.
const profileKeywordCondition = "POSITION($1 IN concat_ws(' ', name, student_no, college, department)) > 0"

// ProfileRepository manages persistence for student profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID fetches a profile by primary key.
func (r *ProfileRepository) FindByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM student_profiles WHERE id = $1", profileColumns)
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByStudentNo fetches a profile by its natural key.
func (r *ProfileRepository) FindByStudentNo(ctx context.Context, studentNo string) (*models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM student_profiles WHERE student_no = $1 LIMIT 1", profileColumns)
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, studentNo); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByNameAndStudentNo fetches a profile matching both fields exactly.
// This backs the passwordless student login mode.
func (r *ProfileRepository) FindByNameAndStudentNo(ctx context.Context, name, studentNo string) (*models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM student_profiles WHERE name = $1 AND student_no = $2 LIMIT 1", profileColumns)
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, name, studentNo); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByAccountID fetches the profile linked to a login account.
func (r *ProfileRepository) FindByAccountID(ctx context.Context, accountID int64) (*models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM student_profiles WHERE account_id = $1 LIMIT 1", profileColumns)
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, accountID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create inserts a new profile and fills in its generated ID.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	const query = `INSERT INTO student_profiles (account_id, name, student_no, college, department, certification_track, extracurricular_programs, consortium_curriculum_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &profile.ID, query,
		profile.AccountID, profile.Name, profile.StudentNo, profile.College, profile.Department,
		profile.CertificationTrack, profile.ExtracurricularPrograms, profile.ConsortiumCurriculumStatus); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing profile.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	const query = `UPDATE student_profiles SET account_id = $1, name = $2, student_no = $3, college = $4, department = $5, certification_track = $6, extracurricular_programs = $7, consortium_curriculum_status = $8 WHERE id = $9`
	if _, err := r.db.ExecContext(ctx, query,
		profile.AccountID, profile.Name, profile.StudentNo, profile.College, profile.Department,
		profile.CertificationTrack, profile.ExtracurricularPrograms, profile.ConsortiumCurriculumStatus,
		profile.ID); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// List returns profiles matching the filter, newest first, plus the total
// count of matching rows. Page and size are clamped rather than rejected.
func (r *ProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]models.StudentProfile, int, error) {
	base := "FROM student_profiles"
	var args []interface{}
	if filter.Keyword != "" {
		base += " WHERE " + profileKeywordCondition
		args = append(args, filter.Keyword)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY id DESC LIMIT %d OFFSET %d", profileColumns, base, size, offset)
	var profiles []models.StudentProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}
	return profiles, total, nil
}

// ListAll returns every matching profile without pagination, newest first.
// Used by the roster export.
func (r *ProfileRepository) ListAll(ctx context.Context, keyword string) ([]models.StudentProfile, error) {
	base := "FROM student_profiles"
	var args []interface{}
	if keyword != "" {
		base += " WHERE " + profileKeywordCondition
		args = append(args, keyword)
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY id DESC", profileColumns, base)
	var profiles []models.StudentProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("list all profiles: %w", err)
	}
	return profiles, nil
}
