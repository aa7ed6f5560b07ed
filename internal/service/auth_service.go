package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

type authAccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}

type authProfileRepository interface {
	FindByNameAndStudentNo(ctx context.Context, name, studentNo string) (*models.StudentProfile, error)
}

type auditRecorder interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AdminLoginRequest carries the credentialed login form fields.
type AdminLoginRequest struct {
	Username  string `validate:"required"`
	Password  string `validate:"required"`
	IP        string
	UserAgent string
}

// StudentLoginRequest carries the passwordless login form fields.
type StudentLoginRequest struct {
	Name      string `validate:"required"`
	StudentNo string `validate:"required"`
	IP        string
	UserAgent string
}

// adminAuthFailureMessage is shared between the unknown-username and
// wrong-password cases so the response does not reveal which one occurred.
const adminAuthFailureMessage = "아이디 또는 비밀번호가 올바르지 않습니다."

const studentAuthFailureMessage = "이름 또는 학번이 올바르지 않습니다."

// AuthService verifies credentials for both login modes.
type AuthService struct {
	accounts  authAccountRepository
	profiles  authProfileRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger

	// studentNoLogin enables authentication by name+student-number with no
	// password. Student numbers are guessable, so this is a deliberate
	// low-security mode for closed deployments; see config.AuthConfig.
	studentNoLogin bool

	// dummyHash absorbs a bcrypt comparison when the username does not
	// exist, keeping response timing independent of account existence.
	dummyHash []byte
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts authAccountRepository, profiles authProfileRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, studentNoLogin bool) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("credential-padding"), bcrypt.DefaultCost)
	if err != nil {
		dummyHash = nil
	}
	return &AuthService{
		accounts:       accounts,
		profiles:       profiles,
		audit:          audit,
		validator:      validate,
		logger:         logger,
		studentNoLogin: studentNoLogin,
		dummyHash:      dummyHash,
	}
}

// AuthenticateAdmin verifies a username/password pair against the credential
// store. Every failure path returns the same AUTH_FAILURE message.
func (s *AuthService) AuthenticateAdmin(ctx context.Context, req AdminLoginRequest) (*models.Account, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrAuthFailure, adminAuthFailureMessage)
	}

	account, err := s.accounts.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if s.dummyHash != nil {
				_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			}
			return nil, appErrors.Clone(appErrors.ErrAuthFailure, adminAuthFailureMessage)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if account.Role != models.RoleAdmin || account.PasswordHash == "" {
		if s.dummyHash != nil {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		}
		return nil, appErrors.Clone(appErrors.ErrAuthFailure, adminAuthFailureMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrAuthFailure, adminAuthFailureMessage)
	}

	s.recordLogin(ctx, &account.ID, "account", req.IP, req.UserAgent)
	return account, nil
}

// AuthenticateStudent verifies the passwordless name+student-number pair.
func (s *AuthService) AuthenticateStudent(ctx context.Context, req StudentLoginRequest) (*models.StudentProfile, error) {
	if !s.studentNoLogin {
		return nil, appErrors.Clone(appErrors.ErrAuthFailure, "학생 로그인이 비활성화되어 있습니다.")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrAuthFailure, studentAuthFailureMessage)
	}

	profile, err := s.profiles.FindByNameAndStudentNo(ctx, req.Name, req.StudentNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrAuthFailure, studentAuthFailureMessage)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}

	s.recordLogin(ctx, profile.AccountID, "profile", req.IP, req.UserAgent)
	return profile, nil
}

// RecordLogout writes the logout audit entry.
func (s *AuthService) RecordLogout(ctx context.Context, accountID *int64, ip, userAgent string) {
	if err := s.audit.Create(ctx, &models.AuditLog{
		AccountID: accountID,
		Action:    models.AuditActionLogout,
		Resource:  "auth",
		IPAddress: ip,
		UserAgent: userAgent,
	}); err != nil {
		s.logger.Warn("failed to record logout audit log", zap.Error(err))
	}
}

func (s *AuthService) recordLogin(ctx context.Context, accountID *int64, subject, ip, userAgent string) {
	detail, _ := json.Marshal(map[string]string{"status": "success", "subject": subject})
	if err := s.audit.Create(ctx, &models.AuditLog{
		AccountID: accountID,
		Action:    models.AuditActionLogin,
		Resource:  "auth",
		Detail:    detail,
		IPAddress: ip,
		UserAgent: userAgent,
	}); err != nil {
		s.logger.Warn("failed to record login audit log", zap.Error(err))
	}
}
