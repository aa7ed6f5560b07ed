package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
	"github.com/jhlee-dev/sis-portal/pkg/export"
)

type exportProfileRepository interface {
	ListAll(ctx context.Context, keyword string) ([]models.StudentProfile, error)
}

var rosterHeaders = []string{"student_no", "name", "college", "department", "certification_track", "extracurricular_programs", "consortium_curriculum_status"}

// RosterExport is a rendered roster document ready to be served.
type RosterExport struct {
	Content     []byte
	Filename    string
	ContentType string
}

// ExportService renders the student roster as a downloadable document. The
// current keyword filter applies; pagination does not.
type ExportService struct {
	profiles exportProfileRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(profiles exportProfileRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		profiles: profiles,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// ExportStudents renders the (optionally filtered) roster in the requested
// format. Supported formats are "csv" and "pdf".
func (s *ExportService) ExportStudents(ctx context.Context, keyword, format string) (*RosterExport, error) {
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	profiles, err := s.profiles.ListAll(ctx, keyword)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	dataset := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(profiles))}
	for _, p := range profiles {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"student_no":                   p.StudentNo,
			"name":                         p.Name,
			"college":                      p.College,
			"department":                   p.Department,
			"certification_track":          p.CertificationTrack,
			"extracurricular_programs":     p.ExtracurricularPrograms,
			"consortium_curriculum_status": p.ConsortiumCurriculumStatus,
		})
	}

	switch format {
	case "pdf":
		content, err := s.pdf.Render(dataset, "student roster")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &RosterExport{Content: content, Filename: "students.pdf", ContentType: "application/pdf"}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &RosterExport{Content: content, Filename: "students.csv", ContentType: "text/csv; charset=utf-8"}, nil
	}
}
