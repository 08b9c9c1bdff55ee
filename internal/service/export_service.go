package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/noor-academy/student-portal-api/internal/models"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
	"github.com/noor-academy/student-portal-api/pkg/export"
)

type rosterRepository interface {
	All(ctx context.Context) ([]models.StudentRow, error)
}

// Export formats supported by the roster endpoint.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportService renders the registration roster for download.
type ExportService struct {
	repo   rosterRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(repo rosterRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:   repo,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// RosterExport is a rendered download.
type RosterExport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Roster renders the full student roster in the requested format.
func (s *ExportService) Roster(ctx context.Context, format string) (*RosterExport, error) {
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	students, err := s.repo.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	dataset := export.Dataset{
		Headers: []string{"Code", "Name", "Grade", "Subscription", "Confirmed", "Enrolled"},
		Rows:    make([]map[string]string, 0, len(students)),
	}
	for _, student := range students {
		row := map[string]string{
			"Code":         student.StudentCode,
			"Name":         student.FullNameArabic,
			"Grade":        student.GradeLevel,
			"Subscription": student.SubscriptionType,
			"Confirmed":    strconv.FormatBool(student.IsConfirmed),
		}
		if student.EnrollmentDate != nil {
			row["Enrolled"] = student.EnrollmentDate.Format("2006-01-02")
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Student Roster")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster pdf")
		}
		return &RosterExport{Content: content, ContentType: "application/pdf", Filename: "students.pdf"}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
		}
		return &RosterExport{Content: content, ContentType: "text/csv; charset=utf-8", Filename: "students.csv"}, nil
	}
}
