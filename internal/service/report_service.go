package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/models"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
	"github.com/sudoeste-fight/academy-api/pkg/export"
)

const defaultReportMaxDays = 92

type attendanceSource interface {
	ListRange(ctx context.Context, from, to string) ([]models.AttendanceRow, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

// AttendanceReport is the rendered report. Body is empty for the json format.
type AttendanceReport struct {
	Format      string
	Filename    string
	ContentType string
	Body        []byte
	Rows        []models.AttendanceRow
}

// ReportService builds attendance reports over a date range.
type ReportService struct {
	source    attendanceSource
	validator *validator.Validate
	logger    *zap.Logger
	maxDays   int
	csv       csvRenderer
	pdf       pdfRenderer
}

// NewReportService constructs the report service. Nil renderers fall back to the pkg/export defaults.
func NewReportService(source attendanceSource, validate *validator.Validate, logger *zap.Logger, maxDays int, csv csvRenderer, pdf pdfRenderer) *ReportService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDays <= 0 {
		maxDays = defaultReportMaxDays
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{source: source, validator: validate, logger: logger, maxDays: maxDays, csv: csv, pdf: pdf}
}

// Attendance lists check-ins between inicio and fim (inclusive) in the requested format.
func (s *ReportService) Attendance(ctx context.Context, query dto.AttendanceReportQuery) (*AttendanceReport, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err, "invalid report range")
	}
	from, _ := time.Parse(models.DateLayout, query.From)
	to, _ := time.Parse(models.DateLayout, query.To)
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "inicio must not be after fim")
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > s.maxDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("report range is limited to %d days", s.maxDays))
	}

	rows, err := s.source.ListRange(ctx, query.From, query.To)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance")
	}

	format := query.Format
	if format == "" {
		format = dto.ReportFormatJSON
	}
	report := &AttendanceReport{Format: format, Rows: rows}
	base := fmt.Sprintf("checkins_%s_%s", query.From, query.To)

	switch format {
	case dto.ReportFormatCSV:
		body, err := s.csv.Render(attendanceDataset(rows))
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render csv")
		}
		report.Filename, report.ContentType, report.Body = base+".csv", "text/csv; charset=utf-8", body
	case dto.ReportFormatPDF:
		subtitle := fmt.Sprintf("Período %s a %s - %d check-ins", query.From, query.To, len(rows))
		body, err := s.pdf.Render(attendanceDataset(rows), "Relatório de presença", subtitle)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render pdf")
		}
		report.Filename, report.ContentType, report.Body = base+".pdf", "application/pdf", body
	}
	s.logger.Debug("attendance report generated", zap.String("format", format), zap.Int("rows", len(rows)))
	return report, nil
}

func attendanceDataset(rows []models.AttendanceRow) export.Dataset {
	ds := export.Dataset{
		Columns: []export.Column{
			{Key: "data", Label: "Data"},
			{Key: "dia", Label: "Dia"},
			{Key: "horario", Label: "Horário"},
			{Key: "modalidade", Label: "Modalidade"},
			{Key: "matricula", Label: "Matrícula"},
			{Key: "nome", Label: "Aluno"},
			{Key: "aula_id", Label: "Aula"},
		},
		Rows: make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		day := ""
		if row.DayOfWeek != nil {
			day = string(*row.DayOfWeek)
		}
		activity := deref(row.Activity)
		if row.Activity == nil {
			activity = "(aula removida)"
		}
		ds.Rows = append(ds.Rows, map[string]string{
			"data":       row.Date,
			"dia":        day,
			"horario":    deref(row.Time),
			"modalidade": activity,
			"matricula":  row.Matricula,
			"nome":       row.StudentName,
			"aula_id":    strconv.FormatInt(row.ClassID, 10),
		})
	}
	return ds
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
