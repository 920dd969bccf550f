package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/models"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
	"github.com/sudoeste-fight/academy-api/pkg/export"
)

type attendanceSourceStub struct {
	rows     []models.AttendanceRow
	err      error
	from, to string
}

func (s *attendanceSourceStub) ListRange(ctx context.Context, from, to string) ([]models.AttendanceRow, error) {
	s.from, s.to = from, to
	return s.rows, s.err
}

type pdfRendererStub struct {
	title, subtitle string
	rows            int
}

func (p *pdfRendererStub) Render(data export.Dataset, title, subtitle string) ([]byte, error) {
	p.title, p.subtitle, p.rows = title, subtitle, len(data.Rows)
	return []byte("%PDF-stub"), nil
}

func sampleAttendance() []models.AttendanceRow {
	day := models.DayMonday
	clock := "19:00"
	activity := "Jiu-Jitsu"
	return []models.AttendanceRow{
		{CheckInID: 1, Date: "2024-06-03", ClassID: 7, DayOfWeek: &day, Time: &clock, Activity: &activity, StudentID: 42, StudentName: "Maria", Matricula: "2024001"},
		{CheckInID: 2, Date: "2024-06-03", ClassID: 99, StudentID: 43, StudentName: "João", Matricula: "2024002"},
	}
}

func TestReportServiceJSONDefault(t *testing.T) {
	source := &attendanceSourceStub{rows: sampleAttendance()}
	svc := NewReportService(source, nil, zap.NewNop(), 0, nil, nil)

	report, err := svc.Attendance(context.Background(), dto.AttendanceReportQuery{From: "2024-06-01", To: "2024-06-30"})
	require.NoError(t, err)
	assert.Equal(t, dto.ReportFormatJSON, report.Format)
	assert.Len(t, report.Rows, 2)
	assert.Empty(t, report.Body)
	assert.Equal(t, "2024-06-01", source.from)
	assert.Equal(t, "2024-06-30", source.to)
}

func TestReportServiceCSV(t *testing.T) {
	svc := NewReportService(&attendanceSourceStub{rows: sampleAttendance()}, nil, zap.NewNop(), 0, nil, nil)

	report, err := svc.Attendance(context.Background(), dto.AttendanceReportQuery{From: "2024-06-03", To: "2024-06-03", Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "checkins_2024-06-03_2024-06-03.csv", report.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", report.ContentType)

	lines := strings.Split(strings.TrimSpace(string(report.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Data,Dia,Horário,Modalidade,Matrícula,Aluno,Aula", lines[0])
	assert.Equal(t, "2024-06-03,Seg,19:00,Jiu-Jitsu,2024001,Maria,7", lines[1])
	assert.Equal(t, "2024-06-03,,,(aula removida),2024002,João,99", lines[2])
}

func TestReportServicePDF(t *testing.T) {
	pdf := &pdfRendererStub{}
	svc := NewReportService(&attendanceSourceStub{rows: sampleAttendance()}, nil, zap.NewNop(), 0, nil, pdf)

	report, err := svc.Attendance(context.Background(), dto.AttendanceReportQuery{From: "2024-06-01", To: "2024-06-07", Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.Equal(t, "checkins_2024-06-01_2024-06-07.pdf", report.Filename)
	assert.Equal(t, 2, pdf.rows)
	assert.Contains(t, pdf.subtitle, "2 check-ins")
}

func TestReportServiceRangeValidation(t *testing.T) {
	svc := NewReportService(&attendanceSourceStub{}, nil, zap.NewNop(), 31, nil, nil)
	ctx := context.Background()

	cases := []dto.AttendanceReportQuery{
		{From: "2024-06-10", To: "2024-06-01"},
		{From: "2024-01-01", To: "2024-03-01"},
		{From: "01/06/2024", To: "2024-06-10"},
		{From: "2024-06-01", To: "2024-06-10", Format: "xlsx"},
		{To: "2024-06-10"},
	}
	for _, query := range cases {
		_, err := svc.Attendance(ctx, query)
		assert.ErrorIs(t, err, appErrors.ErrValidation, "%+v", query)
	}

	_, err := svc.Attendance(ctx, dto.AttendanceReportQuery{From: "2024-06-01", To: "2024-07-01"})
	assert.NoError(t, err)
}

func TestReportServiceSourceFailure(t *testing.T) {
	svc := NewReportService(&attendanceSourceStub{err: errors.New("db down")}, nil, zap.NewNop(), 0, nil, nil)
	_, err := svc.Attendance(context.Background(), dto.AttendanceReportQuery{From: "2024-06-01", To: "2024-06-02"})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
