package dto

// Report formats.
const (
	ReportFormatJSON = "json"
	ReportFormatCSV  = "csv"
	ReportFormatPDF  = "pdf"
)

// AttendanceReportQuery captures GET /checkins/relatorio parameters.
type AttendanceReportQuery struct {
	From   string `form:"inicio" validate:"required,datetime=2006-01-02"`
	To     string `form:"fim" validate:"required,datetime=2006-01-02"`
	Format string `form:"formato" validate:"omitempty,oneof=json csv pdf"`
}
