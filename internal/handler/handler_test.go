package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	"github.com/sudoeste-fight/academy-api/internal/middleware"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/internal/service"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
	"github.com/sudoeste-fight/academy-api/pkg/response"
)

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func asStudent(c *gin.Context, id int64) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{StudentID: id, Role: models.RoleStudent})
}

func asTeacher(c *gin.Context) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{StudentID: 1, Role: models.RoleTeacher})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var body response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type checkInServiceStub struct {
	lastSession service.Session
	lastRequest dto.CheckInRequest
	roster      *dto.Roster
	cancelErr   error
	checkInErr  error
}

func (s *checkInServiceStub) GetRoster(ctx context.Context, sess service.Session, classID int64, date string) (*dto.Roster, error) {
	s.lastSession = sess
	return s.roster, nil
}

func (s *checkInServiceStub) RequestCheckIn(ctx context.Context, sess service.Session, req dto.CheckInRequest) (*models.CheckInRecord, error) {
	s.lastSession, s.lastRequest = sess, req
	if s.checkInErr != nil {
		return nil, s.checkInErr
	}
	return &models.CheckInRecord{ID: 1, StudentID: sess.StudentID, ClassID: req.ClassID, Date: "2024-06-03"}, nil
}

func (s *checkInServiceStub) RequestCancel(ctx context.Context, sess service.Session, req dto.CheckInRequest) error {
	s.lastSession, s.lastRequest = sess, req
	return s.cancelErr
}

type reportServiceStub struct {
	report *service.AttendanceReport
}

func (s *reportServiceStub) Attendance(ctx context.Context, query dto.AttendanceReportQuery) (*service.AttendanceReport, error) {
	return s.report, nil
}

func TestCheckInHandlerUsesTokenIdentityAndServerClock(t *testing.T) {
	fixed := time.Date(2024, 6, 3, 21, 0, 0, 0, time.UTC)
	clock = func() time.Time { return fixed }
	defer func() { clock = time.Now }()

	svc := &checkInServiceStub{}
	h := NewCheckInHandler(svc, nil)
	c, w := newGinContext(http.MethodPost, "/api/checkins", []byte(`{"aula_id":7,"data_checkin":"2024-06-03"}`))
	c.Request.Header.Set("User-Agent", "SudoesteFightApp")
	asStudent(c, 42)

	h.CheckIn(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(42), svc.lastSession.StudentID)
	assert.Equal(t, fixed, svc.lastSession.Now)
	assert.Equal(t, "SudoesteFightApp", svc.lastSession.UserAgent)
	assert.Equal(t, int64(7), svc.lastRequest.ClassID)
}

func TestCheckInHandlerConflict(t *testing.T) {
	h := NewCheckInHandler(&checkInServiceStub{checkInErr: appErrors.Clone(appErrors.ErrAlreadyCheckedIn, "")}, nil)
	c, w := newGinContext(http.MethodPost, "/api/checkins", []byte(`{"aula_id":7}`))
	asStudent(c, 42)

	h.CheckIn(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_CHECKED_IN", decode(t, w).Error.Code)
}

func TestCheckInHandlerCancelAfterClassStarted(t *testing.T) {
	h := NewCheckInHandler(&checkInServiceStub{cancelErr: appErrors.Clone(appErrors.ErrClassFinished, "")}, nil)
	c, w := newGinContext(http.MethodDelete, "/api/checkins", []byte(`{"aluno_id":42,"aula_id":7,"data_checkin":"2024-06-03"}`))
	asStudent(c, 42)

	h.Cancel(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CLASS_FINISHED", decode(t, w).Error.Code)
}

func TestCheckInHandlerCancelSuccess(t *testing.T) {
	svc := &checkInServiceStub{}
	h := NewCheckInHandler(svc, nil)
	c, w := newGinContext(http.MethodDelete, "/api/checkins", []byte(`{"aula_id":7}`))
	asStudent(c, 42)

	h.Cancel(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Check-in cancelado com sucesso.", decode(t, w).Meta["message"])
}

func TestCheckInHandlerRejectsMalformedBody(t *testing.T) {
	h := NewCheckInHandler(&checkInServiceStub{}, nil)
	c, w := newGinContext(http.MethodPost, "/api/checkins", []byte(`{"aula_id":"sete"}`))
	asStudent(c, 42)

	h.CheckIn(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckInHandlerRosterRequiresNumericClass(t *testing.T) {
	h := NewCheckInHandler(&checkInServiceStub{roster: &dto.Roster{}}, nil)

	c, w := newGinContext(http.MethodGet, "/api/checkins/aula/x/data/2024-06-03", nil)
	c.Params = gin.Params{{Key: "classId", Value: "x"}, {Key: "date", Value: "2024-06-03"}}
	asStudent(c, 42)
	h.Roster(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/api/checkins/aula/7/data/2024-06-03", nil)
	c.Params = gin.Params{{Key: "classId", Value: "7"}, {Key: "date", Value: "2024-06-03"}}
	h.Roster(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckInHandlerReportFormats(t *testing.T) {
	reports := &reportServiceStub{report: &service.AttendanceReport{
		Format:      dto.ReportFormatCSV,
		Filename:    "checkins_2024-06-01_2024-06-30.csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("Data\n2024-06-03\n"),
	}}
	h := NewCheckInHandler(&checkInServiceStub{}, reports)

	c, w := newGinContext(http.MethodGet, "/api/checkins/relatorio?inicio=2024-06-01&fim=2024-06-30&formato=csv", nil)
	asTeacher(c)
	h.Report(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="checkins_2024-06-01_2024-06-30.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Data\n2024-06-03\n", w.Body.String())

	reports.report = &service.AttendanceReport{Format: dto.ReportFormatJSON, Rows: []models.AttendanceRow{{CheckInID: 1}}}
	c, w = newGinContext(http.MethodGet, "/api/checkins/relatorio?inicio=2024-06-01&fim=2024-06-30", nil)
	asTeacher(c)
	h.Report(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w).Meta["count"])
}

type scheduleServiceStub struct {
	classes []models.ClassTemplate
	hit     bool
	day     string
}

func (s *scheduleServiceStub) ListClasses(ctx context.Context, day string) ([]models.ClassTemplate, bool, error) {
	s.day = day
	return s.classes, s.hit, nil
}

func (s *scheduleServiceStub) GetClass(ctx context.Context, id int64) (*models.ClassTemplate, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
}

func (s *scheduleServiceStub) CreateClass(ctx context.Context, sess service.Session, req dto.ClassRequest) (*models.ClassTemplate, error) {
	return &models.ClassTemplate{ID: 9, DayOfWeek: models.DayOfWeek(req.DayOfWeek), Time: req.Time, Activity: req.Activity}, nil
}

func (s *scheduleServiceStub) UpdateClass(ctx context.Context, sess service.Session, id int64, req dto.ClassRequest) (*models.ClassTemplate, error) {
	return &models.ClassTemplate{ID: id}, nil
}

func (s *scheduleServiceStub) DeleteClass(ctx context.Context, sess service.Session, id int64) (*dto.ClassDeleteResult, error) {
	return &dto.ClassDeleteResult{Deleted: true, OrphanPolicy: "preserve"}, nil
}

func TestScheduleHandlerAgendaReportsCacheHit(t *testing.T) {
	svc := &scheduleServiceStub{classes: []models.ClassTemplate{{ID: 7, DayOfWeek: models.DayMonday, Time: "19:00", Activity: "Jiu-Jitsu"}}, hit: true}
	h := NewScheduleHandler(svc)

	c, w := newGinContext(http.MethodGet, "/api/agenda?dia=Seg", nil)
	middleware.WithResponseMeta()(c)
	h.Agenda(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Seg", svc.day)
	body := decode(t, w)
	assert.Equal(t, true, body.Meta["cache_hit"])
}

func TestScheduleHandlerCreateAndDelete(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceStub{})

	c, w := newGinContext(http.MethodPost, "/api/aulas", []byte(`{"dia_semana":"Qua","horario":"18:00","modalidade":"Judô"}`))
	asTeacher(c)
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newGinContext(http.MethodDelete, "/api/aulas/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	asTeacher(c)
	h.Delete(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/api/aulas/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type announcementServiceStub struct {
	since   *time.Time
	deleted int64
}

func (s *announcementServiceStub) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, *models.Pagination, error) {
	return []models.Announcement{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (s *announcementServiceStub) Get(ctx context.Context, id int64) (*models.Announcement, error) {
	return &models.Announcement{ID: id}, nil
}

func (s *announcementServiceStub) Updates(ctx context.Context, since *time.Time) (*dto.AnnouncementUpdates, error) {
	s.since = since
	return &dto.AnnouncementUpdates{HasNewUpdate: true}, nil
}

func (s *announcementServiceStub) Create(ctx context.Context, sess service.Session, req dto.AnnouncementRequest) (*models.Announcement, error) {
	return &models.Announcement{ID: 1, Title: req.Title}, nil
}

func (s *announcementServiceStub) Update(ctx context.Context, sess service.Session, id int64, req dto.AnnouncementRequest) (*models.Announcement, error) {
	return &models.Announcement{ID: id, Title: req.Title}, nil
}

func (s *announcementServiceStub) Delete(ctx context.Context, sess service.Session, id int64) error {
	s.deleted = id
	return nil
}

func TestAnnouncementHandlerUpdates(t *testing.T) {
	svc := &announcementServiceStub{}
	h := NewAnnouncementHandler(svc)

	c, w := newGinContext(http.MethodGet, "/api/avisos/novidades?desde=2024-06-01T12:00:00Z", nil)
	h.Updates(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.since)
	assert.Equal(t, 2024, svc.since.Year())

	c, w = newGinContext(http.MethodGet, "/api/avisos/novidades?desde=ontem", nil)
	h.Updates(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnouncementHandlerDeleteReturnsNoContent(t *testing.T) {
	svc := &announcementServiceStub{}
	h := NewAnnouncementHandler(svc)

	c, w := newGinContext(http.MethodDelete, "/api/avisos/4", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	asTeacher(c)
	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(4), svc.deleted)
}

type authServiceStub struct {
	req models.LoginRequest
}

func (s *authServiceStub) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	s.req = req
	if req.Password != "s3cret" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := &authServiceStub{}
	h := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodPost, "/api/login", []byte(`{"matricula":"2024001","senha":"s3cret"}`))
	h.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024001", svc.req.Matricula)

	c, w = newGinContext(http.MethodPost, "/api/login", []byte(`{"matricula":"2024001","senha":"nope"}`))
	h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodPost, "/api/login", []byte(`not json`))
	h.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type studentServiceStub struct {
	filter models.StudentFilter
}

func (s *studentServiceStub) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	s.filter = filter
	return []models.Student{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (s *studentServiceStub) Get(ctx context.Context, id int64) (*models.Student, error) {
	return &models.Student{ID: id}, nil
}

func (s *studentServiceStub) Me(ctx context.Context, sess service.Session) (*models.Student, error) {
	return &models.Student{ID: sess.StudentID}, nil
}

func (s *studentServiceStub) Create(ctx context.Context, sess service.Session, req dto.CreateStudentRequest) (*models.Student, error) {
	return &models.Student{ID: 5, Matricula: req.Matricula}, nil
}

func TestStudentHandlerListPassesFilters(t *testing.T) {
	svc := &studentServiceStub{}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/api/alunos?search=maria&role=student&page=2&limit=10", nil)
	asTeacher(c)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StudentFilter{Search: "maria", Role: models.RoleStudent, Page: 2, PageSize: 10}, svc.filter)
	assert.Equal(t, 2, decode(t, w).Pagination.Page)
}

func TestStudentHandlerMe(t *testing.T) {
	h := NewStudentHandler(&studentServiceStub{})
	c, w := newGinContext(http.MethodGet, "/api/alunos/me", nil)
	asStudent(c, 42)
	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
}
