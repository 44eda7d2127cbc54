package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	pkgerrors "planeador/backend/pkg/errors"
	"planeador/backend/pkg/jwt"
	"planeador/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerErr   error
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	refreshGot    string
	logoutErr     error
	logoutClaims  *jwt.Claims
	logoutRefresh string
	meResult      *dto.UserResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.refreshGot = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims, refresh string) error {
	m.logoutClaims = claims
	m.logoutRefresh = refresh
	return m.logoutErr
}
func (m *mockAuthService) IsTokenRevoked(_ context.Context, _ string) (bool, error) {
	return false, nil
}
func (m *mockAuthService) Me(_ context.Context, _ uint) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ uint, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}
func (m *mockAuthService) OAuthLogin(_ context.Context, _ *service.OAuthProfile) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) EnsureAdmin(_ context.Context) error { return nil }

// ── Mock SubjectService ──

type mockSubjectService struct {
	createResult *dto.SubjectResponse
	createErr    error
	listResult   []dto.SubjectResponse
	listErr      error
	detail       *dto.SubjectDetailResponse
	detailErr    error
	deleteResult *dto.DeleteSubjectResponse
	deleteErr    error
	gotID        uint
	gotUserID    uint
}

func (m *mockSubjectService) Create(_ context.Context, userID uint, _ *dto.SubjectNameRequest) (*dto.SubjectResponse, error) {
	m.gotUserID = userID
	return m.createResult, m.createErr
}
func (m *mockSubjectService) List(_ context.Context, userID uint) ([]dto.SubjectResponse, error) {
	m.gotUserID = userID
	return m.listResult, m.listErr
}
func (m *mockSubjectService) GetDetails(_ context.Context, id, userID uint) (*dto.SubjectDetailResponse, error) {
	m.gotID, m.gotUserID = id, userID
	return m.detail, m.detailErr
}
func (m *mockSubjectService) Rename(_ context.Context, id, userID uint, _ *dto.SubjectNameRequest) (*dto.SubjectResponse, error) {
	m.gotID, m.gotUserID = id, userID
	return m.createResult, m.createErr
}
func (m *mockSubjectService) Delete(_ context.Context, id, userID uint) (*dto.DeleteSubjectResponse, error) {
	m.gotID, m.gotUserID = id, userID
	return m.deleteResult, m.deleteErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportSubject(_ context.Context, _, _ uint) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock ExamService ──

type mockExamService struct {
	result    *dto.ExamResponse
	err       error
	gotUpdate *dto.UpdateExamRequest
}

func (m *mockExamService) Create(_ context.Context, _, _ uint, _ *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	return m.result, m.err
}
func (m *mockExamService) Update(_ context.Context, _, _ uint, req *dto.UpdateExamRequest) (*dto.ExamResponse, error) {
	m.gotUpdate = req
	return m.result, m.err
}
func (m *mockExamService) Delete(_ context.Context, _, _ uint) error { return m.err }

// ── Mock TaskService ──

type mockTaskService struct {
	err          error
	gotCompleted *bool
}

func (m *mockTaskService) Create(_ context.Context, _, _ uint, _ *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	return &dto.TaskResponse{ID: 1}, m.err
}
func (m *mockTaskService) UpdateDescription(_ context.Context, _, _ uint, _ *dto.UpdateTaskRequest) error {
	return m.err
}
func (m *mockTaskService) SetCompleted(_ context.Context, _, _ uint, completed bool) error {
	m.gotCompleted = &completed
	return m.err
}
func (m *mockTaskService) Delete(_ context.Context, _, _ uint) error { return m.err }

// ── Mock ScheduleService ──

type mockScheduleService struct {
	schedule dto.ScheduleResponse
	deleted  bool
	err      error
	gotSlot  *dto.DeleteSlotRequest
}

func (m *mockScheduleService) LoadSchedule(_ context.Context, _ uint) (dto.ScheduleResponse, error) {
	return m.schedule, m.err
}
func (m *mockScheduleService) SaveSlot(_ context.Context, _ uint, _ *dto.SaveSlotRequest) error {
	return m.err
}
func (m *mockScheduleService) DeleteSlot(_ context.Context, _ uint, req *dto.DeleteSlotRequest) (bool, error) {
	m.gotSlot = req
	return m.deleted, m.err
}

// ── Mock PomodoroService ──

type mockPomodoroService struct {
	err error
}

func (m *mockPomodoroService) List(_ context.Context, _ uint) ([]dto.PresetResponse, error) {
	return nil, m.err
}
func (m *mockPomodoroService) Create(_ context.Context, _ uint, req *dto.PresetRequest) (*dto.PresetResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.PresetResponse{ID: 1, Slot: 1, Name: req.Name}, nil
}
func (m *mockPomodoroService) Update(_ context.Context, _, _ uint, _ *dto.PresetRequest) (*dto.PresetResponse, error) {
	return nil, m.err
}
func (m *mockPomodoroService) Delete(_ context.Context, _, _ uint) error { return m.err }

// ── Mock ReminderService / CalendarService ──

type mockReminderService struct {
	gotList *dto.ReminderListRequest
	err     error
}

func (m *mockReminderService) List(_ context.Context, _ uint, req *dto.ReminderListRequest) ([]dto.ReminderResponse, error) {
	m.gotList = req
	return []dto.ReminderResponse{}, m.err
}
func (m *mockReminderService) Create(_ context.Context, _ uint, _ *dto.ReminderRequest) (*dto.ReminderResponse, error) {
	return &dto.ReminderResponse{ID: 1}, m.err
}
func (m *mockReminderService) Update(_ context.Context, _, _ uint, _ *dto.ReminderRequest) (*dto.ReminderResponse, error) {
	return nil, m.err
}
func (m *mockReminderService) Delete(_ context.Context, _, _ uint) error { return m.err }

type mockCalendarService struct {
	gotFile string
	gotURL  string
	err     error
}

func (m *mockCalendarService) ImportICS(_ context.Context, _ uint, r io.Reader) (*dto.ImportResultResponse, error) {
	b, _ := io.ReadAll(r)
	m.gotFile = string(b)
	return &dto.ImportResultResponse{Imported: 1}, m.err
}
func (m *mockCalendarService) ImportURL(_ context.Context, _ uint, rawURL string) (*dto.ImportResultResponse, error) {
	m.gotURL = rawURL
	return &dto.ImportResultResponse{Imported: 2}, m.err
}
func (m *mockCalendarService) ExportICS(_ context.Context, _ uint) (string, error) {
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", m.err
}

// ── Mock UserService ──

type mockUserService struct {
	listResult []dto.UserResponse
	listTotal  int64
	err        error
	gotTarget  uint
}

func (m *mockUserService) UpdateProfile(_ context.Context, _ uint, _ *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{}, m.err
}
func (m *mockUserService) UpdatePhoto(_ context.Context, _ uint, _ string, _ io.Reader) (*dto.PhotoResponse, error) {
	return &dto.PhotoResponse{PhotoURL: "/uploads/x.png"}, m.err
}
func (m *mockUserService) List(_ context.Context, _ uint, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	return m.listResult, m.listTotal, m.err
}
func (m *mockUserService) Delete(_ context.Context, _, targetID uint) error {
	m.gotTarget = targetID
	return m.err
}
func (m *mockUserService) ToggleAdmin(_ context.Context, _, targetID uint) (*dto.AdminToggleResponse, error) {
	m.gotTarget = targetID
	return &dto.AdminToggleResponse{ID: targetID, IsAdmin: true}, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

const testUserID uint = 7

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	c.Set("user_id", testUserID)
	c.Set("is_admin", false)
	claims := &jwt.Claims{UserID: testUserID, TokenType: jwt.TokenTypeAccess}
	claims.ID = "test-jti"
	c.Set("claims", claims)
}

// authed 包装 handler，先注入认证信息
func authed(fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c)
		fn(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "Test1234",
	}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	// 验证 Set-Cookie 头
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			found = true
			if c.Value != "test-refresh-token" {
				t.Errorf("expected cookie value test-refresh-token, got %s", c.Value)
			}
			if !c.HttpOnly {
				t.Error("expected refresh_token cookie to be HttpOnly")
			}
		}
	}
	if !found {
		t.Error("expected refresh_token cookie to be set")
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_EmailExists(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrEmailExists}, nil)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	w := serve(r, "POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "Test1234",
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_FromBody(t *testing.T) {
	mock := &mockAuthService{refreshResult: &dto.TokenResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}}
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "old-refresh"}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.refreshGot != "old-refresh" {
		t.Errorf("expected token old-refresh, got %q", mock.refreshGot)
	}
}

func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	mock := &mockAuthService{refreshResult: &dto.TokenResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}}
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.refreshGot != "cookie-refresh" {
		t.Errorf("expected token from cookie, got %q", mock.refreshGot)
	}
}

func TestAuthHandler_RefreshToken_Missing(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrTokenRevoked}, nil)

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "reused"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrWrongPassword}, nil)

	r := gin.New()
	r.PUT("/auth/password", authed(h.ChangePassword))
	w := serve(r, "PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "NewPass123",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11005 {
		t.Errorf("expected error code 11005, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/logout", authed(h.Logout))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutClaims == nil || mock.logoutClaims.ID != "test-jti" {
		t.Error("expected access claims to be passed to Logout")
	}
	if mock.logoutRefresh != "cookie-refresh" {
		t.Errorf("expected refresh token from cookie, got %q", mock.logoutRefresh)
	}
	// 验证 Cookie 被清除（max-age = -1）
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" && c.MaxAge >= 0 {
			t.Error("expected refresh_token cookie to be cleared")
		}
	}
}

// ═══════════════════════════════════════════════════════════
// SubjectHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSubjectHandler_Create_Success(t *testing.T) {
	mock := &mockSubjectService{createResult: &dto.SubjectResponse{ID: 1, Name: "Matemáticas"}}
	h := NewSubjectHandler(mock, &mockExportService{})

	r := gin.New()
	r.POST("/subjects", authed(h.Create))
	w := serve(r, "POST", "/subjects", jsonBody(dto.SubjectNameRequest{Name: "Matemáticas"}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.gotUserID != testUserID {
		t.Errorf("expected user id %d, got %d", testUserID, mock.gotUserID)
	}
}

func TestSubjectHandler_Create_Duplicate(t *testing.T) {
	h := NewSubjectHandler(&mockSubjectService{createErr: service.ErrSubjectExists}, &mockExportService{})

	r := gin.New()
	r.POST("/subjects", authed(h.Create))
	w := serve(r, "POST", "/subjects", jsonBody(dto.SubjectNameRequest{Name: "Historia"}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13002 {
		t.Errorf("expected error code 13002, got %d", resp.Code)
	}
}

func TestSubjectHandler_Get_InvalidID(t *testing.T) {
	h := NewSubjectHandler(&mockSubjectService{}, &mockExportService{})

	r := gin.New()
	r.GET("/subjects/:id", authed(h.Get))
	w := serve(r, "GET", "/subjects/abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSubjectHandler_Get_PassesIDs(t *testing.T) {
	mock := &mockSubjectService{detail: &dto.SubjectDetailResponse{}}
	h := NewSubjectHandler(mock, &mockExportService{})

	r := gin.New()
	r.GET("/subjects/:id", authed(h.Get))
	w := serve(r, "GET", "/subjects/42", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.gotID != 42 || mock.gotUserID != testUserID {
		t.Errorf("expected (42, %d), got (%d, %d)", testUserID, mock.gotID, mock.gotUserID)
	}
}

func TestSubjectHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", service.ErrSubjectNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"store unavailable", fmt.Errorf("list: %w", pkgerrors.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSubjectHandler(&mockSubjectService{deleteErr: tt.err}, &mockExportService{})

			r := gin.New()
			r.DELETE("/subjects/:id", authed(h.Delete))
			w := serve(r, "DELETE", "/subjects/1", nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestSubjectHandler_Delete_ReturnsCounts(t *testing.T) {
	mock := &mockSubjectService{deleteResult: &dto.DeleteSubjectResponse{Tasks: 2, Exams: 1, Notes: 3}}
	h := NewSubjectHandler(mock, &mockExportService{})

	r := gin.New()
	r.DELETE("/subjects/:id", authed(h.Delete))
	w := serve(r, "DELETE", "/subjects/5", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data dto.DeleteSubjectResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Tasks != 2 || body.Data.Exams != 1 || body.Data.Notes != 3 {
		t.Errorf("unexpected counts: %+v", body.Data)
	}
}

func TestSubjectHandler_Export_Success(t *testing.T) {
	exp := &mockExportService{buf: bytes.NewBufferString("excel content"), filename: "materia_Física.xlsx"}
	h := NewSubjectHandler(&mockSubjectService{}, exp)

	r := gin.New()
	r.GET("/subjects/:id/export", authed(h.Export))
	w := serve(r, "GET", "/subjects/1/export", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "filename*=UTF-8''") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
}

func TestSubjectHandler_Export_NotFound(t *testing.T) {
	h := NewSubjectHandler(&mockSubjectService{}, &mockExportService{err: service.ErrSubjectNotFound})

	r := gin.New()
	r.GET("/subjects/:id/export", authed(h.Export))
	w := serve(r, "GET", "/subjects/1/export", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Task / Exam Handler Tests
// ═══════════════════════════════════════════════════════════

func TestTaskHandler_SetCompleted(t *testing.T) {
	mock := &mockTaskService{}
	h := NewTaskHandler(mock)

	r := gin.New()
	r.PUT("/tasks/:id/completed", authed(h.SetCompleted))
	w := serve(r, "PUT", "/tasks/3/completed", strings.NewReader(`{"completed": false}`))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.gotCompleted == nil || *mock.gotCompleted {
		t.Error("expected completed=false to be forwarded")
	}
}

func TestTaskHandler_SetCompleted_MissingField(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{})

	r := gin.New()
	r.PUT("/tasks/:id/completed", authed(h.SetCompleted))
	w := serve(r, "PUT", "/tasks/3/completed", strings.NewReader(`{}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTaskHandler_Update_NotFound(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{err: service.ErrTaskNotFound})

	r := gin.New()
	r.PUT("/tasks/:id", authed(h.Update))
	w := serve(r, "PUT", "/tasks/9", jsonBody(dto.UpdateTaskRequest{Description: "x"}))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExamHandler_Update_SparseFields(t *testing.T) {
	mock := &mockExamService{result: &dto.ExamResponse{ID: 1}}
	h := NewExamHandler(mock)

	r := gin.New()
	r.PATCH("/exams/:id", authed(h.Update))
	w := serve(r, "PATCH", "/exams/1", strings.NewReader(`{"grade": null}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	req := mock.gotUpdate
	if req == nil {
		t.Fatal("expected Update to be called")
	}
	if req.Topic.Set || req.ExamDate.Set {
		t.Error("absent fields must stay unset")
	}
	if !req.Grade.Set || !req.Grade.Null {
		t.Error("explicit null grade must be Set+Null")
	}
}

func TestExamHandler_Update_EmptyPatch(t *testing.T) {
	h := NewExamHandler(&mockExamService{err: service.ErrEmptyPatch})

	r := gin.New()
	r.PATCH("/exams/:id", authed(h.Update))
	w := serve(r, "PATCH", "/exams/1", strings.NewReader(`{}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13204 {
		t.Errorf("expected error code 13204, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Schedule / Pomodoro Handler Tests
// ═══════════════════════════════════════════════════════════

func TestScheduleHandler_Get(t *testing.T) {
	mock := &mockScheduleService{schedule: dto.ScheduleResponse{
		"Lunes": {{Time: "08:00", Subject: "Física"}},
	}}
	h := NewScheduleHandler(mock)

	r := gin.New()
	r.GET("/schedule", authed(h.Get))
	w := serve(r, "GET", "/schedule", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"Lunes"`) {
		t.Errorf("expected schedule grouped by day, got %s", w.Body.String())
	}
}

func TestScheduleHandler_DeleteSlot_Query(t *testing.T) {
	mock := &mockScheduleService{deleted: false}
	h := NewScheduleHandler(mock)

	r := gin.New()
	r.DELETE("/schedule/slots", authed(h.DeleteSlot))
	w := serve(r, "DELETE", "/schedule/slots?day=Martes&time=10:00", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.gotSlot == nil || mock.gotSlot.Day != "Martes" || mock.gotSlot.Time != "10:00" {
		t.Errorf("unexpected slot request: %+v", mock.gotSlot)
	}
	if !strings.Contains(w.Body.String(), `"deleted":false`) {
		t.Errorf("expected deleted=false, got %s", w.Body.String())
	}
}

func TestScheduleHandler_DeleteSlot_MissingQuery(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{})

	r := gin.New()
	r.DELETE("/schedule/slots", authed(h.DeleteSlot))
	w := serve(r, "DELETE", "/schedule/slots?day=Martes", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPomodoroHandler_Create_LimitReached(t *testing.T) {
	h := NewPomodoroHandler(&mockPomodoroService{err: service.ErrPresetLimitReached})

	r := gin.New()
	r.POST("/pomodoro/presets", authed(h.Create))
	w := serve(r, "POST", "/pomodoro/presets", jsonBody(dto.PresetRequest{Name: "Foco", Work: 25, Short: 5, Long: 15}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

func TestPomodoroHandler_Create_InvalidColor(t *testing.T) {
	h := NewPomodoroHandler(&mockPomodoroService{})

	r := gin.New()
	r.POST("/pomodoro/presets", authed(h.Create))
	w := serve(r, "POST", "/pomodoro/presets", jsonBody(dto.PresetRequest{
		Name: "Foco", Work: 25, Short: 5, Long: 15,
		Colors: dto.PresetColors{Work: "red"},
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReminderHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReminderHandler_List_MonthQuery(t *testing.T) {
	mock := &mockReminderService{}
	h := NewReminderHandler(mock, &mockCalendarService{})

	r := gin.New()
	r.GET("/reminders", authed(h.List))
	w := serve(r, "GET", "/reminders?month=2025-03", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.gotList == nil || mock.gotList.Month != "2025-03" {
		t.Errorf("unexpected list request: %+v", mock.gotList)
	}
}

func TestReminderHandler_List_BadMonth(t *testing.T) {
	h := NewReminderHandler(&mockReminderService{}, &mockCalendarService{})

	r := gin.New()
	r.GET("/reminders", authed(h.List))
	w := serve(r, "GET", "/reminders?month=2025-13", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReminderHandler_Import_File(t *testing.T) {
	cal := &mockCalendarService{}
	h := NewReminderHandler(&mockReminderService{}, cal)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "cal.ics")
	fw.Write([]byte("BEGIN:VCALENDAR"))
	mw.Close()

	r := gin.New()
	r.POST("/reminders/import", authed(h.Import))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reminders/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if cal.gotFile != "BEGIN:VCALENDAR" {
		t.Errorf("expected uploaded content to reach ImportICS, got %q", cal.gotFile)
	}
}

func TestReminderHandler_Import_URL(t *testing.T) {
	cal := &mockCalendarService{}
	h := NewReminderHandler(&mockReminderService{}, cal)

	r := gin.New()
	r.POST("/reminders/import", authed(h.Import))
	w := serve(r, "POST", "/reminders/import", strings.NewReader(`{"url": "https://example.com/cal.ics"}`))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if cal.gotURL != "https://example.com/cal.ics" {
		t.Errorf("expected url to reach ImportURL, got %q", cal.gotURL)
	}
}

func TestReminderHandler_Import_Nothing(t *testing.T) {
	h := NewReminderHandler(&mockReminderService{}, &mockCalendarService{})

	r := gin.New()
	r.POST("/reminders/import", authed(h.Import))
	w := serve(r, "POST", "/reminders/import", strings.NewReader(`{}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReminderHandler_Import_InvalidICS(t *testing.T) {
	cal := &mockCalendarService{err: fmt.Errorf("%w: missing BEGIN", service.ErrInvalidICS)}
	h := NewReminderHandler(&mockReminderService{}, cal)

	r := gin.New()
	r.POST("/reminders/import", authed(h.Import))
	w := serve(r, "POST", "/reminders/import", strings.NewReader(`{"url": "https://example.com/x.ics"}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 16101 {
		t.Errorf("expected error code 16101, got %d", resp.Code)
	}
}

func TestReminderHandler_Import_ErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"too large", service.ErrICSTooLarge, 16104},
		{"blocked address", service.ErrICSURLBlocked, 16105},
		{"bad scheme", service.ErrICSURLInvalid, 16102},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReminderHandler(&mockReminderService{}, &mockCalendarService{err: tt.err})

			r := gin.New()
			r.POST("/reminders/import", authed(h.Import))
			w := serve(r, "POST", "/reminders/import", strings.NewReader(`{"url": "http://10.0.0.1/cal.ics"}`))

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected error code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestReminderHandler_Export(t *testing.T) {
	h := NewReminderHandler(&mockReminderService{}, &mockCalendarService{})

	r := gin.New()
	r.GET("/reminders/export.ics", authed(h.Export))
	w := serve(r, "GET", "/reminders/export.ics", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type: %s", ct)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_ListUsers_Pagination(t *testing.T) {
	mock := &mockUserService{listResult: []dto.UserResponse{{ID: 1}}, listTotal: 21}
	h := NewUserHandler(mock)

	r := gin.New()
	r.GET("/admin/users", authed(h.ListUsers))
	w := serve(r, "GET", "/admin/users?page=2&page_size=10", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 || body.Data.Pagination.Page != 2 {
		t.Errorf("unexpected pagination: %+v", body.Data.Pagination)
	}
}

func TestUserHandler_ListUsers_NotAdmin(t *testing.T) {
	h := NewUserHandler(&mockUserService{err: service.ErrNoPermission})

	r := gin.New()
	r.GET("/admin/users", authed(h.ListUsers))
	w := serve(r, "GET", "/admin/users", nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestUserHandler_DeleteUser_Self(t *testing.T) {
	mock := &mockUserService{err: service.ErrUserSelfDelete}
	h := NewUserHandler(mock)

	r := gin.New()
	r.DELETE("/admin/users/:id", authed(h.DeleteUser))
	w := serve(r, "DELETE", fmt.Sprintf("/admin/users/%d", testUserID), nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.gotTarget != testUserID {
		t.Errorf("expected target %d, got %d", testUserID, mock.gotTarget)
	}
}

func TestUserHandler_UploadPhoto_MissingFile(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	r := gin.New()
	r.POST("/profile/photo", authed(h.UploadPhoto))
	w := serve(r, "POST", "/profile/photo", strings.NewReader(`{}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUserHandler_UploadPhoto_InvalidType(t *testing.T) {
	h := NewUserHandler(&mockUserService{err: service.ErrInvalidPhoto})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("photo", "doc.txt")
	fw.Write([]byte("plain text"))
	mw.Close()

	r := gin.New()
	r.POST("/profile/photo", authed(h.UploadPhoto))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/profile/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12004 {
		t.Errorf("expected error code 12004, got %d", resp.Code)
	}
}

func TestMustGetUserID_WrongType(t *testing.T) {
	_, c, w := setupGin()
	c.Set("user_id", "not-a-uint")

	if _, ok := MustGetUserID(c); ok {
		t.Error("expected ok=false for non-uint user_id")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
