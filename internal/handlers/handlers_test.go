package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ieti-edutrack/apiserver/config"
	"github.com/ieti-edutrack/apiserver/internal/activity"
	"github.com/ieti-edutrack/apiserver/internal/db/dbtest"
	"github.com/ieti-edutrack/apiserver/internal/services"
	"github.com/ieti-edutrack/apiserver/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *store.TeacherRepository) {
	t.Helper()

	conn := dbtest.Open(t)
	teachers := store.NewTeacherRepository(conn)
	svc := services.NewAccountService(
		teachers,
		store.NewStudentRepository(conn),
		services.NewActivityService(activity.NewLog(activity.DefaultCapacity), nil, zerolog.Nop()),
		config.AccountsConfig{
			AdminEmail:      "admin@ieti.edu.ph",
			AdminRedirect:   "/static/admin-dashboard.html",
			TeacherRedirect: "teacher/dashboard.html",
			StudentRedirect: "student/student-dashboard.html",
		},
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		AuthRouter(r, svc)
		r.Route("/admin", func(r chi.Router) {
			AdminRouter(r, svc)
		})
	})
	return router, teachers
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func TestRegisterStatusCodes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/register/teacher", map[string]string{"full_name": "B", "email": "b@x.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "All fields are required.", body["message"])

	rec, body = doJSON(t, router, http.MethodPost, "/api/register/teacher", map[string]string{"full_name": "B", "email": "b@x.com", "password": "q"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	rec, body = doJSON(t, router, http.MethodPost, "/api/register/teacher", map[string]string{"full_name": "B", "email": "b@x.com", "password": "q"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "This email is already registered.", body["message"])

	rec, _ = doJSON(t, router, http.MethodPost, "/api/register/student", map[string]any{
		"name": "A", "email": "a@x.com", "password": "p", "course": "CS", "year_level": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterRejectsPasswordOverByteLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/register/teacher", map[string]string{
		"full_name": "B", "email": "b@x.com", "password": strings.Repeat("é", 40),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Password must be at most 72 bytes.", body["message"])
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/register/student", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginStatusCodes(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/register/teacher", map[string]string{"full_name": "B", "email": "b@x.com", "password": "q"})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/login", map[string]string{"identifier": "b@x.com", "password": "q"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/login", map[string]string{"identifier": "b@x.com", "password": "bad", "role": "teacher"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := doJSON(t, router, http.MethodPost, "/api/login", map[string]string{"identifier": "b@x.com", "password": "q", "role": "teacher"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Account pending admin approval.", body["message"])
}

func TestAdminTeacherStatusEndpoint(t *testing.T) {
	router, teachers := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/register/teacher", map[string]string{"full_name": "B", "email": "b@x.com", "password": "q"})
	account, err := teachers.GetByEmail(t.Context(), "b@x.com")
	require.NoError(t, err)

	rec, body := doJSON(t, router, http.MethodPost, "/api/admin/teacher-status", map[string]any{"teacherId": account.ID, "status": "pending"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid request parameters.", body["message"])

	rec, body = doJSON(t, router, http.MethodPost, "/api/admin/teacher-status", map[string]any{"teacherId": "999", "status": "active"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, body["success"])

	rec, body = doJSON(t, router, http.MethodPost, "/api/admin/teacher-status", map[string]any{"teacherId": account.ID, "status": "active"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	rec, body = doJSON(t, router, http.MethodGet, "/api/admin/teachers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["teachers"].([]any)
	require.Len(t, list, 1)
	teacher := list[0].(map[string]any)
	require.Equal(t, "active", teacher["status"])
	require.NotContains(t, teacher, "password")
}

func TestAdminUserManagementEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/admin/register-user", map[string]any{
		"role": "student", "full_name": "S", "email": "s@x.com", "password": "pw", "course": "CS", "year_level": "3",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, router, http.MethodGet, "/api/admin/students", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	students := body["students"].([]any)
	require.Len(t, students, 1)
	student := students[0].(map[string]any)
	require.NotContains(t, student, "password")
	id := student["id"]

	rec, _ = doJSON(t, router, http.MethodPost, "/api/admin/update-user", map[string]any{
		"id": id, "role": "student", "full_name": "Sam", "email": "sam@x.com", "meta1": "IT", "meta2": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/admin/update-user", map[string]any{
		"id": 9999, "role": "student", "full_name": "Ghost", "email": "ghost@x.com",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/admin/delete-user", map[string]any{"id": id, "role": "admin"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/admin/delete-user", map[string]any{"id": id, "role": "student"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/admin/delete-user", map[string]any{"id": id, "role": "student"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = doJSON(t, router, http.MethodGet, "/api/admin/activities", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	activities := body["activities"].([]any)
	require.Len(t, activities, 3)
	latest := activities[0].(map[string]any)
	require.Equal(t, "Deleted student account: Sam (sam@x.com).", latest["description"])
	require.NotEmpty(t, latest["timestamp"])
}

func TestWriteServiceErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestWriteServiceErrorUsesStoreMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, &services.Error{
		Kind:    services.ErrStore,
		Message: "Failed to retrieve teacher list.",
		Err:     errors.New("Error 1146: Table 'teachers' doesn't exist"),
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Failed to retrieve teacher list.")
	require.NotContains(t, rec.Body.String(), "1146")
}

type failingPinger struct{ err error }

func (p failingPinger) PingContext(_ context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(failingPinger{})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Healthz(failingPinger{err: errors.New("down")})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
