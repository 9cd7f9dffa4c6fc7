package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ieti-edutrack/apiserver/internal/services"
	"github.com/ieti-edutrack/apiserver/types"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	accountService *services.AccountService
}

// NewAdminHandler constructs an AdminHandler with the provided dependencies.
func NewAdminHandler(accountService *services.AccountService) *AdminHandler {
	return &AdminHandler{accountService: accountService}
}

// AdminRouter registers admin routes on the given router.
func AdminRouter(r chi.Router, accountService *services.AccountService) {
	handler := NewAdminHandler(accountService)

	r.Get("/teachers", handler.ListTeachers)
	r.Get("/students", handler.ListStudents)
	r.Get("/activities", handler.ListActivities)
	r.Post("/teacher-status", handler.SetTeacherStatus)
	r.Post("/register-user", handler.CreateUser)
	r.Post("/update-user", handler.UpdateUser)
	r.Post("/delete-user", handler.DeleteUser)
}

func (h *AdminHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.accountService.ListTeachers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TeacherListResponse{Success: true, Teachers: teachers})
}

func (h *AdminHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.accountService.ListStudents(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StudentListResponse{Success: true, Students: students})
}

func (h *AdminHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ActivityListResponse{
		Success:    true,
		Activities: h.accountService.ListActivities(),
	})
}

func (h *AdminHandler) SetTeacherStatus(w http.ResponseWriter, r *http.Request) {
	var req TeacherStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request parameters.")
		return
	}

	id, _ := req.TeacherID.Int64()
	result, err := h.accountService.SetTeacherStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: result.Updated, Message: result.Message})
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	message, err := h.accountService.CreateAccount(r.Context(), services.CreateAccountInput{
		Role:      req.Role,
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		Course:    req.Course,
		YearLevel: req.YearLevel.String(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, message)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	id, _ := req.ID.Int64()
	message, err := h.accountService.UpdateAccount(r.Context(), services.UpdateAccountInput{
		ID:       id,
		Role:     req.Role,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Meta1:    req.Meta1.String(),
		Meta2:    req.Meta2.String(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, message)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req DeleteUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	id, _ := req.ID.Int64()
	message, err := h.accountService.DeleteAccount(r.Context(), id, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, message)
}

type TeacherStatusRequest struct {
	TeacherID types.FlexString `json:"teacherId"`
	Status    string           `json:"status"`
}

type CreateUserRequest struct {
	Role      string           `json:"role"`
	FullName  string           `json:"full_name"`
	Email     string           `json:"email"`
	Password  string           `json:"password"`
	Course    string           `json:"course"`
	YearLevel types.FlexString `json:"year_level"`
}

// UpdateUserRequest carries course in meta1 and year level in meta2 for
// students.
type UpdateUserRequest struct {
	ID       types.FlexString `json:"id"`
	Role     string           `json:"role"`
	FullName string           `json:"full_name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Meta1    types.FlexString `json:"meta1"`
	Meta2    types.FlexString `json:"meta2"`
}

type DeleteUserRequest struct {
	ID   types.FlexString `json:"id"`
	Role string           `json:"role"`
}

type TeacherListResponse struct {
	Success  bool            `json:"success"`
	Teachers []types.Teacher `json:"teachers"`
}

type StudentListResponse struct {
	Success  bool            `json:"success"`
	Students []types.Student `json:"students"`
}

type ActivityListResponse struct {
	Success    bool             `json:"success"`
	Activities []types.Activity `json:"activities"`
}
