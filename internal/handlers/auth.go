package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ieti-edutrack/apiserver/internal/services"
	"github.com/ieti-edutrack/apiserver/types"
)

// AuthHandler provides the public registration and login endpoints.
type AuthHandler struct {
	accountService *services.AccountService
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(accountService *services.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// AuthRouter registers registration and login routes on the given router.
func AuthRouter(r chi.Router, accountService *services.AccountService) {
	handler := NewAuthHandler(accountService)

	r.Post("/register/teacher", handler.RegisterTeacher)
	r.Post("/register/student", handler.RegisterStudent)
	r.Post("/login", handler.Login)
}

func (h *AuthHandler) RegisterTeacher(w http.ResponseWriter, r *http.Request) {
	var req RegisterTeacherRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	message, err := h.accountService.RegisterTeacher(r.Context(), services.RegisterTeacherInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, message)
}

func (h *AuthHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req RegisterStudentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = req.FullName
	}

	message, err := h.accountService.RegisterStudent(r.Context(), services.RegisterStudentInput{
		FullName:  name,
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

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.accountService.Login(r.Context(), services.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		Role:       req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Success:  true,
		Message:  "Login successful",
		FullName: result.FullName,
		Redirect: result.Redirect,
	})
}

type RegisterTeacherRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterStudentRequest uses "name" like the web form; "full_name" is
// accepted as a fallback.
type RegisterStudentRequest struct {
	Name      string           `json:"name"`
	FullName  string           `json:"full_name"`
	Email     string           `json:"email"`
	Password  string           `json:"password"`
	Course    string           `json:"course"`
	YearLevel types.FlexString `json:"year_level"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FullName string `json:"full_name"`
	Redirect string `json:"redirect"`
}
