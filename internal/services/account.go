package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ieti-edutrack/apiserver/config"
	"github.com/ieti-edutrack/apiserver/internal/crypto"
	"github.com/ieti-edutrack/apiserver/internal/observability"
	"github.com/ieti-edutrack/apiserver/internal/store"
	"github.com/ieti-edutrack/apiserver/types"
	"github.com/rs/zerolog"
)

// AccountRepository defines the persistence operations shared by both
// account collections.
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (types.Account, error)
	GetByEmail(ctx context.Context, email string) (types.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account types.Account) error
	Update(ctx context.Context, account types.Account) error
	Delete(ctx context.Context, id int64) error
}

// TeacherRepository adds the faculty-only operations.
type TeacherRepository interface {
	AccountRepository
	List(ctx context.Context) ([]types.Teacher, error)
	SetStatus(ctx context.Context, id int64, status types.TeacherStatus) error
	UpsertAdmin(ctx context.Context, account types.Account) (bool, error)
}

// StudentRepository adds the student-only operations.
type StudentRepository interface {
	AccountRepository
	List(ctx context.Context) ([]types.Student, error)
}

// AccountService encapsulates registration, login and admin account
// management for teachers and students.
type AccountService struct {
	teachers   TeacherRepository
	students   StudentRepository
	repos      map[types.Collection]AccountRepository
	activities *ActivityService
	accounts   config.AccountsConfig
	validate   *validator.Validate
	logger     zerolog.Logger
}

func NewAccountService(
	teachers TeacherRepository,
	students StudentRepository,
	activities *ActivityService,
	accounts config.AccountsConfig,
	validate *validator.Validate,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		teachers: teachers,
		students: students,
		repos: map[types.Collection]AccountRepository{
			types.CollectionTeachers: teachers,
			types.CollectionStudents: students,
		},
		activities: activities,
		accounts:   accounts,
		validate:   validate,
		logger:     logger.With().Str("component", "account_service").Logger(),
	}
}

type RegisterTeacherInput struct {
	FullName string `validate:"required,max=255"`
	Email    string `validate:"required,max=255"`
	Password string `validate:"required"`
}

type RegisterStudentInput struct {
	FullName  string `validate:"required,max=255"`
	Email     string `validate:"required,max=255"`
	Password  string `validate:"required"`
	Course    string `validate:"required,max=255"`
	YearLevel string `validate:"required,max=32"`
}

type LoginInput struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
	Role       string `validate:"required"`
}

type LoginResult struct {
	FullName string
	Redirect string
	Role     types.Role
}

type StatusResult struct {
	Updated bool
	Message string
}

type CreateAccountInput struct {
	Role      string `validate:"required"`
	FullName  string `validate:"required,max=255"`
	Email     string `validate:"required,max=255"`
	Password  string `validate:"required"`
	Course    string `validate:"max=255"`
	YearLevel string `validate:"max=32"`
}

type UpdateAccountInput struct {
	ID       int64  `validate:"gt=0"`
	Role     string `validate:"required"`
	FullName string `validate:"required,max=255"`
	Email    string `validate:"required,max=255"`
	Password string
	Meta1    string `validate:"max=255"`
	Meta2    string `validate:"max=32"`
}

// RegisterTeacher self-registers a faculty account. New teachers wait in
// pending until an admin approves them.
func (s *AccountService) RegisterTeacher(ctx context.Context, input RegisterTeacherInput) (string, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalizeEmail(input.Email)
	if err := s.check(input, "All fields are required."); err != nil {
		return "", err
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return "", err
	}

	const failure = "Server failed to process registration."
	err := s.createAccount(ctx, s.teachers, types.Account{
		FullName: input.FullName,
		Email:    input.Email,
		Password: input.Password,
		Status:   types.StatusPending,
	}, failure)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("email", input.Email).Msg("teacher registered")
	s.activities.Record(ctx, fmt.Sprintf("New faculty registration: %s (%s) is awaiting approval.", input.FullName, input.Email))
	return "Registration received. Account pending admin approval.", nil
}

// RegisterStudent self-registers a student account. Students can log in
// immediately.
func (s *AccountService) RegisterStudent(ctx context.Context, input RegisterStudentInput) (string, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalizeEmail(input.Email)
	input.Course = strings.TrimSpace(input.Course)
	input.YearLevel = strings.TrimSpace(input.YearLevel)
	if err := s.check(input, "Missing required fields (Name, Email, Password, Course, Year)."); err != nil {
		return "", err
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return "", err
	}

	const failure = "Server failed to process registration."
	err := s.createAccount(ctx, s.students, types.Account{
		FullName:  input.FullName,
		Email:     input.Email,
		Password:  input.Password,
		Course:    input.Course,
		YearLevel: input.YearLevel,
	}, failure)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("email", input.Email).Msg("student registered")
	s.activities.Record(ctx, fmt.Sprintf("New student registration: %s (%s).", input.FullName, input.Email))
	return "Registration successful. You may now log in.", nil
}

// Login checks credentials against the collection selected by role and
// returns where the client should go next. No session is issued.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	input.Identifier = normalizeEmail(input.Identifier)
	if err := s.check(input, "Missing credentials."); err != nil {
		return LoginResult{}, err
	}
	role, ok := types.ParseRole(input.Role)
	if !ok {
		return LoginResult{}, validationError("Invalid user role specified.")
	}

	outcome := "success"
	defer func() {
		observability.LoginAttempts().WithLabelValues(string(role), outcome).Inc()
	}()

	account, err := s.repos[role.Collection()].GetByEmail(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = crypto.CheckMissing(input.Password)
			outcome = "invalid_credentials"
			return LoginResult{}, authError("Invalid credentials.")
		}
		outcome = "error"
		return LoginResult{}, s.storeFailure(err, "Server failed during login process.")
	}

	if err := crypto.CheckPassword(account.Password, input.Password); err != nil {
		outcome = "invalid_credentials"
		return LoginResult{}, authError("Invalid credentials.")
	}

	if role.Collection() == types.CollectionTeachers && account.Status == types.StatusPending {
		outcome = "pending"
		return LoginResult{}, forbiddenError("Account pending admin approval.")
	}

	return LoginResult{
		FullName: account.FullName,
		Redirect: s.redirectFor(role, account),
		Role:     role,
	}, nil
}

func (s *AccountService) ListTeachers(ctx context.Context) ([]types.Teacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, s.storeFailure(err, "Failed to retrieve teacher list.")
	}
	return teachers, nil
}

func (s *AccountService) ListStudents(ctx context.Context) ([]types.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, s.storeFailure(err, "Failed to retrieve student list.")
	}
	return students, nil
}

// SetTeacherStatus approves, denies or toggles a faculty account. A missing
// teacher is reported through StatusResult rather than as an error.
func (s *AccountService) SetTeacherStatus(ctx context.Context, id int64, status string) (StatusResult, error) {
	next := types.TeacherStatus(strings.ToLower(strings.TrimSpace(status)))
	if id < 1 || (next != types.StatusActive && next != types.StatusInactive) {
		return StatusResult{}, validationError("Invalid request parameters.")
	}

	const failure = "Failed to update teacher status."
	notFound := StatusResult{Message: fmt.Sprintf("Teacher ID %d not found.", id)}

	current, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound, nil
		}
		return StatusResult{}, s.storeFailure(err, failure)
	}

	if err := s.teachers.SetStatus(ctx, id, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound, nil
		}
		return StatusResult{}, s.storeFailure(err, failure)
	}

	var description string
	switch {
	case next == types.StatusActive:
		description = fmt.Sprintf("Approved faculty account: %s (%s).", current.FullName, current.Email)
	case current.Status == types.StatusPending:
		description = fmt.Sprintf("Denied faculty registration: %s (%s).", current.FullName, current.Email)
	default:
		description = fmt.Sprintf("Deactivated faculty account: %s (%s).", current.FullName, current.Email)
	}
	s.logger.Info().Int64("teacher_id", id).Str("status", string(next)).Msg("teacher status updated")
	s.activities.Record(ctx, description)

	return StatusResult{
		Updated: true,
		Message: fmt.Sprintf("Teacher ID %d status updated to %s.", id, next),
	}, nil
}

// CreateAccount lets an admin add any kind of account. Faculty and admin
// accounts created this way are active immediately.
func (s *AccountService) CreateAccount(ctx context.Context, input CreateAccountInput) (string, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalizeEmail(input.Email)
	input.Course = strings.TrimSpace(input.Course)
	input.YearLevel = strings.TrimSpace(input.YearLevel)
	if err := s.check(input, "Missing required fields (role, name, email, password)."); err != nil {
		return "", err
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return "", err
	}
	role, ok := types.ParseRole(input.Role)
	if !ok {
		return "", validationError("Invalid user role specified.")
	}

	account := types.Account{
		FullName: input.FullName,
		Email:    input.Email,
		Password: input.Password,
	}
	if role == types.RoleStudent {
		if input.Course == "" || input.YearLevel == "" {
			return "", validationError("Course and year level are required for students.")
		}
		account.Course = input.Course
		account.YearLevel = input.YearLevel
	} else {
		account.Status = types.StatusActive
	}

	if err := s.createAccount(ctx, s.repos[role.Collection()], account, "Server failed to create account."); err != nil {
		return "", err
	}

	s.logger.Info().Str("role", string(role)).Str("email", input.Email).Msg("account created by admin")
	s.activities.Record(ctx, fmt.Sprintf("Admin created %s account: %s (%s).", role.Tag(), input.FullName, input.Email))
	return fmt.Sprintf("%s account created successfully.", roleLabel(role)), nil
}

// UpdateAccount edits name and email, plus course and year level for
// students. A non-empty password replaces the stored one.
func (s *AccountService) UpdateAccount(ctx context.Context, input UpdateAccountInput) (string, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalizeEmail(input.Email)
	input.Meta1 = strings.TrimSpace(input.Meta1)
	input.Meta2 = strings.TrimSpace(input.Meta2)
	if err := s.check(input, "Missing required user fields (ID, role, name, or email)."); err != nil {
		return "", err
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return "", err
	}
	role, ok := types.ParseRole(input.Role)
	if !ok {
		return "", validationError("Invalid user role specified.")
	}

	const failure = "Server failed to update user."
	account := types.Account{
		ID:       input.ID,
		FullName: input.FullName,
		Email:    input.Email,
	}
	if input.Password != "" {
		hashed, err := crypto.HashPassword(input.Password)
		if err != nil {
			return "", s.storeFailure(err, failure)
		}
		account.Password = hashed
	}
	if role == types.RoleStudent {
		account.Course = input.Meta1
		account.YearLevel = input.Meta2
	}

	if err := s.repos[role.Collection()].Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return "", notFoundError(fmt.Sprintf("%s with ID %d not found.", roleLabel(role), input.ID))
		case errors.Is(err, store.ErrDuplicate):
			return "", conflictError("Update failed: That email is already in use by another account.")
		default:
			return "", s.storeFailure(err, failure)
		}
	}

	s.logger.Info().Str("role", string(role)).Int64("id", input.ID).Msg("account updated")
	s.activities.Record(ctx, fmt.Sprintf("Updated %s account: %s (%s).", role, input.FullName, input.Email))
	return fmt.Sprintf("%s account updated successfully.", roleLabel(role)), nil
}

// DeleteAccount removes a teacher or student. The admin account is never
// removable.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64, rawRole string) (string, error) {
	if strings.TrimSpace(rawRole) == "" {
		return "", validationError("Missing required fields (ID or role).")
	}
	role, ok := types.ParseRole(rawRole)
	if !ok {
		return "", validationError("Invalid user role specified.")
	}
	if role == types.RoleAdmin {
		return "", forbiddenError("The admin account cannot be deleted.")
	}
	if id < 1 {
		return "", validationError("Missing required fields (ID or role).")
	}

	const failure = "Server failed to delete user."
	notFound := notFoundError(fmt.Sprintf("%s with ID %d not found.", roleLabel(role), id))
	repo := s.repos[role.Collection()]

	account, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", notFound
		}
		return "", s.storeFailure(err, failure)
	}
	if role.Collection() == types.CollectionTeachers && s.isAdminEmail(account.Email) {
		return "", forbiddenError("The admin account cannot be deleted.")
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", notFound
		}
		return "", s.storeFailure(err, failure)
	}

	s.logger.Info().Str("role", string(role)).Int64("id", id).Msg("account deleted")
	s.activities.Record(ctx, fmt.Sprintf("Deleted %s account: %s (%s).", role, account.FullName, account.Email))
	return fmt.Sprintf("%s account deleted successfully.", roleLabel(role)), nil
}

// ListActivities returns the recent activity feed, most recent first.
func (s *AccountService) ListActivities() []types.Activity {
	return s.activities.List()
}

// EnsureAdmin creates or refreshes the admin teacher row. It reports
// whether a new row was inserted.
func (s *AccountService) EnsureAdmin(ctx context.Context, fullName, password string) (bool, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" || password == "" {
		return false, validationError("Admin name and password are required.")
	}
	if err := checkPasswordLength(password); err != nil {
		return false, err
	}
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return false, err
	}
	created, err := s.teachers.UpsertAdmin(ctx, types.Account{
		FullName: fullName,
		Email:    s.accounts.AdminEmail,
		Password: hashed,
	})
	if err != nil {
		return false, s.storeFailure(err, "Failed to provision admin account.")
	}
	return created, nil
}

func (s *AccountService) createAccount(ctx context.Context, repo AccountRepository, account types.Account, failure string) error {
	exists, err := repo.EmailExists(ctx, account.Email)
	if err != nil {
		return s.storeFailure(err, failure)
	}
	if exists {
		return conflictError("This email is already registered.")
	}

	hashed, err := crypto.HashPassword(account.Password)
	if err != nil {
		return s.storeFailure(err, failure)
	}
	account.Password = hashed

	if err := repo.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return conflictError("This email is already registered.")
		}
		return s.storeFailure(err, failure)
	}
	return nil
}

func (s *AccountService) redirectFor(role types.Role, account types.Account) string {
	if role.Collection() == types.CollectionStudents {
		return s.accounts.StudentRedirect
	}
	if s.isAdminEmail(account.Email) {
		return s.accounts.AdminRedirect
	}
	return s.accounts.TeacherRedirect
}

func (s *AccountService) isAdminEmail(email string) bool {
	return s.accounts.AdminEmail != "" && strings.EqualFold(email, s.accounts.AdminEmail)
}

// check runs struct validation. Missing fields produce missingMessage.
func (s *AccountService) check(input any, missingMessage string) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			if fieldErr.Tag() == "max" {
				return validationError(fmt.Sprintf("%s must be at most %s characters.", fieldErr.Field(), fieldErr.Param()))
			}
		}
	}
	return validationError(missingMessage)
}

// checkPasswordLength enforces the bcrypt limit, which counts bytes rather
// than characters.
func checkPasswordLength(password string) error {
	if len(password) > crypto.MaxPasswordBytes {
		return validationError(fmt.Sprintf("Password must be at most %d bytes.", crypto.MaxPasswordBytes))
	}
	return nil
}

func (s *AccountService) storeFailure(err error, message string) error {
	s.logger.Error().Err(err).Msg(message)
	return &Error{Kind: ErrStore, Message: message, Err: err}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func roleLabel(role types.Role) string {
	switch role {
	case types.RoleAdmin:
		return "Admin"
	case types.RoleStudent:
		return "Student"
	default:
		return "Teacher"
	}
}
