package store

import (
	"context"
	"database/sql"

	"github.com/ieti-edutrack/apiserver/types"
	"github.com/jmoiron/sqlx"
)

// StudentRepository handles persistence for student accounts.
type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) List(ctx context.Context) ([]types.Student, error) {
	const query = `
		SELECT id, full_name, email, course, year_level, created_at
		FROM students
		ORDER BY created_at DESC, id DESC`
	students := []types.Student{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (types.Account, error) {
	const query = `
		SELECT id, full_name, email, password, course, year_level, created_at
		FROM students
		WHERE id = ?`
	var student types.Student
	if err := r.db.GetContext(ctx, &student, r.db.Rebind(query), id); err != nil {
		return types.Account{}, translateError(err)
	}
	return studentAccount(student), nil
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	const query = `
		SELECT id, full_name, email, password, course, year_level, created_at
		FROM students
		WHERE email = ?`
	var student types.Student
	if err := r.db.GetContext(ctx, &student, r.db.Rebind(query), email); err != nil {
		return types.Account{}, translateError(err)
	}
	return studentAccount(student), nil
}

func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT COUNT(1) FROM students WHERE email = ?`
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), email); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *StudentRepository) Create(ctx context.Context, account types.Account) error {
	const query = `
		INSERT INTO students (full_name, email, password, course, year_level)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(query),
		account.FullName,
		account.Email,
		account.Password,
		account.Course,
		account.YearLevel,
	)
	return translateError(err)
}

// Update overwrites name and email. Password, course and year level keep
// their stored values when the corresponding field is empty.
func (r *StudentRepository) Update(ctx context.Context, account types.Account) error {
	const query = `
		UPDATE students
		SET full_name = ?,
			email = ?,
			course = COALESCE(NULLIF(?, ''), course),
			year_level = COALESCE(NULLIF(?, ''), year_level),
			password = COALESCE(NULLIF(?, ''), password)
		WHERE id = ?`
	result, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(query),
		account.FullName,
		account.Email,
		account.Course,
		account.YearLevel,
		account.Password,
		account.ID,
	)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM students WHERE id = ?`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func studentAccount(s types.Student) types.Account {
	return types.Account{
		ID:        s.ID,
		FullName:  s.FullName,
		Email:     s.Email,
		Password:  s.Password,
		Course:    s.Course,
		YearLevel: s.YearLevel,
		CreatedAt: s.CreatedAt,
	}
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
