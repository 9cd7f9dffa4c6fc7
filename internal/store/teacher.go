package store

import (
	"context"

	"github.com/ieti-edutrack/apiserver/types"
	"github.com/jmoiron/sqlx"
)

// TeacherRepository handles persistence for faculty accounts, including the
// admin row.
type TeacherRepository struct {
	db *sqlx.DB
}

func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) List(ctx context.Context) ([]types.Teacher, error) {
	const query = `
		SELECT id, full_name, email, status, created_at
		FROM teachers
		ORDER BY created_at DESC, id DESC`
	teachers := []types.Teacher{}
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (types.Account, error) {
	const query = `
		SELECT id, full_name, email, password, status, created_at
		FROM teachers
		WHERE id = ?`
	var teacher types.Teacher
	if err := r.db.GetContext(ctx, &teacher, r.db.Rebind(query), id); err != nil {
		return types.Account{}, translateError(err)
	}
	return teacherAccount(teacher), nil
}

func (r *TeacherRepository) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	const query = `
		SELECT id, full_name, email, password, status, created_at
		FROM teachers
		WHERE email = ?`
	var teacher types.Teacher
	if err := r.db.GetContext(ctx, &teacher, r.db.Rebind(query), email); err != nil {
		return types.Account{}, translateError(err)
	}
	return teacherAccount(teacher), nil
}

func (r *TeacherRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT COUNT(1) FROM teachers WHERE email = ?`
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), email); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a teacher row. Status must already be set by the caller.
func (r *TeacherRepository) Create(ctx context.Context, account types.Account) error {
	const query = `
		INSERT INTO teachers (full_name, email, password, status)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(query),
		account.FullName,
		account.Email,
		account.Password,
		string(account.Status),
	)
	return translateError(err)
}

// Update overwrites name and email. The password is replaced only when
// account.Password is non-empty.
func (r *TeacherRepository) Update(ctx context.Context, account types.Account) error {
	const query = `
		UPDATE teachers
		SET full_name = ?,
			email = ?,
			password = COALESCE(NULLIF(?, ''), password)
		WHERE id = ?`
	result, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(query),
		account.FullName,
		account.Email,
		account.Password,
		account.ID,
	)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

func (r *TeacherRepository) SetStatus(ctx context.Context, id int64, status types.TeacherStatus) error {
	const query = `UPDATE teachers SET status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), string(status), id)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(result)
}

// UpsertAdmin creates the admin row or refreshes its name, password and
// status when the email already exists.
func (r *TeacherRepository) UpsertAdmin(ctx context.Context, account types.Account) (created bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const existsQuery = `SELECT COUNT(1) FROM teachers WHERE email = ?`
	var count int
	if err = tx.GetContext(ctx, &count, tx.Rebind(existsQuery), account.Email); err != nil {
		return false, err
	}

	if count == 0 {
		const insertQuery = `
			INSERT INTO teachers (full_name, email, password, status)
			VALUES (?, ?, ?, ?)`
		_, err = tx.ExecContext(ctx, tx.Rebind(insertQuery),
			account.FullName, account.Email, account.Password, string(types.StatusActive))
	} else {
		const updateQuery = `
			UPDATE teachers
			SET full_name = ?, password = ?, status = ?
			WHERE email = ?`
		_, err = tx.ExecContext(ctx, tx.Rebind(updateQuery),
			account.FullName, account.Password, string(types.StatusActive), account.Email)
	}
	if err != nil {
		err = translateError(err)
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM teachers WHERE id = ?`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func teacherAccount(t types.Teacher) types.Account {
	return types.Account{
		ID:        t.ID,
		FullName:  t.FullName,
		Email:     t.Email,
		Password:  t.Password,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}
