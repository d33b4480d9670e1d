package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "resort/internal/config"
	intdb "resort/internal/db"
	"resort/internal/domain"
	"resort/internal/domain/models"
)

const userColumns = `id, first_name, last_name, email, mobile, province, city, barangay,
	COALESCE(street, ''), password_hash, COALESCE(profile_picture, ''), role, created_at, updated_at`

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u         models.User
		role      string
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	if err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Mobile,
		&u.Province,
		&u.City,
		&u.Barangay,
		&u.Street,
		&u.PasswordHash,
		&u.ProfilePicture,
		&role,
		&createdAt,
		&updatedAt,
	); err != nil {
		return models.User{}, err
	}
	u.Role = domain.ParseRole(role)
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return u, nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	u, err := scanUser(r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`,
		strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

// EmailTaken checks uniqueness, ignoring exceptID (0 to check everyone).
func (r UserRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email=? AND id<>?`,
		strings.TrimSpace(email), exceptID).Scan(&n)
	return n > 0, err
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (first_name, last_name, email, mobile, province, city, barangay, street,
			password_hash, sec_question_1, sec_answer_1, sec_question_2, sec_answer_2, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`,
		u.FirstName, u.LastName, u.Email, u.Mobile, u.Province, u.City, u.Barangay, intdb.NullIfEmpty(u.Street),
		u.PasswordHash, u.SecQuestion1, u.SecAnswer1, u.SecQuestion2, u.SecAnswer2, string(u.Role),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) UpdateProfile(ctx context.Context, id int64, p models.ProfileUpdate) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE users SET first_name=?, last_name=?, email=?, mobile=?, province=?, city=?, barangay=?, street=?, updated_at=NOW()
		WHERE id=?
	`, p.FirstName, p.LastName, p.Email, p.Mobile, p.Province, p.City, p.Barangay, intdb.NullIfEmpty(p.Street), id)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return err
	}
	return nil
}

func (r UserRepository) UpdatePicture(ctx context.Context, id int64, url string) error {
	_, err := r.db().ExecContext(ctx, `UPDATE users SET profile_picture=?, updated_at=NOW() WHERE id=?`, url, id)
	return err
}

// FirstAdmin returns the admin account guests talk to.
func (r UserRepository) FirstAdmin(ctx context.Context) (models.User, error) {
	u, err := scanUser(r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE role='admin' ORDER BY id ASC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "admin", Err: err}
	}
	return u, err
}

func (r UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]models.User, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role=? ORDER BY id ASC`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}
