package repositories

import (
	"database/sql"
	"errors"

	"carbooking/internal/db"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) q(x db.DBTX) db.DBTX {
	if x != nil {
		return x
	}
	return r.DB
}

const userColumns = `id, name, username, email, phone, password_hash, role, status, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r UserRepository) GetByID(x db.DBTX, id int64) (models.User, error) {
	u, err := scanUser(r.q(x).QueryRow(`SELECT `+userColumns+` FROM users WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

// GetByLogin accepts either the email or the username.
func (r UserRepository) GetByLogin(x db.DBTX, login string) (models.User, error) {
	u, err := scanUser(r.q(x).QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email=? OR username=?`, login, login))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) ExistsByEmailOrUsername(x db.DBTX, email, username string) (bool, error) {
	var n int
	err := r.q(x).QueryRow(
		`SELECT COUNT(*) FROM users WHERE email=? OR username=?`, email, username).Scan(&n)
	return n > 0, err
}

func (r UserRepository) Create(x db.DBTX, u models.User) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO users (name, username, email, phone, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Username, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
