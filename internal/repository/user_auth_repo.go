package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"clinicare/internal/db"
)

var ErrDuplicateUser = errors.New("username or email already registered")

type UserAuthRepository interface {
	GetByEmail(email string) (*db.User, error)
	CreateUser(username, email, password, phone string) (*db.User, error)
}

type userAuthRepository struct {
	db *sql.DB
}

func NewUserAuthRepository(database *sql.DB) UserAuthRepository {
	return &userAuthRepository{db: database}
}

func (r *userAuthRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(`
		SELECT id, username, email, password_hash, COALESCE(phone, ''), created_at
		FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userAuthRepository) CreateUser(username, email, password, phone string) (*db.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &db.User{Username: username, Email: email, PasswordHash: string(hashedPassword), Phone: phone}
	err = r.db.QueryRow(`
		INSERT INTO users (username, email, password_hash, phone)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at`,
		username, email, u.PasswordHash, phone,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}
