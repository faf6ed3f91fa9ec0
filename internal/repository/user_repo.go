package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"stylesync/internal/db"
	apperrors "stylesync/internal/errors"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	CreateNewUser(ctx context.Context, u db.User, password string) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByEmail returns nil, nil when no user has that e-mail.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, phone, role, created_at
		FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) CreateNewUser(ctx context.Context, u db.User, password string) (*db.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.PasswordHash = string(hashedPassword)

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}
