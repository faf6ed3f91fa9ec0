package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stylesync/internal/auth"
	"stylesync/internal/db"
	apperrors "stylesync/internal/errors"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	CreateNewUser(ctx context.Context, u db.User, password string) (*db.User, error)
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    int64
	Role      string
}

type AuthService struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users UserStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Register creates a customer account. Staff accounts are provisioned
// directly in the database.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*db.User, error) {
	if in.Email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("email and a password of at least 8 characters are required: %w", apperrors.ErrInvalidInput)
	}
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	return s.users.CreateNewUser(ctx, db.User{
		Email:    in.Email,
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     db.RoleCustomer,
	}, in.Password)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, exp, err := auth.IssueToken(s.secret, auth.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}, s.ttl, s.now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, UserID: user.ID, Role: user.Role}, nil
}
