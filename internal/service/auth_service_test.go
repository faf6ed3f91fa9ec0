package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stylesync/internal/auth"
	"stylesync/internal/db"
	apperrors "stylesync/internal/errors"
)

const testSecret = "0123456789abcdef0123"

func TestRegister_CreatesCustomer(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	users.On("CreateNewUser", mock.Anything, mock.MatchedBy(func(u db.User) bool {
		return u.Role == db.RoleCustomer && u.FullName == "New Customer" && u.Phone == "+15550001111"
	}), "long-enough").Return(&db.User{ID: 11, Email: "new@example.com", Role: db.RoleCustomer}, nil)

	s := NewAuthService(users, testSecret, time.Hour)
	u, err := s.Register(context.Background(), RegisterInput{
		Email: "new@example.com", Password: "long-enough", FullName: " New Customer ", Phone: "+15550001111",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), u.ID)
	users.AssertExpectations(t)
}

func TestRegister_Rejects(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetByEmail", mock.Anything, "taken@example.com").Return(&db.User{ID: 1}, nil)
	s := NewAuthService(users, testSecret, time.Hour)

	_, err := s.Register(context.Background(), RegisterInput{Email: "taken@example.com", Password: "long-enough"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	_, err = s.Register(context.Background(), RegisterInput{Email: "x@example.com", Password: "short"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	users.AssertNotCalled(t, "CreateNewUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(MockUserStore)
	users.On("GetByEmail", mock.Anything, "ana@salon.test").
		Return(&db.User{ID: 2, Email: "ana@salon.test", PasswordHash: string(hash), Role: db.RoleStaff}, nil)
	users.On("GetByEmail", mock.Anything, "ghost@salon.test").Return(nil, nil)

	s := NewAuthService(users, testSecret, time.Hour)

	res, err := s.Login(context.Background(), "ana@salon.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, db.RoleStaff, res.Role)

	p, err := auth.ParseToken([]byte(testSecret), res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.UserID)
	assert.Equal(t, db.RoleStaff, p.Role)

	_, err = s.Login(context.Background(), "ana@salon.test", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "ghost@salon.test", "s3cret-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
