package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"kanban_api/internal/domain"
	"kanban_api/internal/perrors"
	"kanban_api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// The cases below fail validation before any query runs, so the services
// are built without a database.

func TestRegisterValidation(t *testing.T) {
	s := newAuthService(nil, NewTokenManager("x", time.Hour), bcrypt.MinCost)
	ctx := context.Background()

	cases := []struct {
		in  domain.RegisterInput
		msg string
	}{
		{domain.RegisterInput{}, "Missing required fields: email, password, name"},
		{domain.RegisterInput{Email: "a@b.c", Name: "A"}, "Missing required fields: password"},
		{domain.RegisterInput{Email: "not-an-email", Password: "secret1", Name: "A"}, "Invalid email format"},
		{domain.RegisterInput{Email: "a b@c.d", Password: "secret1", Name: "A"}, "Invalid email format"},
		{domain.RegisterInput{Email: "a@b.c", Password: "12345", Name: "A"}, "Password must be at least 6 characters"},
		{domain.RegisterInput{Email: "a@b.c", Password: "secret1", Name: "   "}, "Missing required fields: name"},
		{domain.RegisterInput{Email: "  ", Password: "secret1", Name: "A"}, "Missing required fields: email"},
	}
	for _, tc := range cases {
		_, err := s.Register(ctx, tc.in)
		require.Error(t, err)
		perr, ok := perrors.As(err)
		require.True(t, ok)
		assert.Equal(t, perrors.ErrCodeInvalidRequest, perr.Code)
		assert.Equal(t, tc.msg, perr.Message)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	s := newAuthService(nil, NewTokenManager("x", time.Hour), bcrypt.MinCost)

	err := s.ChangePassword(context.Background(), "u", domain.ChangePasswordInput{CurrentPassword: "old", NewPassword: "new"})
	assert.EqualError(t, err, "New password must be at least 6 characters")
}

func TestReorderRejectsDuplicateIDs(t *testing.T) {
	s := NewBoardService(nil, nil)

	_, err := s.ReorderColumns(context.Background(), "b", "u", []domain.ColumnOrder{
		{ID: "c1", Order: 0},
		{ID: "c1", Order: 1},
	})
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidRequest))
}

func TestMoveRequiresColumn(t *testing.T) {
	s := NewTaskService(nil, nil)

	_, err := s.Move(context.Background(), "t", "u", "")
	assert.EqualError(t, err, "columnId is required")
}

func TestNotFoundAs(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", repository.ErrNotFound)
	err := notFoundAs(wrapped, msgColumnNotFound)

	perr, ok := perrors.As(err)
	require.True(t, ok)
	assert.Equal(t, perrors.ErrCodeNotFound, perr.Code)
	assert.Equal(t, "Column not found or access denied", perr.Message)

	other := errors.New("connection reset")
	assert.Same(t, other, notFoundAs(other, msgColumnNotFound))
	assert.NoError(t, notFoundAs(nil, msgColumnNotFound))
}
