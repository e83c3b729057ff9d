package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Contratos-api/internal/domain"
)

func TestClassify_CodigosPostgres(t *testing.T) {
	casos := []struct {
		code string
		want error
	}{
		{"23505", domain.ErrDuplicate},
		{"23503", domain.ErrInvalidInput},
		{"23514", domain.ErrInvalidInput},
		{"22P02", domain.ErrInvalidInput},
		{"42501", domain.ErrForbidden},
		{"57014", domain.ErrUnavailable},
		{"08006", domain.ErrUnavailable},
	}
	for _, c := range casos {
		t.Run(c.code, func(t *testing.T) {
			err := classify("op", &pgconn.PgError{Code: c.code, Message: "detalle"})
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestClassify_TimeoutEsTransitorio(t *testing.T) {
	err := classify("op", context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.True(t, domain.IsTransient(err))
}

func TestClassify_CancelacionNoEsTransitoria(t *testing.T) {
	err := classify("op", context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, domain.IsTransient(err))
}

func TestClassify_NilYDesconocido(t *testing.T) {
	assert.NoError(t, classify("op", nil))

	raw := errors.New("otro")
	err := classify("op", raw)
	assert.ErrorIs(t, err, raw)
	assert.NotErrorIs(t, err, domain.ErrUnavailable)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("x")))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "a", nullable("a"))
	assert.Equal(t, "", deref(nil))
}
