package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	for _, r := range entity.Roles {
		got, ok := entity.ParseRole(string(r))
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok := entity.ParseRole("superuser")
	assert.False(t, ok)
	_, ok = entity.ParseRole("")
	assert.False(t, ok)
}

func TestContract_ExpiresWithin(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	c := &entity.Contract{Value: decimal.Zero, EndDate: time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)}

	assert.True(t, c.ExpiresWithin(now, 30))
	assert.False(t, c.ExpiresWithin(now, 29))

	c.EndDate = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.False(t, c.ExpiresWithin(now, 30), "ya vencido")

	c.EndDate = time.Time{}
	assert.False(t, c.ExpiresWithin(now, 30))
}

func TestPayment_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	p := &entity.Payment{Status: entity.PaymentPendente, DueDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)}
	assert.True(t, p.Overdue(now))

	p.DueDate = now
	assert.False(t, p.Overdue(now), "vence hoy: aún no atrasado")

	p.Status = entity.PaymentPago
	p.DueDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, p.Overdue(now))

	p.Status = entity.PaymentAtrasado
	assert.True(t, p.Overdue(now))
}
