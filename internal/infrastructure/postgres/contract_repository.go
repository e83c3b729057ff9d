package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

var (
	_ repository.ContractRepository   = (*ContractRepo)(nil)
	_ repository.ObligationRepository = (*ObligationRepo)(nil)
	_ repository.PaymentRepository    = (*PaymentRepo)(nil)
)

// ContractRepo implementación del puerto ContractRepository sobre PostgreSQL.
type ContractRepo struct {
	q Querier
}

// NewContractRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

const contractColumns = `id, number, title, description, supplier_id, value, start_date, end_date, status::text,
	department, created_by, created_at, updated_at`

func scanContract(row interface{ Scan(...any) error }) (*entity.Contract, error) {
	var c entity.Contract
	var status string
	var createdBy *string
	if err := row.Scan(&c.ID, &c.Number, &c.Title, &c.Description, &c.SupplierID, &c.Value,
		&c.StartDate, &c.EndDate, &status, &c.Department, &createdBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = entity.ContractStatus(status)
	c.CreatedBy = deref(createdBy)
	return &c, nil
}

func (r *ContractRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Contract, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list contracts", err)
	}
	defer rows.Close()
	var list []*entity.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		list = append(list, c)
	}
	return list, classify("list contracts", rows.Err())
}

// Create persiste un contrato. Número duplicado => domain.ErrDuplicate;
// proveedor inexistente => domain.ErrInvalidInput (FK).
func (r *ContractRepo) Create(ctx context.Context, c *entity.Contract) error {
	query := `
		INSERT INTO contracts (id, number, title, description, supplier_id, value, start_date, end_date,
			status, department, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::contract_status, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Number, c.Title, c.Description, c.SupplierID, c.Value, c.StartDate, c.EndDate,
		string(c.Status), c.Department, nullable(c.CreatedBy), c.CreatedAt, c.UpdatedAt,
	)
	return classify("insert contract", err)
}

// GetByID obtiene un contrato; (nil, nil) si no existe.
func (r *ContractRepo) GetByID(ctx context.Context, id string) (*entity.Contract, error) {
	c, err := scanContract(r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get contract", err)
	}
	return c, nil
}

// List lista contratos recientes primero.
func (r *ContractRepo) List(ctx context.Context, f repository.ContractFilter) ([]*entity.Contract, error) {
	var where []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d::contract_status", len(args)))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		where = append(where, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(number ILIKE $%d OR title ILIKE $%d)", len(args), len(args)))
	}
	query := `SELECT ` + contractColumns + ` FROM contracts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`
	return r.list(ctx, query, args...)
}

// ListEndingBetween contratos con end_date en [from, to].
func (r *ContractRepo) ListEndingBetween(ctx context.Context, status entity.ContractStatus, from, to time.Time) ([]*entity.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
		WHERE end_date BETWEEN $1 AND $2 AND ($3 = '' OR status::text = $3)
		ORDER BY end_date, id`
	return r.list(ctx, query, from, to, string(status))
}

// Update actualiza un contrato (last-write-wins).
func (r *ContractRepo) Update(ctx context.Context, c *entity.Contract) error {
	query := `
		UPDATE contracts SET number = $2, title = $3, description = $4, supplier_id = $5, value = $6,
			start_date = $7, end_date = $8, status = $9::contract_status, department = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Number, c.Title, c.Description, c.SupplierID, c.Value, c.StartDate, c.EndDate,
		string(c.Status), c.Department, c.UpdatedAt,
	)
	if err != nil {
		return classify("update contract", err)
	}
	return notFoundIfNone(tag)
}

// Delete elimina el contrato; obligaciones, pagos y documentos caen por ON DELETE CASCADE.
func (r *ContractRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return classify("delete contract", err)
	}
	return notFoundIfNone(tag)
}

// ObligationRepo implementación del puerto ObligationRepository sobre PostgreSQL.
type ObligationRepo struct {
	q Querier
}

// NewObligationRepository construye el adaptador.
func NewObligationRepository(q Querier) *ObligationRepo {
	return &ObligationRepo{q: q}
}

const obligationColumns = `id, contract_id, title, description, due_date, responsible, status::text, created_by, created_at, updated_at`

func scanObligation(row interface{ Scan(...any) error }) (*entity.Obligation, error) {
	var o entity.Obligation
	var status string
	var createdBy *string
	if err := row.Scan(&o.ID, &o.ContractID, &o.Title, &o.Description, &o.DueDate, &o.Responsible,
		&status, &createdBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.ObligationStatus(status)
	o.CreatedBy = deref(createdBy)
	return &o, nil
}

// Create persiste una obligación.
func (r *ObligationRepo) Create(ctx context.Context, o *entity.Obligation) error {
	query := `
		INSERT INTO obligations (id, contract_id, title, description, due_date, responsible, status,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::obligation_status, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.ContractID, o.Title, o.Description, o.DueDate, o.Responsible, string(o.Status),
		nullable(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	return classify("insert obligation", err)
}

// GetByID obtiene una obligación; (nil, nil) si no existe.
func (r *ObligationRepo) GetByID(ctx context.Context, id string) (*entity.Obligation, error) {
	o, err := scanObligation(r.q.QueryRow(ctx, `SELECT `+obligationColumns+` FROM obligations WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get obligation", err)
	}
	return o, nil
}

// ListByContract obligaciones del contrato en orden de creación.
func (r *ObligationRepo) ListByContract(ctx context.Context, contractID string) ([]*entity.Obligation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+obligationColumns+` FROM obligations WHERE contract_id = $1 ORDER BY created_at, id`, contractID)
	if err != nil {
		return nil, classify("list obligations", err)
	}
	defer rows.Close()
	var list []*entity.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		list = append(list, o)
	}
	return list, classify("list obligations", rows.Err())
}

// Update actualiza una obligación.
func (r *ObligationRepo) Update(ctx context.Context, o *entity.Obligation) error {
	query := `
		UPDATE obligations SET title = $2, description = $3, due_date = $4, responsible = $5,
			status = $6::obligation_status, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, o.Title, o.Description, o.DueDate, o.Responsible, string(o.Status), o.UpdatedAt)
	if err != nil {
		return classify("update obligation", err)
	}
	return notFoundIfNone(tag)
}

// Delete elimina una obligación.
func (r *ObligationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM obligations WHERE id = $1`, id)
	if err != nil {
		return classify("delete obligation", err)
	}
	return notFoundIfNone(tag)
}

// PaymentRepo implementación del puerto PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, contract_id, description, amount, due_date, paid_at, status, created_by, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*entity.Payment, error) {
	var p entity.Payment
	var createdBy *string
	if err := row.Scan(&p.ID, &p.ContractID, &p.Description, &p.Amount, &p.DueDate, &p.PaidAt,
		&p.Status, &createdBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CreatedBy = deref(createdBy)
	return &p, nil
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list payments", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, classify("list payments", rows.Err())
}

// Create persiste un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ContractID, p.Description, p.Amount, p.DueDate, p.PaidAt, p.Status,
		nullable(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	return classify("insert payment", err)
}

// GetByID obtiene un pago; (nil, nil) si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get payment", err)
	}
	return p, nil
}

// ListByContract pagos del contrato por vencimiento.
func (r *PaymentRepo) ListByContract(ctx context.Context, contractID string) ([]*entity.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM payments WHERE contract_id = $1 ORDER BY due_date, id`, contractID)
}

// ListOpen pagos pendentes o atrasados.
func (r *PaymentRepo) ListOpen(ctx context.Context) ([]*entity.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM payments WHERE status IN ($1, $2) ORDER BY due_date, id`,
		entity.PaymentPendente, entity.PaymentAtrasado)
}

// Update actualiza un pago.
func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	query := `
		UPDATE payments SET description = $2, amount = $3, due_date = $4, paid_at = $5, status = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Description, p.Amount, p.DueDate, p.PaidAt, p.Status, p.UpdatedAt)
	if err != nil {
		return classify("update payment", err)
	}
	return notFoundIfNone(tag)
}

// Delete elimina un pago.
func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return classify("delete payment", err)
	}
	return notFoundIfNone(tag)
}
