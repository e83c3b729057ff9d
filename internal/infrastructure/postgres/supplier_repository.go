package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, name, tax_id, email, phone, address, contact_name, is_active, created_by, created_at, updated_at`

func scanSupplier(row interface{ Scan(...any) error }) (*entity.Supplier, error) {
	var s entity.Supplier
	var taxID, createdBy *string
	if err := row.Scan(&s.ID, &s.Name, &taxID, &s.Email, &s.Phone, &s.Address, &s.ContactName,
		&s.IsActive, &createdBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.TaxID = deref(taxID)
	s.CreatedBy = deref(createdBy)
	return &s, nil
}

// Create persiste un proveedor. tax_id vacío se guarda como NULL (único solo si presente).
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, nullable(s.TaxID), s.Email, s.Phone, s.Address, s.ContactName,
		s.IsActive, nullable(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	return classify("insert supplier", err)
}

// GetByID obtiene un proveedor; (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get supplier", err)
	}
	return s, nil
}

// List lista proveedores por nombre con filtros opcionales.
func (r *SupplierRepo) List(ctx context.Context, f repository.SupplierFilter) ([]*entity.Supplier, error) {
	var where []string
	var args []any
	if f.OnlyActive {
		where = append(where, "is_active")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR tax_id ILIKE $%d)", len(args), len(args)))
	}
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list suppliers", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, classify("list suppliers", rows.Err())
}

// Update actualiza un proveedor (last-write-wins).
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6,
			contact_name = $7, is_active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, nullable(s.TaxID), s.Email, s.Phone, s.Address, s.ContactName, s.IsActive, s.UpdatedAt,
	)
	if err != nil {
		return classify("update supplier", err)
	}
	return notFoundIfNone(tag)
}

// Delete elimina un proveedor; los contratos quedan con supplier_id NULL.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return classify("delete supplier", err)
	}
	return notFoundIfNone(tag)
}
