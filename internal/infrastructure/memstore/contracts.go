package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

type supplierRepo struct{ d *db }

func (r *supplierRepo) checkUnique(st *state, s *entity.Supplier) error {
	if s.TaxID == "" {
		return nil
	}
	for id, other := range st.suppliers {
		if id != s.ID && other.TaxID == s.TaxID {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.d.write(func(st *state) error {
		if err := r.checkUnique(st, s); err != nil {
			return err
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.d.read(func(st *state) {
		if v, ok := st.suppliers[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *supplierRepo) List(_ context.Context, f repository.SupplierFilter) ([]*entity.Supplier, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*entity.Supplier
	r.d.read(func(st *state) {
		for _, v := range st.suppliers {
			if f.OnlyActive && !v.IsActive {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(v.Name), search) && !strings.Contains(strings.ToLower(v.TaxID), search) {
				continue
			}
			v := v
			out = append(out, &v)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; !ok {
			return domain.ErrNotFound
		}
		if err := r.checkUnique(st, s); err != nil {
			return err
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

// Delete deja contracts.supplier_id en NULL (ON DELETE SET NULL).
func (r *supplierRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.suppliers, id)
		for cid, c := range st.contracts {
			if c.SupplierID != nil && *c.SupplierID == id {
				c.SupplierID = nil
				st.contracts[cid] = c
			}
		}
		return nil
	})
}

type contractRepo struct{ d *db }

func (r *contractRepo) validate(st *state, c *entity.Contract) error {
	for id, other := range st.contracts {
		if id != c.ID && other.Number == c.Number {
			return domain.ErrDuplicate
		}
	}
	if c.SupplierID != nil {
		if _, ok := st.suppliers[*c.SupplierID]; !ok {
			return fmt.Errorf("%w: proveedor inexistente", domain.ErrInvalidInput)
		}
	}
	return nil
}

func storedContract(c *entity.Contract) entity.Contract {
	v := *c
	v.SupplierID = cloneStr(c.SupplierID)
	return v
}

func (r *contractRepo) Create(_ context.Context, c *entity.Contract) error {
	return r.d.write(func(st *state) error {
		if err := r.validate(st, c); err != nil {
			return err
		}
		st.contracts[c.ID] = storedContract(c)
		return nil
	})
}

func (r *contractRepo) GetByID(_ context.Context, id string) (*entity.Contract, error) {
	var out *entity.Contract
	r.d.read(func(st *state) {
		if v, ok := st.contracts[id]; ok {
			v = storedContract(&v)
			out = &v
		}
	})
	return out, nil
}

func (r *contractRepo) List(_ context.Context, f repository.ContractFilter) ([]*entity.Contract, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*entity.Contract
	r.d.read(func(st *state) {
		for _, v := range st.contracts {
			if f.Status != "" && v.Status != f.Status {
				continue
			}
			if f.SupplierID != "" && (v.SupplierID == nil || *v.SupplierID != f.SupplierID) {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(v.Number), search) && !strings.Contains(strings.ToLower(v.Title), search) {
				continue
			}
			v = storedContract(&v)
			out = append(out, &v)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *contractRepo) ListEndingBetween(_ context.Context, status entity.ContractStatus, from, to time.Time) ([]*entity.Contract, error) {
	var out []*entity.Contract
	r.d.read(func(st *state) {
		for _, v := range st.contracts {
			if status != "" && v.Status != status {
				continue
			}
			if v.EndDate.IsZero() || v.EndDate.Before(from) || v.EndDate.After(to) {
				continue
			}
			v = storedContract(&v)
			out = append(out, &v)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

func (r *contractRepo) Update(_ context.Context, c *entity.Contract) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.contracts[c.ID]; !ok {
			return domain.ErrNotFound
		}
		if err := r.validate(st, c); err != nil {
			return err
		}
		st.contracts[c.ID] = storedContract(c)
		return nil
	})
}

// Delete borra en cascada obligaciones, pagos y documentos del contrato,
// junto con los objetos de esos documentos.
func (r *contractRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.contracts[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.contracts, id)
		for k, v := range st.obligations {
			if v.ContractID == id {
				delete(st.obligations, k)
			}
		}
		for k, v := range st.payments {
			if v.ContractID == id {
				delete(st.payments, k)
			}
		}
		for k, v := range st.documents {
			if v.ContractID == id {
				delete(st.documents, k)
				delete(st.objects, objectKey(entity.DocumentsBucket, v.FilePath))
			}
		}
		return nil
	})
}

func requireContract(st *state, contractID string) error {
	if _, ok := st.contracts[contractID]; !ok {
		return fmt.Errorf("%w: contrato inexistente", domain.ErrInvalidInput)
	}
	return nil
}

type obligationRepo struct{ d *db }

func storedObligation(o *entity.Obligation) entity.Obligation {
	v := *o
	v.DueDate = cloneTime(o.DueDate)
	return v
}

func (r *obligationRepo) Create(_ context.Context, o *entity.Obligation) error {
	return r.d.write(func(st *state) error {
		if err := requireContract(st, o.ContractID); err != nil {
			return err
		}
		st.obligations[o.ID] = storedObligation(o)
		return nil
	})
}

func (r *obligationRepo) GetByID(_ context.Context, id string) (*entity.Obligation, error) {
	var out *entity.Obligation
	r.d.read(func(st *state) {
		if v, ok := st.obligations[id]; ok {
			v = storedObligation(&v)
			out = &v
		}
	})
	return out, nil
}

func (r *obligationRepo) ListByContract(_ context.Context, contractID string) ([]*entity.Obligation, error) {
	var out []*entity.Obligation
	r.d.read(func(st *state) {
		for _, v := range st.obligations {
			if v.ContractID == contractID {
				v = storedObligation(&v)
				out = append(out, &v)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *obligationRepo) Update(_ context.Context, o *entity.Obligation) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.obligations[o.ID]; !ok {
			return domain.ErrNotFound
		}
		st.obligations[o.ID] = storedObligation(o)
		return nil
	})
}

func (r *obligationRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.obligations[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.obligations, id)
		return nil
	})
}

type paymentRepo struct{ d *db }

func storedPayment(p *entity.Payment) entity.Payment {
	v := *p
	v.PaidAt = cloneTime(p.PaidAt)
	return v
}

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.d.write(func(st *state) error {
		if err := requireContract(st, p.ContractID); err != nil {
			return err
		}
		st.payments[p.ID] = storedPayment(p)
		return nil
	})
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	r.d.read(func(st *state) {
		if v, ok := st.payments[id]; ok {
			v = storedPayment(&v)
			out = &v
		}
	})
	return out, nil
}

func (r *paymentRepo) ListByContract(_ context.Context, contractID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	r.d.read(func(st *state) {
		for _, v := range st.payments {
			if v.ContractID == contractID {
				v = storedPayment(&v)
				out = append(out, &v)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *paymentRepo) ListOpen(_ context.Context) ([]*entity.Payment, error) {
	var out []*entity.Payment
	r.d.read(func(st *state) {
		for _, v := range st.payments {
			if v.Status == entity.PaymentPendente || v.Status == entity.PaymentAtrasado {
				v = storedPayment(&v)
				out = append(out, &v)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *paymentRepo) Update(_ context.Context, p *entity.Payment) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.payments[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.payments[p.ID] = storedPayment(p)
		return nil
	})
}

func (r *paymentRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.payments[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.payments, id)
		return nil
	})
}

type documentRepo struct{ d *db }

func (r *documentRepo) Create(_ context.Context, doc *entity.Document) error {
	return r.d.write(func(st *state) error {
		if err := requireContract(st, doc.ContractID); err != nil {
			return err
		}
		st.documents[doc.ID] = *doc
		return nil
	})
}

func (r *documentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	var out *entity.Document
	r.d.read(func(st *state) {
		if v, ok := st.documents[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *documentRepo) ListByContract(_ context.Context, contractID string) ([]*entity.Document, error) {
	var out []*entity.Document
	r.d.read(func(st *state) {
		for _, v := range st.documents {
			if v.ContractID == contractID {
				v := v
				out = append(out, &v)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *documentRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.documents[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.documents, id)
		return nil
	})
}
