package memstore

import (
	"context"

	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/audit"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

type auditRepo struct{ d *db }

func (r *auditRepo) Create(_ context.Context, e *entity.AuditLogEntry) error {
	return r.d.write(func(st *state) error {
		v := *e
		v.UserID = cloneStr(e.UserID)
		v.RecordID = cloneStr(e.RecordID)
		v.IPAddress = cloneStr(e.IPAddress)
		st.audit = append(st.audit, v)
		return nil
	})
}

func (r *auditRepo) ListRecent(_ context.Context, limit int) ([]*entity.AuditLogEntry, error) {
	var entries []entity.AuditLogEntry
	r.d.read(func(st *state) {
		entries = audit.Recent(st.audit, limit)
	})
	out := make([]*entity.AuditLogEntry, 0, len(entries))
	for i := range entries {
		out = append(out, &entries[i])
	}
	return out, nil
}

type objectStorage struct{ d *db }

func objectKey(bucket, key string) string { return bucket + "/" + key }

func (s *objectStorage) Put(_ context.Context, obj *entity.StoredObject) error {
	return s.d.write(func(st *state) error {
		k := objectKey(obj.Bucket, obj.Key)
		if _, ok := st.objects[k]; ok {
			return domain.ErrDuplicate
		}
		v := *obj
		v.Content = append([]byte(nil), obj.Content...)
		v.Size = int64(len(v.Content))
		st.objects[k] = v
		return nil
	})
}

func (s *objectStorage) Get(_ context.Context, bucket, key string) (*entity.StoredObject, error) {
	var out *entity.StoredObject
	s.d.read(func(st *state) {
		if v, ok := st.objects[objectKey(bucket, key)]; ok {
			v.Content = append([]byte(nil), v.Content...)
			out = &v
		}
	})
	return out, nil
}

func (s *objectStorage) Delete(_ context.Context, bucket, key string) error {
	return s.d.write(func(st *state) error {
		k := objectKey(bucket, key)
		if _, ok := st.objects[k]; !ok {
			return domain.ErrNotFound
		}
		delete(st.objects, k)
		return nil
	})
}
