package repository

import (
	"context"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// AuditLogRepository puerto del log de auditoría. Solo append y lectura:
// no existe Update ni Delete.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLogEntry) error
	// ListRecent devuelve hasta limit entradas ordenadas por created_at DESC.
	ListRecent(ctx context.Context, limit int) ([]*entity.AuditLogEntry, error)
}

// ObjectStorage puerto del almacenamiento binario de documentos.
type ObjectStorage interface {
	Put(ctx context.Context, obj *entity.StoredObject) error
	Get(ctx context.Context, bucket, key string) (*entity.StoredObject, error)
	Delete(ctx context.Context, bucket, key string) error
}
