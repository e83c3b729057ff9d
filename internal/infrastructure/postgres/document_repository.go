package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

var (
	_ repository.DocumentRepository = (*DocumentRepo)(nil)
	_ repository.ObjectStorage      = (*ObjectStorage)(nil)
)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, contract_id, name, file_path, file_size, mime_type, created_by, created_at`

func scanDocument(row interface{ Scan(...any) error }) (*entity.Document, error) {
	var d entity.Document
	var createdBy *string
	if err := row.Scan(&d.ID, &d.ContractID, &d.Name, &d.FilePath, &d.FileSize, &d.MimeType,
		&createdBy, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.CreatedBy = deref(createdBy)
	return &d, nil
}

// Create persiste los metadatos del documento.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.ContractID, d.Name, d.FilePath, d.FileSize, d.MimeType, nullable(d.CreatedBy), d.CreatedAt,
	)
	return classify("insert document", err)
}

// GetByID obtiene un documento; (nil, nil) si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	d, err := scanDocument(r.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get document", err)
	}
	return d, nil
}

// ListByContract documentos del contrato, recientes primero.
func (r *DocumentRepo) ListByContract(ctx context.Context, contractID string) ([]*entity.Document, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE contract_id = $1 ORDER BY created_at DESC, id`, contractID)
	if err != nil {
		return nil, classify("list documents", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, classify("list documents", rows.Err())
}

// Delete elimina los metadatos del documento.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return classify("delete document", err)
	}
	return notFoundIfNone(tag)
}

// ObjectStorage almacena el binario de los documentos en storage_objects (bytea),
// en la misma transacción que la fila de documents.
type ObjectStorage struct {
	q Querier
}

// NewObjectStorage construye el adaptador.
func NewObjectStorage(q Querier) *ObjectStorage {
	return &ObjectStorage{q: q}
}

// Put guarda el objeto; una clave repetida en el bucket => domain.ErrDuplicate.
func (s *ObjectStorage) Put(ctx context.Context, obj *entity.StoredObject) error {
	query := `
		INSERT INTO storage_objects (bucket, key, content_type, size, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.q.Exec(ctx, query,
		obj.Bucket, obj.Key, obj.ContentType, int64(len(obj.Content)), obj.Content, obj.CreatedAt,
	)
	return classify("put object", err)
}

// Get lee el objeto; (nil, nil) si no existe.
func (s *ObjectStorage) Get(ctx context.Context, bucket, key string) (*entity.StoredObject, error) {
	query := `
		SELECT bucket, key, content_type, size, content, created_at
		FROM storage_objects WHERE bucket = $1 AND key = $2`
	var o entity.StoredObject
	err := s.q.QueryRow(ctx, query, bucket, key).Scan(&o.Bucket, &o.Key, &o.ContentType, &o.Size, &o.Content, &o.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get object", err)
	}
	return &o, nil
}

// Delete borra el objeto.
func (s *ObjectStorage) Delete(ctx context.Context, bucket, key string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM storage_objects WHERE bucket = $1 AND key = $2`, bucket, key)
	if err != nil {
		return classify("delete object", err)
	}
	return notFoundIfNone(tag)
}
