package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/pkg/config"
	"github.com/jhoicas/Contratos-api/pkg/jwt"
)

const (
	pdfMime          = "application/pdf"
	SignedURLPrefix  = "/api/storage/signed/"
	maxFilenameRunes = 120
)

// DocumentFile contenido listo para servir.
type DocumentFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// DocumentUseCase gestiona los documentos PDF de los contratos y su almacenamiento.
type DocumentUseCase struct {
	store ports.Store
	guard *access.Guard
	audit *AuditRecorder
	cfg   config.StorageConfig
	now   func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(store ports.Store, guard *access.Guard, audit *AuditRecorder, cfg config.StorageConfig) *DocumentUseCase {
	if cfg.Bucket == "" {
		cfg.Bucket = entity.DocumentsBucket
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 60 * time.Second
	}
	return &DocumentUseCase{store: store, guard: guard, audit: audit, cfg: cfg, now: time.Now}
}

// List lista los documentos de un contrato (más recientes primero).
func (uc *DocumentUseCase) List(ctx context.Context, actor authz.Actor, contractID string) ([]dto.DocumentResponse, error) {
	if err := uc.guard.Check(actor, entity.TableDocuments, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	list, err := uc.store.Repos().Documents.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *entityToDocumentResponse(d))
	}
	return out, nil
}

// GetByID obtiene los metadatos de un documento.
func (uc *DocumentUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.DocumentResponse, error) {
	if err := uc.guard.Check(actor, entity.TableDocuments, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	d, err := uc.store.Repos().Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return entityToDocumentResponse(d), nil
}

// Upload valida y guarda un PDF. Objeto, fila y auditoría se escriben en la misma transacción.
func (uc *DocumentUseCase) Upload(ctx context.Context, actor authz.Actor, contractID, filename string, content []byte) (*dto.DocumentResponse, error) {
	if err := uc.guard.Check(actor, entity.TableDocuments, authz.OpInsert, ""); err != nil {
		return nil, err
	}
	if err := uc.guard.Check(actor, entity.StorageContractDocuments, authz.OpInsert, ""); err != nil {
		return nil, err
	}
	if err := uc.validateUpload(filename, content); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	name := sanitizeFilename(filename)
	doc := &entity.Document{
		ID:         uuid.New().String(),
		ContractID: contractID,
		Name:       name,
		FilePath:   fmt.Sprintf("%s/%d_%s", contractID, now.UnixMilli(), name),
		FileSize:   int64(len(content)),
		MimeType:   pdfMime,
		CreatedBy:  actor.UserID,
		CreatedAt:  now,
	}
	obj := &entity.StoredObject{
		Bucket:      uc.cfg.Bucket,
		Key:         doc.FilePath,
		ContentType: pdfMime,
		Size:        doc.FileSize,
		Content:     content,
		CreatedAt:   now,
	}
	out := entityToDocumentResponse(doc)
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		if err := requireContract(ctx, r, contractID); err != nil {
			return err
		}
		if err := r.Storage.Put(ctx, obj); err != nil {
			return err
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditInsert, entity.TableDocuments, doc.ID, nil, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Download devuelve el PDF de un documento.
func (uc *DocumentUseCase) Download(ctx context.Context, actor authz.Actor, id string) (*DocumentFile, error) {
	if err := uc.guard.Check(actor, entity.TableDocuments, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	if err := uc.guard.Check(actor, entity.StorageContractDocuments, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	repos := uc.store.Repos()
	d, err := repos.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	obj, err := repos.Storage.Get(ctx, uc.cfg.Bucket, d.FilePath)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, domain.ErrNotFound
	}
	return &DocumentFile{Name: d.Name, ContentType: d.MimeType, Content: obj.Content}, nil
}

// Delete elimina objeto y fila (solo admin). Un objeto ya inexistente no impide borrar la fila.
func (uc *DocumentUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := uc.guard.Check(actor, entity.TableDocuments, authz.OpDelete, ""); err != nil {
		return err
	}
	if err := uc.guard.Check(actor, entity.StorageContractDocuments, authz.OpDelete, ""); err != nil {
		return err
	}
	return uc.store.Run(ctx, func(r ports.Repos) error {
		d, err := r.Documents.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if err := r.Storage.Delete(ctx, uc.cfg.Bucket, d.FilePath); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := r.Documents.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditDelete, entity.TableDocuments, id, entityToDocumentResponse(d), nil)
	})
}

// SignedURL emite una URL de descarga sin sesión válida durante SignedURLTTL.
func (uc *DocumentUseCase) SignedURL(ctx context.Context, actor authz.Actor, id string) (*dto.SignedURLResponse, error) {
	if err := uc.guard.Check(actor, entity.TableDocuments, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	if err := uc.guard.Check(actor, entity.StorageContractDocuments, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	d, err := uc.store.Repos().Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	token, exp, err := jwt.GenerateObjectToken(uc.cfg.SigningSecret, uc.cfg.Bucket, d.FilePath, uc.cfg.SignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("firmar url: %w", err)
	}
	return &dto.SignedURLResponse{URL: SignedURLPrefix + token, ExpiresAt: exp.UTC()}, nil
}

// OpenSigned resuelve un token de URL firmada. Token vencido o alterado => domain.ErrUnauthorized.
func (uc *DocumentUseCase) OpenSigned(ctx context.Context, token string) (*DocumentFile, error) {
	bucket, key, err := jwt.ParseObjectToken(uc.cfg.SigningSecret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if bucket != uc.cfg.Bucket {
		return nil, domain.ErrUnauthorized
	}
	obj, err := uc.store.Repos().Storage.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, domain.ErrNotFound
	}
	return &DocumentFile{Name: objectFilename(key), ContentType: obj.ContentType, Content: obj.Content}, nil
}

func (uc *DocumentUseCase) validateUpload(filename string, content []byte) error {
	if len(content) == 0 {
		return invalid("el archivo está vacío")
	}
	if int64(len(content)) > uc.cfg.MaxUploadBytes() && uc.cfg.MaxUploadMB > 0 {
		return fmt.Errorf("%w: máximo %d MB", domain.ErrFileTooLarge, uc.cfg.MaxUploadMB)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return fmt.Errorf("%w: solo se admiten archivos .pdf", domain.ErrUnsupportedFile)
	}
	if !mimetype.Detect(content).Is(pdfMime) {
		return fmt.Errorf("%w: el contenido no es un PDF", domain.ErrUnsupportedFile)
	}
	return nil
}

// sanitizeFilename conserva letras, dígitos, punto, guion y guion bajo.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	n := 0
	for _, r := range name {
		if n >= maxFilenameRunes {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		n++
	}
	out := strings.Trim(b.String(), ".")
	if out == "" || strings.EqualFold(out, "pdf") {
		return "documento.pdf"
	}
	return out
}

// objectFilename extrae el nombre original de una clave {contract_id}/{ts}_{nombre}.
func objectFilename(key string) string {
	base := key[strings.LastIndex(key, "/")+1:]
	if i := strings.Index(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return base
}

func entityToDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:         d.ID,
		ContractID: d.ContractID,
		Name:       d.Name,
		FilePath:   d.FilePath,
		FileSize:   d.FileSize,
		MimeType:   d.MimeType,
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt,
	}
}
