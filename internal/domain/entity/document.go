package entity

import "time"

// DocumentsBucket bucket por defecto de los documentos de contratos.
const DocumentsBucket = "contracts-documents"

// Document metadatos de un archivo del bucket contracts-documents.
type Document struct {
	ID         string
	ContractID string
	Name       string
	FilePath   string // clave del objeto: {contract_id}/{timestamp}_{filename}
	FileSize   int64
	MimeType   string
	CreatedBy  string
	CreatedAt  time.Time
}

// StoredObject contenido binario de un objeto almacenado.
type StoredObject struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Content     []byte
	CreatedAt   time.Time
}
