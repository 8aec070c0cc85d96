package document

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceDocumentResponse describes a generated invoice PDF
type InvoiceDocumentResponse struct {
	ActID       uuid.UUID `json:"act_id"`
	StorageKey  string    `json:"storage_key"`
	DownloadURL string    `json:"download_url"`
	URLExpires  time.Time `json:"url_expires"`
	PageCount   int       `json:"page_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// DownloadResponse is a presigned link to an already-generated document
type DownloadResponse struct {
	ActID       uuid.UUID `json:"act_id"`
	StorageKey  string    `json:"storage_key"`
	DownloadURL string    `json:"download_url"`
	URLExpires  time.Time `json:"url_expires"`
}
