package document

import (
	"time"

	"github.com/inkwell-app/core/internal/models"
)

type shareResponse struct {
	DocumentID string `json:"documentId"`
	ShareToken string `json:"shareToken"`
	ShareURL   string `json:"shareUrl"`
}

// publicDocumentView is the reduced shape exposed through share links.
type publicDocumentView struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Type    string    `json:"type"`
	Format  string    `json:"format"`
	FileURL *string   `json:"file_url"`
	Created time.Time `json:"created"`
}

func toPublicView(doc *models.DocumentModel) publicDocumentView {
	return publicDocumentView{
		ID:      doc.ID,
		Title:   doc.Title,
		Type:    doc.Type,
		Format:  doc.Format,
		FileURL: doc.FileURL,
		Created: doc.CreatedAt,
	}
}
