package models

// Document types. The number of generated chapters is fixed per type;
// research papers use a fixed section template instead of a chapter count.
const (
	DocTypeBookSmall    = "book_small"
	DocTypeBookMedium   = "book_medium"
	DocTypeBookLong     = "book_long"
	DocTypeResearchLong = "research_long"
)

// Output formats.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// Generation lifecycle states. A row is terminal in completed, failed or
// cancelled; file_url/file_size are set iff the row is completed.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// DocumentModel is one generation request's persisted record and the
// resulting file. share_token is set iff is_public is true.
type DocumentModel struct {
	Base
	UserID           string  `json:"user_id"           gorm:"index;not null"`
	Title            string  `json:"title"             gorm:"not null"`
	Type             string  `json:"type"              gorm:"index;not null"`
	Format           string  `json:"format"            gorm:"not null"`
	FileURL          *string `json:"file_url"`
	FileKey          string  `json:"-"`
	FileSize         *int64  `json:"file_size"`
	ShareToken       *string `json:"share_token,omitempty" gorm:"uniqueIndex"`
	IsPublic         bool    `json:"is_public"`
	GenerationStatus string  `json:"generation_status" gorm:"index;not null;default:'pending'"`
	Error            string  `json:"error,omitempty"   gorm:"type:text"`
	ChapterCount     int     `json:"chapter_count"`
	ChapterTotal     int     `json:"chapter_total"`
}

func (DocumentModel) TableName() string { return "documents" }

// IsTerminalStatus reports whether status is a final lifecycle state.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusFailed || status == StatusCancelled
}

// ValidDocType reports whether t is one of the closed document type set.
func ValidDocType(t string) bool {
	switch t {
	case DocTypeBookSmall, DocTypeBookMedium, DocTypeBookLong, DocTypeResearchLong:
		return true
	}
	return false
}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	return f == FormatPDF || f == FormatDOCX
}
