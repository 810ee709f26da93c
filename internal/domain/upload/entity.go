package upload

import "time"

// Folders group uploads by the content type that references them.
const (
	FolderArticles     = "articles"
	FolderRealisations = "realisations"
)

// Upload is an image stored on the configured backend. Articles and
// realisations reference it by URL.
type Upload struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Folder       string    `gorm:"size:32;not null;index" json:"folder"`
	Key          string    `gorm:"size:255;not null;uniqueIndex" json:"key"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	URL          string    `gorm:"size:1024;not null" json:"url"`
	MimeType     string    `gorm:"size:64;not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	UploadedBy   string    `gorm:"type:varchar(36)" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Upload) TableName() string { return "uploads" }

func validFolder(f string) bool {
	return f == FolderArticles || f == FolderRealisations
}
