package realisation

import "time"

// Realisation is a portfolio entry shown on the work page.
type Realisation struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Slug            string    `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Description     string    `gorm:"size:500;not null" json:"description"`
	LongDescription string    `gorm:"type:text" json:"long_description,omitempty"`
	ImageURL        string    `gorm:"size:1024" json:"image_url,omitempty"`
	Tags            []string  `gorm:"serializer:json;type:text" json:"tags"`
	Link            string    `gorm:"size:1024" json:"link,omitempty"`
	Featured        bool      `gorm:"not null;default:false;index" json:"featured"`
	DisplayOrder    int       `gorm:"not null;default:0;index" json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Realisation) TableName() string { return "realisations" }
