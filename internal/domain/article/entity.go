package article

import (
	"slices"
	"time"
)

// Categories are the fixed blog sections, in display order.
var categories = []string{
	"Général",
	"Automatisation",
	"Design & UX",
	"Développement",
	"Business",
	"Tutoriel",
}

const DefaultCategory = "Général"

func Categories() []string { return slices.Clone(categories) }

func ValidCategory(c string) bool { return slices.Contains(categories, c) }

// Article is a blog post written in markdown.
type Article struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Excerpt     string     `gorm:"size:500" json:"excerpt"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	CoverURL    string     `gorm:"size:1024" json:"cover_url,omitempty"`
	Category    string     `gorm:"size:64;not null;index" json:"category"`
	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Article) TableName() string { return "articles" }
