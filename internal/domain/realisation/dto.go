package realisation

type CreateRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Slug            string   `json:"slug" validate:"omitempty,max=120,slug"`
	Description     string   `json:"description" validate:"required,max=500"`
	LongDescription string   `json:"long_description"`
	ImageURL        string   `json:"image_url" validate:"omitempty,max=1024"`
	Tags            []string `json:"tags" validate:"max=20,dive,required,max=40"`
	Link            string   `json:"link" validate:"omitempty,url,max=1024"`
	Featured        bool     `json:"featured"`
	DisplayOrder    int      `json:"display_order"`
}

// UpdateRequest patches a realisation; absent fields are kept.
type UpdateRequest struct {
	Title           *string   `json:"title" validate:"omitempty,max=200"`
	Slug            *string   `json:"slug" validate:"omitempty,max=120,slug"`
	Description     *string   `json:"description" validate:"omitempty,max=500"`
	LongDescription *string   `json:"long_description"`
	ImageURL        *string   `json:"image_url" validate:"omitempty,max=1024"`
	Tags            *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=40"`
	Link            *string   `json:"link" validate:"omitempty,url,max=1024"`
	Featured        *bool     `json:"featured"`
	DisplayOrder    *int      `json:"display_order"`
}
