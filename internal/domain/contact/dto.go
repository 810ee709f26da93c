package contact

import (
	"diezagency/internal/funnel"
	"diezagency/internal/locale"
)

// CreateSessionRequest starts a funnel. An empty lang uses the request locale.
type CreateSessionRequest struct {
	Lang string `json:"lang" validate:"omitempty,oneof=fr en"`
}

// UpdateFormRequest patches the answers; absent fields are left untouched.
type UpdateFormRequest struct {
	FirstName   *string          `json:"first_name" validate:"omitempty,max=120"`
	Need        *funnel.Need     `json:"need" validate:"omitempty,max=32"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Budget      *funnel.Budget   `json:"budget" validate:"omitempty,max=32"`
	Timeline    *funnel.Timeline `json:"timeline" validate:"omitempty,max=32"`
	Email       *string          `json:"email" validate:"omitempty,max=254"`
	Phone       *string          `json:"phone" validate:"omitempty,max=40"`
}

func (r *UpdateFormRequest) apply(f *funnel.LeadForm) {
	if r.FirstName != nil {
		f.FirstName = *r.FirstName
	}
	if r.Need != nil {
		f.Need = *r.Need
	}
	if r.Description != nil {
		f.Description = *r.Description
	}
	if r.Budget != nil {
		f.Budget = *r.Budget
	}
	if r.Timeline != nil {
		f.Timeline = *r.Timeline
	}
	if r.Email != nil {
		f.Email = *r.Email
	}
	if r.Phone != nil {
		f.Phone = *r.Phone
	}
}

// StepView describes a wizard step for rendering.
type StepView struct {
	ID       funnel.StepID `json:"id"`
	Name     string        `json:"name"`
	Fields   []string      `json:"fields"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
}

// SessionResponse is the funnel state returned after every call.
type SessionResponse struct {
	ID           string          `json:"id"`
	Lang         locale.Locale   `json:"lang"`
	SubmissionID string          `json:"submission_id"`
	State        funnel.State    `json:"state"`
	Form         funnel.LeadForm `json:"form"`
	Step         StepView        `json:"step"`
	TotalSteps   int             `json:"total_steps"`
	CanAdvance   bool            `json:"can_advance"`
	Applied      *bool           `json:"applied,omitempty"`
}

// SubmitContactRequest is the one-shot submission used without a session.
type SubmitContactRequest struct {
	SubmissionID string          `json:"submission_id" validate:"omitempty,max=64"`
	Lang         string          `json:"lang" validate:"omitempty,oneof=fr en"`
	FirstName    string          `json:"first_name" validate:"required,max=120"`
	Need         funnel.Need     `json:"need" validate:"required"`
	Description  string          `json:"description" validate:"required,max=5000"`
	Budget       funnel.Budget   `json:"budget" validate:"required"`
	Timeline     funnel.Timeline `json:"timeline" validate:"required"`
	Email        string          `json:"email" validate:"required,max=254"`
	Phone        string          `json:"phone" validate:"omitempty,max=40"`
}

func (r *SubmitContactRequest) form() funnel.LeadForm {
	return funnel.LeadForm{
		FirstName:   r.FirstName,
		Need:        r.Need,
		Description: r.Description,
		Budget:      r.Budget,
		Timeline:    r.Timeline,
		Email:       r.Email,
		Phone:       r.Phone,
	}
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=new read replied"`
}

type ListResponse struct {
	Contacts []Contact `json:"contacts"`
	Total    int64     `json:"total"`
}

// Option is a selectable answer with its localized label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type OptionsResponse struct {
	Lang      locale.Locale `json:"lang"`
	Steps     []StepView    `json:"steps"`
	Needs     []Option      `json:"needs"`
	Budgets   []Option      `json:"budgets"`
	Timelines []Option      `json:"timelines"`
}
