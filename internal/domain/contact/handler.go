package contact

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diezagency/internal/funnel"
	"diezagency/internal/i18n"
	"diezagency/internal/locale"
	"diezagency/internal/pkg/response"
	"diezagency/internal/pkg/validator"
)

// Handler serves the public funnel API and the admin inbox.
type Handler struct {
	service  *Service
	sessions *SessionStore
	catalog  *i18n.Catalog
	log      *zap.Logger
}

func NewHandler(service *Service, sessions *SessionStore, catalog *i18n.Catalog, log *zap.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, catalog: catalog, log: log}
}

// CreateSession handles POST /api/contact/funnel
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeInvalidJSON, "Invalid JSON body")
			return
		}
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeValidation, "Validation failed", errs)
		return
	}

	lang, ok := locale.Parse(req.Lang)
	if !ok {
		lang = locale.FromContext(c.Request.Context())
	}

	id, w := h.sessions.Create(lang)
	response.Success(c, http.StatusCreated, h.view(id, w, nil))
}

// GetSession handles GET /api/contact/funnel/:id
func (h *Handler) GetSession(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, h.view(id, w, nil))
}

// UpdateForm handles PATCH /api/contact/funnel/:id/form
func (h *Handler) UpdateForm(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}

	var req UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidJSON, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeValidation, "Validation failed", errs)
		return
	}

	applied := w.Update(req.apply)
	response.Success(c, http.StatusOK, h.view(id, w, &applied))
}

// Advance handles POST /api/contact/funnel/:id/advance
func (h *Handler) Advance(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	applied := w.Advance()
	response.Success(c, http.StatusOK, h.view(id, w, &applied))
}

// Retreat handles POST /api/contact/funnel/:id/retreat
func (h *Handler) Retreat(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	applied := w.Retreat()
	response.Success(c, http.StatusOK, h.view(id, w, &applied))
}

// Submit handles POST /api/contact/funnel/:id/submit. A failed write is
// reported in state.last_error, never as an HTTP error.
func (h *Handler) Submit(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	ctx := WithRequestMeta(c.Request.Context(), RequestMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()})
	applied := w.Submit(ctx)
	response.Success(c, http.StatusOK, h.view(id, w, &applied))
}

// DeleteSession handles DELETE /api/contact/funnel/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Funnel session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitContact handles POST /api/contacts
func (h *Handler) SubmitContact(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidJSON, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeValidation, "Validation failed", errs)
		return
	}

	lang, ok := locale.Parse(req.Lang)
	if !ok {
		lang = locale.FromContext(c.Request.Context())
	}
	form := req.form()
	if step, valid := funnel.ValidateAll(form); !valid {
		st, _ := funnel.StepAt(step)
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeValidation, "Lead is incomplete",
			gin.H{"step": st.ID, "name": st.Name, "fields": st.Fields})
		return
	}

	ctx := WithRequestMeta(c.Request.Context(), RequestMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()})
	contact, created, err := h.service.Submit(ctx, funnel.Lead{LeadForm: form, Lang: lang, SubmissionID: req.SubmissionID})
	if err != nil {
		h.log.Error("submit contact", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, h.catalog.T(lang, "contact.error.generic"))
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{"id": contact.ID, "submission_id": contact.SubmissionID})
}

// Options handles GET /api/contact/options?lang=
func (h *Handler) Options(c *gin.Context) {
	lang, ok := locale.Parse(c.Query("lang"))
	if !ok {
		lang = locale.FromContext(c.Request.Context())
	}

	res := OptionsResponse{Lang: lang}
	for _, s := range funnel.Steps() {
		res.Steps = append(res.Steps, h.stepView(lang, s))
	}
	for _, n := range funnel.NeedOptions() {
		res.Needs = append(res.Needs, Option{Value: string(n), Label: h.catalog.T(lang, "contact.need."+string(n))})
	}
	for _, b := range funnel.BudgetOptions() {
		res.Budgets = append(res.Budgets, Option{Value: string(b), Label: h.catalog.T(lang, "contact.budget."+string(b))})
	}
	for _, t := range funnel.TimelineOptions() {
		res.Timelines = append(res.Timelines, Option{Value: string(t), Label: h.catalog.T(lang, "contact.timeline."+string(t))})
	}
	response.Success(c, http.StatusOK, res)
}

// ListContacts handles GET /api/admin/contacts
func (h *Handler) ListContacts(c *gin.Context) {
	var status *Status
	if s := c.Query("status"); s != "" {
		v := Status(s)
		status = &v
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	contacts, total, err := h.service.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Unknown status filter")
			return
		}
		h.internal(c, "list contacts", err)
		return
	}
	if contacts == nil {
		contacts = []Contact{}
	}
	response.Success(c, http.StatusOK, ListResponse{Contacts: contacts, Total: total})
}

// GetContact handles GET /api/admin/contacts/:id
func (h *Handler) GetContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, "get contact", err)
		return
	}
	response.Success(c, http.StatusOK, contact)
}

// UpdateStatus handles PATCH /api/admin/contacts/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidJSON, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeValidation, "Validation failed", errs)
		return
	}

	contact, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.notFoundOr(c, "update contact status", err)
		return
	}
	response.Success(c, http.StatusOK, contact)
}

// DeleteContact handles DELETE /api/admin/contacts/:id
func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.notFoundOr(c, "delete contact", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStats handles GET /api/admin/contacts/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.internal(c, "contact stats", err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) session(c *gin.Context) (string, *funnel.Wizard, bool) {
	id := c.Param("id")
	w, err := h.sessions.Get(id)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Funnel session not found")
		return "", nil, false
	}
	return id, w, true
}

func (h *Handler) view(id string, w *funnel.Wizard, applied *bool) SessionResponse {
	state := w.State()
	step, _ := funnel.StepAt(state.CurrentStep)
	return SessionResponse{
		ID:           id,
		Lang:         w.Lang(),
		SubmissionID: w.SubmissionID(),
		State:        state,
		Form:         w.Form(),
		Step:         h.stepView(w.Lang(), step),
		TotalSteps:   funnel.TotalSteps,
		CanAdvance:   w.CanAdvance(),
		Applied:      applied,
	}
}

func (h *Handler) stepView(lang locale.Locale, s funnel.Step) StepView {
	return StepView{
		ID:       s.ID,
		Name:     s.Name,
		Fields:   s.Fields,
		Title:    h.catalog.T(lang, "contact.steps."+s.Name+".title"),
		Subtitle: h.catalog.T(lang, "contact.steps."+s.Name+".subtitle"),
	}
}

func (h *Handler) notFoundOr(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ErrContactNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Contact not found")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "Invalid status")
	default:
		h.internal(c, op, err)
	}
}

func (h *Handler) internal(c *gin.Context, op string, err error) {
	h.log.Error(op, zap.Error(err))
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid contact ID")
		return 0, false
	}
	return id, true
}
