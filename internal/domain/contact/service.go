package contact

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"diezagency/internal/funnel"
	"diezagency/internal/locale"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Notifier is told about every newly stored lead. Implementations must not
// block the caller on slow delivery.
type Notifier interface {
	LeadCreated(ctx context.Context, c *Contact)
	StatusChanged(ctx context.Context, c *Contact)
}

// RequestMeta is the client information stored alongside a lead.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type metaKey struct{}

// WithRequestMeta attaches client information to ctx for WriteLead.
func WithRequestMeta(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

func requestMeta(ctx context.Context) RequestMeta {
	m, _ := ctx.Value(metaKey{}).(RequestMeta)
	return m
}

// Service stores leads and serves the admin inbox.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *zap.Logger
}

func NewService(repo Repository, notifier Notifier, log *zap.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, log: log}
}

// WriteLead stores a finished funnel lead. A lead whose submission id was
// already stored is accepted without a second row or notification.
func (s *Service) WriteLead(ctx context.Context, lead funnel.Lead) error {
	_, _, err := s.Submit(ctx, lead)
	return err
}

// Submit validates and stores lead. It returns the stored contact and whether
// this call created it.
func (s *Service) Submit(ctx context.Context, lead funnel.Lead) (*Contact, bool, error) {
	if step, ok := funnel.ValidateAll(lead.LeadForm); !ok {
		name := "unknown"
		if st, found := funnel.StepAt(step); found {
			name = st.Name
		}
		return nil, false, fmt.Errorf("%w: step %s", ErrInvalidLead, name)
	}
	if !locale.IsSupported(lead.Lang) {
		lead.Lang = locale.Secondary
	}
	if lead.SubmissionID == "" {
		lead.SubmissionID = uuid.NewString()
	}

	meta := requestMeta(ctx)
	c := &Contact{
		SubmissionID: lead.SubmissionID,
		FirstName:    strings.TrimSpace(lead.FirstName),
		Need:         lead.Need,
		Description:  strings.TrimSpace(lead.Description),
		Budget:       lead.Budget,
		Timeline:     lead.Timeline,
		Email:        strings.TrimSpace(lead.Email),
		Phone:        strings.TrimSpace(lead.Phone),
		Lang:         lead.Lang,
		Status:       StatusNew,
		IPAddress:    meta.IP,
		UserAgent:    truncate(meta.UserAgent, 512),
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, false, fmt.Errorf("store lead: %w", err)
	}
	if !created {
		existing, err := s.repo.GetBySubmissionID(ctx, lead.SubmissionID)
		if err != nil {
			return nil, false, fmt.Errorf("load duplicate lead: %w", err)
		}
		s.log.Info("duplicate lead submission ignored", zap.String("submission_id", lead.SubmissionID))
		return existing, false, nil
	}

	s.log.Info("lead stored",
		zap.Int64("contact_id", c.ID),
		zap.String("lang", string(c.Lang)),
		zap.String("need", string(c.Need)),
	)
	s.notifier.LeadCreated(ctx, c)
	return c, true, nil
}

// GetByID returns a contact.
func (s *Service) GetByID(ctx context.Context, id int64) (*Contact, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns contacts newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status *Status, limit, offset int) ([]Contact, int64, error) {
	if status != nil && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset = max(offset, 0)
	return s.repo.List(ctx, ListFilter{Status: status, Limit: limit, Offset: offset})
}

// UpdateStatus moves a contact to status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Contact, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.StatusChanged(ctx, c)
	return c, nil
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns contact counts by status.
func (s *Service) Stats(ctx context.Context) (map[Status]int64, error) {
	return s.repo.CountByStatus(ctx)
}

// Prune deletes replied leads older than retention.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.repo.DeleteRepliedBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	s.log.Info("pruned replied contacts", zap.Int64("count", n), zap.Duration("retention", retention))
	return n, nil
}

// truncate caps s at n bytes without splitting a rune. Invalid UTF-8 is dropped.
func truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
