package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"diezagency/internal/database"
	"diezagency/internal/domain/article"
	"diezagency/internal/domain/contact"
	"diezagency/internal/pkg/jwt"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
	minPasswordLength      = 10
)

// The dashboard reads its counts through these.
type (
	ArticleCounter interface {
		Stats(ctx context.Context) (article.Stats, error)
	}
	RealisationCounter interface {
		Count(ctx context.Context) (int64, error)
	}
	ContactCounter interface {
		Stats(ctx context.Context) (map[contact.Status]int64, error)
	}
)

// Counters groups the dashboard sources.
type Counters struct {
	Articles     ArticleCounter
	Realisations RealisationCounter
	Contacts     ContactCounter
}

type Service struct {
	repo     AdminRepository
	jwt      *jwt.Service
	counters Counters
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo AdminRepository, jwtService *jwt.Service, counters Counters, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		jwt:      jwtService,
		counters: counters,
		log:      log,
		now:      time.Now,
	}
}

// Login checks credentials and returns a signed token. Repeated failures lock
// the account for a while.
func (s *Service) Login(ctx context.Context, email, password, ip string) (string, *AdminUser, error) {
	admin, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	now := s.now()
	if !admin.IsActive {
		return "", nil, ErrAccountDisabled
	}
	if admin.LockedUntil != nil && admin.LockedUntil.After(now) {
		return "", nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		admin.FailedLoginAttempts++
		locked := admin.FailedLoginAttempts >= maxFailedLoginAttempts
		if locked {
			until := now.Add(lockoutDuration)
			admin.LockedUntil = &until
			admin.FailedLoginAttempts = 0
		}
		if err := s.repo.Update(ctx, admin); err != nil {
			return "", nil, err
		}
		if locked {
			s.log.Warn("admin account locked", zap.String("admin_id", admin.ID), zap.String("ip", ip))
			return "", nil, ErrAccountLocked
		}
		return "", nil, ErrInvalidCredentials
	}

	admin.FailedLoginAttempts = 0
	admin.LockedUntil = nil
	admin.LastLoginAt = &now
	admin.LastLoginIP = ip
	if err := s.repo.Update(ctx, admin); err != nil {
		return "", nil, err
	}

	token, err := s.jwt.GenerateToken(admin.ID, admin.Role)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("admin logged in", zap.String("admin_id", admin.ID))
	return token, admin, nil
}

func (s *Service) GetAdminByID(ctx context.Context, id string) (*AdminUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]AdminUser, error) {
	return s.repo.List(ctx)
}

// CreateAdmin registers an active account.
func (s *Service) CreateAdmin(ctx context.Context, email, name, password, role string) (*AdminUser, error) {
	if role == "" {
		role = RoleEditor
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	admin := &AdminUser{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return admin, nil
}

// SetPassword replaces the password and clears any lockout.
func (s *Service) SetPassword(ctx context.Context, email, password string) error {
	admin, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	admin.FailedLoginAttempts = 0
	admin.LockedUntil = nil
	admin.UpdatedAt = s.now()
	return s.repo.Update(ctx, admin)
}

// Stats is the dashboard summary.
type Stats struct {
	Realisations      int64                    `json:"realisations"`
	Articles          int64                    `json:"articles"`
	PublishedArticles int64                    `json:"published_articles"`
	Contacts          map[contact.Status]int64 `json:"contacts"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	realisations, err := s.counters.Realisations.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count realisations: %w", err)
	}
	articles, err := s.counters.Articles.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}
	contacts, err := s.counters.Contacts.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	return &Stats{
		Realisations:      realisations,
		Articles:          articles.Total,
		PublishedArticles: articles.Published,
		Contacts:          contacts,
	}, nil
}

func hashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
