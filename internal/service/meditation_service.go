package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"
	"meditation-server/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateMeditationInput - данные для новой заявки.
type CreateMeditationInput struct {
	Input   models.MeditationInput
	Contact models.Contact
}

// RewriteResult - результат правки сценария.
type RewriteResult struct {
	Text       string
	Applied    bool
	Meditation *models.MeditationRequest
}

// MeditationService - жизненный цикл заявки до оплаты и чтение статуса.
//
//go:generate mockery --name MeditationService --output ../mocks --outpkg mocks --structname MockMeditationService --filename meditation_service_mock.go
type MeditationService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateMeditationInput) (*models.MeditationRequest, error)
	GetStatus(ctx context.Context, userID, id uuid.UUID) (*models.MeditationRequest, error)
	ListMine(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.MeditationRequest, string, error)

	GenerateScript(ctx context.Context, userID, id uuid.UUID) (*models.MeditationRequest, error)
	UpdateScript(ctx context.Context, userID, id uuid.UUID, text string) (*models.MeditationRequest, error)
	RewriteScript(ctx context.Context, userID, id uuid.UUID, toneHint, lengthHint string, apply bool) (*RewriteResult, error)

	// Админские операции, без проверки владельца.
	AdminList(ctx context.Context, status *models.Status, cursor string, limit int) ([]*models.MeditationRequest, string, error)
	AdminGet(ctx context.Context, id uuid.UUID) (*models.MeditationRequest, error)
}

type meditationServiceImpl struct {
	repo        interfaces.MeditationRepository
	scripts     ScriptService
	events      interfaces.StatusEventPublisher
	priceCents  int64
	currency    string
	maxScriptLn int
	logger      *zap.Logger
}

// maxScriptLength ограничивает ручную правку текста.
const maxScriptLength = 20000

// NewMeditationService создает сервис заявок. events может быть nil.
func NewMeditationService(
	repo interfaces.MeditationRepository,
	scripts ScriptService,
	events interfaces.StatusEventPublisher,
	priceCents int64,
	currency string,
	logger *zap.Logger,
) MeditationService {
	return &meditationServiceImpl{
		repo:        repo,
		scripts:     scripts,
		events:      events,
		priceCents:  priceCents,
		currency:    strings.ToLower(currency),
		maxScriptLn: maxScriptLength,
		logger:      logger.Named("MeditationService"),
	}
}

func (s *meditationServiceImpl) Create(ctx context.Context, userID uuid.UUID, in CreateMeditationInput) (*models.MeditationRequest, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthorized
	}
	if err := in.Input.Validate(); err != nil {
		return nil, err
	}
	if err := in.Contact.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &models.MeditationRequest{
		ID:              uuid.New(),
		UserID:          userID,
		MeditationInput: in.Input,
		Contact:         normalizeContact(in.Contact),
		PaymentSnapshot: models.PaymentSnapshot{
			AmountCents:  s.priceCents,
			Currency:     s.currency,
			PaymentState: models.PaymentStatePending,
		},
		Status:    models.StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("Meditation request created", zap.String("meditationID", m.ID.String()), zap.String("userID", userID.String()))
	return m, nil
}

func (s *meditationServiceImpl) GetStatus(ctx context.Context, userID, id uuid.UUID) (*models.MeditationRequest, error) {
	return s.repo.GetByIDForUser(ctx, id, userID)
}

func (s *meditationServiceImpl) ListMine(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.MeditationRequest, string, error) {
	return s.repo.ListByUser(ctx, userID, cursor, utils.NormalizeLimit(limit))
}

func (s *meditationServiceImpl) GenerateScript(ctx context.Context, userID, id uuid.UUID) (*models.MeditationRequest, error) {
	m, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.StatusCreated {
		return nil, fmt.Errorf("%w: script can be generated only in status %s, current %s",
			models.ErrInvalidState, models.StatusCreated, m.Status)
	}

	script, err := s.scripts.Generate(ctx, userID.String(), m.MeditationInput)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetScriptReady(ctx, id, script); err != nil {
		return nil, err
	}
	publishStatus(ctx, s.events, s.logger, id, models.StatusScriptReady, "", "")

	m.OriginalScript = script
	m.FinalScript = script
	m.Status = models.StatusScriptReady
	return m, nil
}

func (s *meditationServiceImpl) UpdateScript(ctx context.Context, userID, id uuid.UUID, text string) (*models.MeditationRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: script text is required", models.ErrInvalidRequest)
	}
	if len(text) > s.maxScriptLn {
		return nil, fmt.Errorf("%w: script must be at most %d characters", models.ErrInvalidRequest, s.maxScriptLn)
	}

	m, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.StatusScriptReady {
		return nil, fmt.Errorf("%w: script can be edited only in status %s, current %s",
			models.ErrInvalidState, models.StatusScriptReady, m.Status)
	}
	if err := s.repo.UpdateScript(ctx, id, text); err != nil {
		return nil, err
	}

	m.EditedScript = utils.StringPtr(text)
	m.FinalScript = text
	return m, nil
}

func (s *meditationServiceImpl) RewriteScript(ctx context.Context, userID, id uuid.UUID, toneHint, lengthHint string, apply bool) (*RewriteResult, error) {
	m, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.StatusScriptReady {
		return nil, fmt.Errorf("%w: script can be rewritten only in status %s, current %s",
			models.ErrInvalidState, models.StatusScriptReady, m.Status)
	}

	text, err := s.scripts.Rewrite(ctx, userID.String(), m.FinalScript, toneHint, lengthHint)
	if err != nil {
		return nil, err
	}

	result := &RewriteResult{Text: text, Meditation: m}
	if !apply {
		return result, nil
	}

	if err := s.repo.UpdateScript(ctx, id, text); err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			s.logger.Warn("Status changed during rewrite, result not applied", zap.String("meditationID", id.String()))
		}
		return nil, err
	}
	m.EditedScript = utils.StringPtr(text)
	m.FinalScript = text
	result.Applied = true
	return result, nil
}

func (s *meditationServiceImpl) AdminList(ctx context.Context, status *models.Status, cursor string, limit int) ([]*models.MeditationRequest, string, error) {
	if status != nil && !status.IsValid() {
		return nil, "", fmt.Errorf("%w: unknown status '%s'", models.ErrInvalidRequest, *status)
	}
	return s.repo.List(ctx, status, cursor, utils.NormalizeLimit(limit))
}

func (s *meditationServiceImpl) AdminGet(ctx context.Context, id uuid.UUID) (*models.MeditationRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func normalizeContact(c models.Contact) models.Contact {
	c.Email = strings.TrimSpace(c.Email)
	if c.Phone != nil && strings.TrimSpace(*c.Phone) == "" {
		c.Phone = nil
	}
	if c.PushToken != nil && strings.TrimSpace(*c.PushToken) == "" {
		c.PushToken = nil
	}
	return c
}
