package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"
	"meditation-server/internal/utils"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const meditationColumns = `
    id, user_id,
    goal, mood, challenges, affirmations, duration_minutes, voice, background,
    email, phone, push_token,
    original_script, edited_script, final_script,
    amount_cents, currency, payment_provider, payment_ref, payment_state, paid_at,
    voice_file_url, mixed_file_ref, final_audio_url, audio_duration_sec, audio_size_bytes,
    email_sent, email_sent_at, sms_sent, sms_sent_at, push_sent, push_sent_at,
    status, error, created_at, updated_at`

const (
	createMeditationQuery = `
        INSERT INTO meditation_requests
            (id, user_id, goal, mood, challenges, affirmations, duration_minutes, voice, background,
             email, phone, push_token, amount_cents, currency, payment_state, status, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	getMeditationByIDQuery        = `SELECT ` + meditationColumns + ` FROM meditation_requests WHERE id = $1`
	getMeditationByIDForUserQuery = `SELECT ` + meditationColumns + ` FROM meditation_requests WHERE id = $1 AND user_id = $2`

	listMeditationsByUserQuery = `
        SELECT ` + meditationColumns + ` FROM meditation_requests
        WHERE user_id = $1 AND ($2::timestamptz IS NULL OR (created_at, id) < ($2, $3))
        ORDER BY created_at DESC, id DESC
        LIMIT $4`

	listMeditationsQuery = `
        SELECT ` + meditationColumns + ` FROM meditation_requests
        WHERE ($1::text IS NULL OR status = $1)
          AND ($2::timestamptz IS NULL OR (created_at, id) < ($2, $3))
        ORDER BY created_at DESC, id DESC
        LIMIT $4`

	setScriptReadyQuery = `
        UPDATE meditation_requests
        SET original_script = $2, final_script = $2, status = 'script_ready'
        WHERE id = $1 AND status = 'created'`

	updateScriptQuery = `
        UPDATE meditation_requests
        SET edited_script = $2, final_script = $2
        WHERE id = $1 AND status = 'script_ready'`

	startProcessingQuery = `
        UPDATE meditation_requests
        SET status = 'processing', error = NULL
        WHERE id = $1 AND status = 'script_ready' AND payment_state = 'completed' AND final_script <> ''
        RETURNING ` + meditationColumns

	setVoiceReadyQuery = `
        UPDATE meditation_requests
        SET voice_file_url = $2, status = 'voice_ready'
        WHERE id = $1 AND status = 'processing'`

	setMixedQuery = `
        UPDATE meditation_requests
        SET mixed_file_ref = $2, audio_duration_sec = $3, audio_size_bytes = $4, status = 'mixed'
        WHERE id = $1 AND status = 'voice_ready'`

	setCompletedQuery = `
        UPDATE meditation_requests
        SET final_audio_url = $2, status = 'completed'
        WHERE id = $1 AND status = 'mixed'`

	markFailedQuery = `
        UPDATE meditation_requests
        SET error = $2, status = 'failed'
        WHERE id = $1 AND status IN ('processing', 'voice_ready', 'mixed')`

	recordEmailDeliveryQuery = `UPDATE meditation_requests SET email_sent = TRUE, email_sent_at = $2 WHERE id = $1`
	recordSMSDeliveryQuery   = `UPDATE meditation_requests SET sms_sent = TRUE, sms_sent_at = $2 WHERE id = $1`
	recordPushDeliveryQuery  = `UPDATE meditation_requests SET push_sent = TRUE, push_sent_at = $2 WHERE id = $1`
)

// Compile-time check
var _ interfaces.MeditationRepository = (*pgMeditationRepository)(nil)

type pgMeditationRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgMeditationRepository создает репозиторий заявок поверх пула или транзакции.
func NewPgMeditationRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.MeditationRepository {
	return &pgMeditationRepository{
		db:     db,
		logger: logger.Named("PgMeditationRepo"),
	}
}

func (r *pgMeditationRepository) Create(ctx context.Context, m *models.MeditationRequest) error {
	logFields := []zap.Field{zap.String("meditationID", m.ID.String()), zap.String("userID", m.UserID.String())}
	r.logger.Debug("Creating meditation request", logFields...)

	_, err := r.db.Exec(ctx, createMeditationQuery,
		m.ID, m.UserID,
		m.Goal, m.Mood, m.Challenges, m.Affirmations, m.DurationMinutes, m.Voice, m.Background,
		m.Email, m.Phone, m.PushToken,
		m.AmountCents, m.Currency, m.PaymentState,
		m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create meditation request", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create meditation request: %w", err)
	}
	r.logger.Info("Meditation request created", logFields...)
	return nil
}

func (r *pgMeditationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MeditationRequest, error) {
	var m models.MeditationRequest
	if err := pgxscan.Get(ctx, r.db, &m, getMeditationByIDQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get meditation request", zap.String("meditationID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get meditation request %s: %w", id, err)
	}
	return &m, nil
}

func (r *pgMeditationRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.MeditationRequest, error) {
	var m models.MeditationRequest
	if err := pgxscan.Get(ctx, r.db, &m, getMeditationByIDForUserQuery, id, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Meditation request not found for user",
				zap.String("meditationID", id.String()), zap.String("userID", userID.String()))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get meditation request for user", zap.String("meditationID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get meditation request %s: %w", id, err)
	}
	return &m, nil
}

func (r *pgMeditationRepository) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.MeditationRequest, string, error) {
	cursorTime, cursorID, err := utils.DecodeCursor(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}
	limit = utils.NormalizeLimit(limit)

	var items []*models.MeditationRequest
	err = pgxscan.Select(ctx, r.db, &items, listMeditationsByUserQuery,
		userID, nullableTime(cursorTime), cursorID, limit+1)
	if err != nil {
		r.logger.Error("Failed to list meditation requests", zap.String("userID", userID.String()), zap.Error(err))
		return nil, "", fmt.Errorf("failed to list meditation requests: %w", err)
	}
	items, next := pageOf(items, limit)
	return items, next, nil
}

func (r *pgMeditationRepository) List(ctx context.Context, status *models.Status, cursor string, limit int) ([]*models.MeditationRequest, string, error) {
	cursorTime, cursorID, err := utils.DecodeCursor(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}
	limit = utils.NormalizeLimit(limit)

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	var items []*models.MeditationRequest
	err = pgxscan.Select(ctx, r.db, &items, listMeditationsQuery,
		statusArg, nullableTime(cursorTime), cursorID, limit+1)
	if err != nil {
		r.logger.Error("Failed to list meditation requests (admin)", zap.Error(err))
		return nil, "", fmt.Errorf("failed to list meditation requests: %w", err)
	}
	items, next := pageOf(items, limit)
	return items, next, nil
}

func (r *pgMeditationRepository) SetScriptReady(ctx context.Context, id uuid.UUID, script string) error {
	return r.transition(ctx, id, models.StatusScriptReady, setScriptReadyQuery, script)
}

func (r *pgMeditationRepository) UpdateScript(ctx context.Context, id uuid.UUID, text string) error {
	return r.transition(ctx, id, models.StatusScriptReady, updateScriptQuery, text)
}

func (r *pgMeditationRepository) StartProcessing(ctx context.Context, id uuid.UUID) (*models.MeditationRequest, error) {
	var m models.MeditationRequest
	if err := pgxscan.Get(ctx, r.db, &m, startProcessingQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Start processing lost the compare-and-swap", zap.String("meditationID", id.String()))
			return nil, models.ErrInvalidState
		}
		r.logger.Error("Failed to start processing", zap.String("meditationID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to start processing %s: %w", id, err)
	}
	r.logger.Info("Meditation moved to processing", zap.String("meditationID", id.String()))
	return &m, nil
}

func (r *pgMeditationRepository) SetVoiceReady(ctx context.Context, id uuid.UUID, voiceURL string) error {
	return r.transition(ctx, id, models.StatusVoiceReady, setVoiceReadyQuery, voiceURL)
}

func (r *pgMeditationRepository) SetMixed(ctx context.Context, id uuid.UUID, mixedRef string, durationSec float64, sizeBytes int64) error {
	return r.transition(ctx, id, models.StatusMixed, setMixedQuery, mixedRef, durationSec, sizeBytes)
}

func (r *pgMeditationRepository) SetCompleted(ctx context.Context, id uuid.UUID, finalURL string) error {
	return r.transition(ctx, id, models.StatusCompleted, setCompletedQuery, finalURL)
}

func (r *pgMeditationRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	if reason == "" {
		reason = models.ErrPipelineFailed.Error()
	}
	return r.transition(ctx, id, models.StatusFailed, markFailedQuery, reason)
}

func (r *pgMeditationRepository) RecordDelivery(ctx context.Context, id uuid.UUID, channel models.DeliveryChannel, at time.Time) error {
	var query string
	switch channel {
	case models.DeliveryChannelEmail:
		query = recordEmailDeliveryQuery
	case models.DeliveryChannelSMS:
		query = recordSMSDeliveryQuery
	case models.DeliveryChannelPush:
		query = recordPushDeliveryQuery
	default:
		return fmt.Errorf("%w: unknown delivery channel '%s'", models.ErrInvalidRequest, channel)
	}

	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.logger.Error("Failed to record delivery", zap.String("meditationID", id.String()), zap.String("channel", string(channel)), zap.Error(err))
		return fmt.Errorf("failed to record %s delivery for %s: %w", channel, id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// transition выполняет CAS-обновление; ноль строк означает, что статус уже другой.
func (r *pgMeditationRepository) transition(ctx context.Context, id uuid.UUID, target models.Status, query string, args ...interface{}) error {
	logFields := []zap.Field{zap.String("meditationID", id.String()), zap.String("targetStatus", string(target))}

	tag, err := r.db.Exec(ctx, query, append([]interface{}{id}, args...)...)
	if err != nil {
		r.logger.Error("Failed to update meditation status", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update meditation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Meditation update skipped: status precondition not met", logFields...)
		return models.ErrInvalidState
	}
	r.logger.Debug("Meditation updated", logFields...)
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// pageOf отрезает лишнюю запись (запрошено limit+1) и строит курсор следующей страницы.
func pageOf(items []*models.MeditationRequest, limit int) ([]*models.MeditationRequest, string) {
	if len(items) <= limit {
		return items, ""
	}
	items = items[:limit]
	last := items[len(items)-1]
	return items, utils.EncodeCursor(last.CreatedAt, last.ID)
}
