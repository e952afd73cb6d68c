package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const paymentColumns = `id, meditation_id, user_id, provider, provider_ref, amount_cents, currency, state, created_at, confirmed_at`

const (
	attachPendingPaymentQuery = `
        UPDATE meditation_requests
        SET payment_provider = $2, payment_ref = $3, amount_cents = $4, currency = $5, payment_state = 'pending'
        WHERE id = $1 AND status = 'script_ready' AND payment_state <> 'completed'`

	insertPaymentQuery = `
        INSERT INTO payments (id, meditation_id, user_id, provider, provider_ref, amount_cents, currency, state, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8)`

	getPaymentByRefQuery        = `SELECT ` + paymentColumns + ` FROM payments WHERE provider_ref = $1`
	listPaymentsByMeditationSQL = `SELECT ` + paymentColumns + ` FROM payments WHERE meditation_id = $1 ORDER BY created_at`

	completeMeditationPaymentQuery = `
        UPDATE meditation_requests
        SET payment_state = 'completed', payment_ref = $2, paid_at = $3
        WHERE id = $1 AND payment_state <> 'completed'`

	completePaymentRowQuery = `
        UPDATE payments
        SET state = 'completed', confirmed_at = $3
        WHERE meditation_id = $1 AND provider_ref = $2 AND state <> 'completed'`

	failMeditationPaymentQuery = `
        UPDATE meditation_requests
        SET payment_state = 'failed'
        WHERE id = $1 AND payment_ref = $2 AND payment_state = 'pending'`

	failPaymentRowQuery = `UPDATE payments SET state = 'failed' WHERE meditation_id = $1 AND provider_ref = $2 AND state = 'pending'`

	refundMeditationQuery = `
        UPDATE meditation_requests
        SET payment_state = 'refunded'
        WHERE id = $1 AND status = 'failed' AND payment_state = 'completed'`

	refundPaymentRowsQuery = `UPDATE payments SET state = 'refunded' WHERE meditation_id = $1 AND state = 'completed'`

	meditationPaymentStateQuery = `SELECT payment_state FROM meditation_requests WHERE id = $1`
)

// Compile-time check
var _ interfaces.PaymentRepository = (*pgPaymentRepository)(nil)

type pgPaymentRepository struct {
	db     interfaces.DBTX
	tx     *TransactionHelper
	logger *zap.Logger
}

// NewPgPaymentRepository создает репозиторий платежей. Многошаговые операции идут через tx.
func NewPgPaymentRepository(db interfaces.DBTX, tx *TransactionHelper, logger *zap.Logger) interfaces.PaymentRepository {
	return &pgPaymentRepository{
		db:     db,
		tx:     tx,
		logger: logger.Named("PgPaymentRepo"),
	}
}

func (r *pgPaymentRepository) CreatePending(ctx context.Context, p *models.Payment) error {
	logFields := []zap.Field{
		zap.String("meditationID", p.MeditationID.String()),
		zap.String("provider", string(p.Provider)),
		zap.String("providerRef", p.ProviderRef),
	}

	err := r.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		tag, err := tx.Exec(ctx, attachPendingPaymentQuery,
			p.MeditationID, p.Provider, p.ProviderRef, p.AmountCents, p.Currency)
		if err != nil {
			return fmt.Errorf("failed to attach payment to meditation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return r.explainPaymentPrecondition(ctx, tx, p.MeditationID)
		}

		if _, err := tx.Exec(ctx, insertPaymentQuery,
			p.ID, p.MeditationID, p.UserID, p.Provider, p.ProviderRef, p.AmountCents, p.Currency, p.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("Failed to create pending payment", append(logFields, zap.Error(err))...)
		return err
	}

	p.State = models.PaymentStatePending
	r.logger.Info("Pending payment recorded", logFields...)
	return nil
}

func (r *pgPaymentRepository) GetByProviderRef(ctx context.Context, providerRef string) (*models.Payment, error) {
	var p models.Payment
	if err := pgxscan.Get(ctx, r.db, &p, getPaymentByRefQuery, providerRef); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ref %s: %w", providerRef, err)
	}
	return &p, nil
}

func (r *pgPaymentRepository) ListByMeditation(ctx context.Context, meditationID uuid.UUID) ([]*models.Payment, error) {
	var payments []*models.Payment
	if err := pgxscan.Select(ctx, r.db, &payments, listPaymentsByMeditationSQL, meditationID); err != nil {
		return nil, fmt.Errorf("failed to list payments for %s: %w", meditationID, err)
	}
	return payments, nil
}

func (r *pgPaymentRepository) Complete(ctx context.Context, meditationID uuid.UUID, providerRef string, at time.Time) error {
	logFields := []zap.Field{zap.String("meditationID", meditationID.String()), zap.String("providerRef", providerRef)}

	err := r.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		tag, err := tx.Exec(ctx, completeMeditationPaymentQuery, meditationID, providerRef, at)
		if err != nil {
			return fmt.Errorf("failed to complete meditation payment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// Либо заявки нет, либо параллельное подтверждение успело раньше
			var state models.PaymentState
			if err := tx.QueryRow(ctx, meditationPaymentStateQuery, meditationID).Scan(&state); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return models.ErrNotFound
				}
				return fmt.Errorf("failed to read payment state: %w", err)
			}
			return models.ErrAlreadyPaid
		}

		tag, err = tx.Exec(ctx, completePaymentRowQuery, meditationID, providerRef, at)
		if err != nil {
			return fmt.Errorf("failed to complete payment row: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: payment %s is not recorded for this meditation", models.ErrNotFound, providerRef)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrAlreadyPaid) {
			r.logger.Info("Payment already completed, confirmation ignored", logFields...)
		} else {
			r.logger.Error("Failed to complete payment", append(logFields, zap.Error(err))...)
		}
		return err
	}

	r.logger.Info("Payment completed", logFields...)
	return nil
}

func (r *pgPaymentRepository) MarkFailed(ctx context.Context, meditationID uuid.UUID, providerRef string) error {
	logFields := []zap.Field{zap.String("meditationID", meditationID.String()), zap.String("providerRef", providerRef)}

	err := r.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		// Снимок на заявке мог уже смениться новым платежом, тогда трогаем только строку платежа
		if _, err := tx.Exec(ctx, failMeditationPaymentQuery, meditationID, providerRef); err != nil {
			return fmt.Errorf("failed to mark meditation payment failed: %w", err)
		}
		if _, err := tx.Exec(ctx, failPaymentRowQuery, meditationID, providerRef); err != nil {
			return fmt.Errorf("failed to mark payment row failed: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to record declined payment", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Payment marked failed", logFields...)
	return nil
}

func (r *pgPaymentRepository) MarkRefunded(ctx context.Context, meditationID uuid.UUID) error {
	logFields := []zap.Field{zap.String("meditationID", meditationID.String())}

	err := r.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		tag, err := tx.Exec(ctx, refundMeditationQuery, meditationID)
		if err != nil {
			return fmt.Errorf("failed to mark meditation refunded: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrInvalidState
		}
		if _, err := tx.Exec(ctx, refundPaymentRowsQuery, meditationID); err != nil {
			return fmt.Errorf("failed to mark payments refunded: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("Failed to mark payment refunded", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Payment marked refunded", logFields...)
	return nil
}

// explainPaymentPrecondition различает причины, по которым платеж нельзя привязать.
func (r *pgPaymentRepository) explainPaymentPrecondition(ctx context.Context, tx interfaces.DBTX, meditationID uuid.UUID) error {
	var state models.PaymentState
	if err := tx.QueryRow(ctx, meditationPaymentStateQuery, meditationID).Scan(&state); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to read payment state: %w", err)
	}
	if state == models.PaymentStateCompleted {
		return models.ErrAlreadyPaid
	}
	return models.ErrInvalidState
}
