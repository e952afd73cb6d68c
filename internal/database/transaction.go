package database

import (
	"context"
	"errors"
	"fmt"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TransactionHelper запускает многошаговые изменения заявки и платежа атомарно.
type TransactionHelper struct {
	db      interfaces.TxBeginner
	options pgx.TxOptions
	logger  *zap.Logger
}

// NewTransactionHelper создает помощник с уровнем изоляции READ COMMITTED:
// гонки за строку заявки разрешаются условными UPDATE, а не сериализацией.
func NewTransactionHelper(db interfaces.TxBeginner, logger *zap.Logger) *TransactionHelper {
	return &TransactionHelper{
		db:      db,
		options: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		logger:  logger.Named("TxHelper"),
	}
}

// WithTransaction выполняет fn в транзакции. Rollback выполняется при ошибке и при панике,
// доменные ошибки fn возвращаются без обертки.
func (h *TransactionHelper) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, tx interfaces.DBTX) error,
) error {
	err := pgx.BeginTxFunc(ctx, h.db, h.options, func(tx pgx.Tx) error {
		return fn(ctx, tx)
	})
	if err == nil || isDomainError(err) {
		return err
	}
	h.logger.Warn("Transaction rolled back", zap.Error(err))
	return fmt.Errorf("transaction: %w", err)
}

func isDomainError(err error) bool {
	return errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidState) ||
		errors.Is(err, models.ErrAlreadyPaid) ||
		errors.Is(err, models.ErrPaymentRequired)
}
