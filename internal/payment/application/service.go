package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/internal/payment/domain"
)

// Gateway simulates a card processor: every authorization takes a fixed
// delay, and amounts above the limit are declined. A zero limit approves
// everything.
type Gateway struct {
	log   *slog.Logger
	delay time.Duration
	limit decimal.Decimal
}

func NewGateway(log *slog.Logger, delay time.Duration, limit decimal.Decimal) *Gateway {
	return &Gateway{log: log, delay: delay, limit: limit}
}

// Authorize waits for the processing delay and returns the outcome. It returns
// the context error if ctx ends first; no payment is taken in that case.
func (g *Gateway) Authorize(ctx context.Context, orderRef string, amount decimal.Decimal) (domain.Payment, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			g.log.Warn("payment aborted", "order_ref", orderRef, "err", ctx.Err())
			return domain.Payment{}, errors.Wrap(ctx.Err(), "payment aborted")
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return domain.Payment{}, errors.Wrap(err, "payment aborted")
	}

	p := domain.Payment{
		OrderRef:  orderRef,
		Amount:    amount,
		Status:    domain.StatusProcessed,
		CreatedAt: time.Now().UTC(),
	}
	if g.limit.IsPositive() && amount.GreaterThan(g.limit) {
		p.Status = domain.StatusFailed
		p.Reason = "amount exceeds authorization limit"
	}
	g.log.Info("payment processed", "order_ref", orderRef, "amount", amount.String(), "status", p.Status)
	return p, nil
}
