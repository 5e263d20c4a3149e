package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
)

type Payment struct {
	OrderRef  string
	Amount    decimal.Decimal
	Status    Status
	Reason    string
	CreatedAt time.Time
}

func (p Payment) Approved() bool { return p.Status == StatusProcessed }
