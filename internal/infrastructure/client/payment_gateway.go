package client

import (
	"context"
	"fmt"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// declineCents is the fractional amount the simulated gateway always
// declines.
var declineCents = decimal.NewFromFloat(0.13)

// SimulatedGateway is a deterministic stand-in for a real payment
// processor. Charges settle immediately unless the amount carries the
// magic decline cents.
type SimulatedGateway struct{}

// NewSimulatedGateway creates the simulated gateway
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

var _ port.PaymentGateway = (*SimulatedGateway)(nil)

func (g *SimulatedGateway) Charge(ctx context.Context, payment *entity.Payment) (string, error) {
	if cents(payment.Amount).Equal(declineCents) {
		return "", fmt.Errorf("card declined")
	}
	return "PAY-" + uuid.New().String(), nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, payment *entity.Payment, originalReference string) (string, error) {
	if originalReference == "" {
		return "", fmt.Errorf("missing original gateway reference")
	}
	return "REF-" + originalReference, nil
}

func cents(amount decimal.Decimal) decimal.Decimal {
	return amount.Abs().Mod(decimal.NewFromInt(1)).Round(2)
}
