package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/msomdec/focusdoro/internal/domain"
)

// PaymentProcessor simulates a payment provider. No real charge is made;
// it hands back a payment reference the subscription record stores.
type PaymentProcessor struct{}

// NewPaymentProcessor creates a new simulated PaymentProcessor.
func NewPaymentProcessor() *PaymentProcessor {
	return &PaymentProcessor{}
}

// Charge simulates charging the user for a plan and returns a payment
// reference.
func (p *PaymentProcessor) Charge(ctx context.Context, userID int64, plan domain.Plan) (string, error) {
	return fmt.Sprintf("sim_%s", uuid.NewString()), nil
}
