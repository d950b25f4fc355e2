// Package payout sends the net amount of a bank-destination withdrawal to
// the user's bank account through the payment provider.
package payout

import (
	"context"
	"fmt"
	"log"

	"ajopay/internal/domain/money"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// Request describes one bank payout.
type Request struct {
	Reference string
	UserID    uint
	Amount    money.Money
	BankRef   string // provider-side destination token
}

// Service initiates provider payouts. Implementations must be safe for
// concurrent use.
type Service interface {
	SendBankPayout(ctx context.Context, req Request) (providerID string, err error)
}

type stripeService struct {
	api *client.API
}

// NewStripeService creates a payout service backed by the Stripe API.
func NewStripeService(apiKey string) Service {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &stripeService{api: api}
}

func (s *stripeService) SendBankPayout(ctx context.Context, req Request) (string, error) {
	params := &stripe.PayoutParams{
		Amount:      stripe.Int64(req.Amount.Minor()),
		Currency:    stripe.String(string(req.Amount.Currency())),
		Destination: stripe.String(req.BankRef),
		Method:      stripe.String("standard"),
	}
	params.Context = ctx
	params.AddMetadata("reference", req.Reference)
	params.AddMetadata("user_id", fmt.Sprintf("%d", req.UserID))

	p, err := s.api.Payouts.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payout: %w", err)
	}

	log.Printf("payout: created %s for reference %s", p.ID, req.Reference)
	return p.ID, nil
}
