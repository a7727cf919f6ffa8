package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lachabroderie/shop-api/internal/clients/payplug"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidProviderResponse means the provider accepted the payment but
	// returned neither a hosted payment URL nor a payment id; the storefront
	// must never treat that as success.
	ErrInvalidProviderResponse = errors.New("invalid provider response")
)

// PaymentProvider is the slice of the PayPlug client the service needs.
type PaymentProvider interface {
	CreatePayment(ctx context.Context, req *payplug.CreatePaymentRequest) (*payplug.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*payplug.Payment, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, order *OrderRequest) (*PaymentCreated, error)
	GetPayment(ctx context.Context, paymentID string) (json.RawMessage, error)
	VerifyPayment(ctx context.Context, paymentID string) (*VerifyResult, error)
}

// OrderRequest is the checkout form data plus the cart total, in major
// currency units.
type OrderRequest struct {
	Amount        decimal.Decimal
	Email         string
	FirstName     string
	LastName      string
	StreetAddress string
	Postcode      string
	City          string
	Country       string
}

// PaymentCreated is the gateway's answer: where to redirect the shopper and
// the only durable handles the storefront keeps.
type PaymentCreated struct {
	PaymentURL        string `json:"payment_url"`
	PaymentID         string `json:"payment_id"`
	ConfirmationToken string `json:"confirmation_token"`
}

// VerifyResult is the normalized, flattened view of a provider payment.
type VerifyResult struct {
	Status            string          `json:"status"` // "paid" | "pending"
	PaymentID         string          `json:"payment_id"`
	Amount            int64           `json:"amount"`
	Customer          Customer        `json:"customer"`
	ShippingAddress   ShippingAddress `json:"shipping_address"`
	ConfirmationToken string          `json:"confirmation_token,omitempty"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ShippingAddress struct {
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	Postcode      string `json:"postcode"`
}

type paymentService struct {
	log      *slog.Logger
	provider PaymentProvider
	siteURL  string
}

func NewPaymentService(log *slog.Logger, provider PaymentProvider, siteURL string) PaymentService {
	return &paymentService{
		log:      log,
		provider: provider,
		siteURL:  siteURL,
	}
}

// CreatePayment turns a checkout order into a hosted payment at the
// provider and hands back the redirect URL. Nothing is persisted server
// side: the payment id and the confirmation token live only in the response
// and, afterwards, in the shopper's browser.
func (s *paymentService) CreatePayment(ctx context.Context, order *OrderRequest) (*PaymentCreated, error) {
	const op = "service.PaymentService.CreatePayment"
	logger := s.log.With(slog.String("op", op), slog.String("email", order.Email))

	if !order.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	token, err := newConfirmationToken()
	if err != nil {
		logger.Error("failed to generate confirmation token", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	country := order.Country
	if country == "" {
		country = "FR"
	}

	// major -> minor units, round half away from zero (49.995 EUR -> 5000)
	amountCents := order.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	req := &payplug.CreatePaymentRequest{
		Amount:          amountCents,
		Currency:        "EUR",
		NotificationURL: s.siteURL + "/api/webhooks/payplug",
		HostedPayment: payplug.HostedPayment{
			ReturnURL: s.siteURL + "/commande/confirmation?success=true&token=" + token,
			CancelURL: s.siteURL + "/commande/annulation",
		},
		Billing: payplug.Contact{
			Email:     order.Email,
			FirstName: order.FirstName,
			LastName:  order.LastName,
		},
		Shipping: &payplug.Contact{
			Email:        order.Email,
			FirstName:    order.FirstName,
			LastName:     order.LastName,
			DeliveryType: "BILLING",
			Address: &payplug.Address{
				StreetAddress: order.StreetAddress,
				Postcode:      order.Postcode,
				City:          order.City,
				Country:       country,
			},
		},
		Metadata: map[string]string{
			"customer_id":        order.Email,
			"confirmation_token": token,
		},
		Force3DS: true,
	}

	logger.Info("creating hosted payment", slog.Int64("amount_cents", amountCents))

	payment, err := s.provider.CreatePayment(ctx, req)
	if err != nil {
		logger.Error("provider payment creation failed", slog.Any("error", err))
		return nil, err
	}

	if payment.ID == "" || payment.HostedPayment.PaymentURL == "" {
		logger.Error("provider response missing payment url or id")
		return nil, ErrInvalidProviderResponse
	}

	logger.Info("hosted payment created", slog.String("paymentID", payment.ID))
	return &PaymentCreated{
		PaymentURL:        payment.HostedPayment.PaymentURL,
		PaymentID:         payment.ID,
		ConfirmationToken: token,
	}, nil
}

// GetPayment is a raw read-through: the provider's payment object, verbatim.
func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (json.RawMessage, error) {
	const op = "service.PaymentService.GetPayment"

	payment, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		s.log.Error("failed to get payment", slog.String("op", op), slog.Any("error", err))
		return nil, err
	}
	return payment.Raw, nil
}

// VerifyPayment fetches the payment and normalizes it: the boolean paid
// flag becomes "paid"/"pending", nested contact fields are flattened with
// empty strings for anything missing.
func (s *paymentService) VerifyPayment(ctx context.Context, paymentID string) (*VerifyResult, error) {
	const op = "service.PaymentService.VerifyPayment"
	logger := s.log.With(slog.String("op", op), slog.String("paymentID", paymentID))

	payment, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		logger.Error("failed to fetch payment", slog.Any("error", err))
		return nil, err
	}

	status := "pending"
	if payment.IsPaid {
		status = "paid"
	}

	result := &VerifyResult{
		Status:            status,
		PaymentID:         payment.ID,
		Amount:            payment.Amount,
		ConfirmationToken: payment.Metadata["confirmation_token"],
	}
	if b := payment.Billing; b != nil {
		result.Customer = Customer{
			FirstName: b.FirstName,
			LastName:  b.LastName,
			Email:     b.Email,
		}
	}
	if sh := payment.Shipping; sh != nil && sh.Address != nil {
		result.ShippingAddress = ShippingAddress{
			StreetAddress: sh.Address.StreetAddress,
			City:          sh.Address.City,
			Postcode:      sh.Address.Postcode,
		}
	}

	logger.Info("payment verified", slog.String("status", status))
	return result, nil
}

// newConfirmationToken returns 32 random bytes, hex encoded.
func newConfirmationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
