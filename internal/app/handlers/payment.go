package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lachabroderie/shop-api/internal/clients/payplug"
	"github.com/lachabroderie/shop-api/internal/service"
)

// CreatePaymentRequest is the checkout page's order: the grand total in
// euros plus the shipping form.
type CreatePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Customer struct {
		Email     string `json:"email" validate:"required,email"`
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
	} `json:"customer" validate:"required"`
	ShippingAddress struct {
		StreetAddress string `json:"street_address"`
		Postcode      string `json:"postcode"`
		City          string `json:"city"`
		Country       string `json:"country"`
	} `json:"shipping_address"`
}

// CreatePaymentHandler creates a hosted payment at the provider and returns
// the redirect URL, the payment id and the confirmation token.
func CreatePaymentHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreatePaymentHandler"
		logger := log.With(slog.String("op", op))

		var req CreatePaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "amount and customer are required")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "amount and customer are required")
			return
		}

		order := &service.OrderRequest{
			Amount:        req.Amount,
			Email:         req.Customer.Email,
			FirstName:     req.Customer.FirstName,
			LastName:      req.Customer.LastName,
			StreetAddress: req.ShippingAddress.StreetAddress,
			Postcode:      req.ShippingAddress.Postcode,
			City:          req.ShippingAddress.City,
			Country:       req.ShippingAddress.Country,
		}

		created, err := paymentService.CreatePayment(r.Context(), order)
		if err != nil {
			var providerErr *payplug.ProviderError
			switch {
			case errors.Is(err, service.ErrInvalidAmount):
				respondError(w, http.StatusBadRequest, service.ErrInvalidAmount.Error())
			case errors.As(err, &providerErr):
				logger.Error("provider refused payment", slog.Any("error", providerErr))
				respondError(w, providerErr.StatusCode, providerErr.Message)
			default:
				logger.Error("payment creation failed", slog.Any("error", err))
				respondError(w, http.StatusInternalServerError, "failed to create payment")
			}
			return
		}

		respondData(w, http.StatusOK, created)
	}
}

// GetPaymentHandler proxies a raw provider payment object by id, for
// debugging from the browser.
func GetPaymentHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetPaymentHandler"
		logger := log.With(slog.String("op", op))

		paymentID := r.URL.Query().Get("id")
		if paymentID == "" {
			respondError(w, http.StatusBadRequest, "payment id is required")
			return
		}

		raw, err := paymentService.GetPayment(r.Context(), paymentID)
		if err != nil {
			var providerErr *payplug.ProviderError
			if errors.As(err, &providerErr) {
				respondError(w, providerErr.StatusCode, providerErr.Message)
				return
			}
			logger.Error("failed to fetch payment", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to fetch payment")
			return
		}

		respondData(w, http.StatusOK, json.RawMessage(raw))
	}
}

// VerifyPaymentHandler is the confirmation page's endpoint: it returns the
// flattened verification result without the data envelope, so the page can
// read the status and the token directly.
func VerifyPaymentHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.VerifyPaymentHandler"
		logger := log.With(slog.String("op", op))

		paymentID := r.URL.Query().Get("payment_id")
		if paymentID == "" {
			respondError(w, http.StatusBadRequest, "payment_id is required")
			return
		}

		result, err := paymentService.VerifyPayment(r.Context(), paymentID)
		if err != nil {
			var providerErr *payplug.ProviderError
			if errors.As(err, &providerErr) {
				respondError(w, providerErr.StatusCode, providerErr.Message)
				return
			}
			logger.Error("verification failed", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to verify payment")
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}
