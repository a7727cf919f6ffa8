package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lachabroderie/shop-api/internal/service"
)

type ShippingQuoteRequest struct {
	Method   string          `json:"method" validate:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type ShippingQuoteResponse struct {
	Method   string          `json:"method"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// ShippingQuoteHandler prices a shipping method for a cart subtotal.
func ShippingQuoteHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ShippingQuoteHandler"
		logger := log.With(slog.String("op", op))

		var req ShippingQuoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, "method is required")
			return
		}

		shipping, err := service.ShippingQuote(req.Method, req.Subtotal)
		if err != nil {
			if errors.Is(err, service.ErrUnknownShippingMethod) {
				respondError(w, http.StatusBadRequest, service.ErrUnknownShippingMethod.Error())
				return
			}
			logger.Error("failed to quote shipping", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to quote shipping")
			return
		}

		respondData(w, http.StatusOK, ShippingQuoteResponse{
			Method:   req.Method,
			Subtotal: req.Subtotal,
			Shipping: shipping,
			Total:    req.Subtotal.Add(shipping),
		})
	}
}
