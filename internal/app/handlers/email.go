package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lachabroderie/shop-api/internal/service"
)

type OrderEmailRequest struct {
	OrderNumber     string            `json:"orderNumber" validate:"required"`
	CustomerName    string            `json:"customerName" validate:"required"`
	CustomerEmail   string            `json:"customerEmail" validate:"required,email"`
	Items           []OrderEmailItem  `json:"items" validate:"required,min=1,dive"`
	Total           decimal.Decimal   `json:"total" validate:"required"`
	ShippingAddress OrderEmailAddress `json:"shippingAddress" validate:"required"`
}

type OrderEmailAddress struct {
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	Postcode string `json:"postcode" validate:"required"`
}

type OrderEmailItem struct {
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

// OrderEmailHandler sends the order confirmation mail after a successful
// checkout.
func OrderEmailHandler(log *slog.Logger, emailService service.EmailService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderEmailHandler"
		logger := log.With(slog.String("op", op))

		var req OrderEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "missing order details")
			return
		}

		items := make([]service.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, service.OrderItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}

		order := &service.OrderConfirmation{
			OrderNumber:   req.OrderNumber,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			Items:         items,
			Total:         req.Total,
			Street:        req.ShippingAddress.Street,
			City:          req.ShippingAddress.City,
			Postcode:      req.ShippingAddress.Postcode,
		}

		if err := emailService.SendOrderConfirmation(r.Context(), order); err != nil {
			logger.Error("failed to send confirmation mail", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to send email")
			return
		}

		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
