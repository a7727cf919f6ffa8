package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// webhookAck is the only body the provider ever gets back.
type webhookAck struct {
	Received bool `json:"received"`
}

// PayplugWebhookHandler acknowledges provider notifications. The storefront
// keeps no order state server side, so a paid notification is logged and
// nothing else: the source of truth stays the confirmation page's own
// verification call.
func PayplugWebhookHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PayplugWebhookHandler"
		logger := log.With(slog.String("op", op))

		var notification struct {
			ID     string `json:"id"`
			IsPaid bool   `json:"is_paid"`
		}
		if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
			logger.Error("unreadable webhook payload", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "invalid payload")
			return
		}

		if notification.IsPaid {
			logger.Info("payment notification received",
				slog.String("paymentID", notification.ID),
				slog.Bool("isPaid", notification.IsPaid),
			)
		} else {
			logger.Info("webhook received", slog.String("paymentID", notification.ID))
		}

		respondJSON(w, http.StatusOK, webhookAck{Received: true})
	}
}
