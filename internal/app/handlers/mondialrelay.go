package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lachabroderie/shop-api/internal/clients/mondialrelay"
	"github.com/lachabroderie/shop-api/internal/domain/models"
	"github.com/lachabroderie/shop-api/internal/service"
)

// RelaySearchRequest carries the postal code to search around. Five digits
// by convention; anything beyond presence is left for the provider to
// judge, whose own error comes back with its Libelle text.
type RelaySearchRequest struct {
	CodePostal string `json:"codePostal" validate:"required"`
}

// RelaySearchResponse carries the pickup points plus a debug block the
// checkout page prints when the SOAP call misbehaves.
type RelaySearchResponse struct {
	Points []models.PointRelais `json:"points"`
	Debug  RelayDebug           `json:"debug"`
}

type RelayDebug struct {
	Statut         string `json:"statut"`
	ResponseLength int    `json:"responseLength"`
	FirstPart      string `json:"firstPart"`
}

// RelaySearchHandler looks up Mondial Relay pickup points around a postal
// code.
func RelaySearchHandler(log *slog.Logger, relayService service.RelayService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RelaySearchHandler"
		logger := log.With(slog.String("op", op))

		var req RelaySearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "codePostal is required")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "codePostal is required")
			return
		}

		result, err := relayService.Search(r.Context(), req.CodePostal)
		if err != nil {
			var providerErr *mondialrelay.ProviderError
			switch {
			case errors.Is(err, service.ErrNoPointsFound):
				respondError(w, http.StatusNotFound, service.ErrNoPointsFound.Error())
			case errors.As(err, &providerErr):
				logger.Error("provider refused lookup", slog.Any("error", providerErr))
				respondError(w, http.StatusBadRequest, providerErr.Message)
			default:
				logger.Error("pickup point lookup failed", slog.Any("error", err))
				respondError(w, http.StatusInternalServerError, "failed to search pickup points")
			}
			return
		}

		respondJSON(w, http.StatusOK, RelaySearchResponse{
			Points: result.Points,
			Debug: RelayDebug{
				Statut:         result.Stat,
				ResponseLength: result.ResponseLength,
				FirstPart:      result.Preview,
			},
		})
	}
}
