package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lachabroderie/shop-api/internal/service"
	"github.com/lachabroderie/shop-api/internal/storage"
)

// ListProductsHandler returns the whole catalog, newest first.
func ListProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := catalogService.ListProducts(r.Context())
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to list products")
			return
		}

		respondData(w, http.StatusOK, products)
	}
}

// GetProductHandler returns one product by id.
func GetProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}

		product, err := catalogService.GetProduct(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				respondError(w, http.StatusNotFound, "product not found")
				return
			}
			logger.Error("failed to fetch product", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to fetch product")
			return
		}

		respondData(w, http.StatusOK, product)
	}
}
