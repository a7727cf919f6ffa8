package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lachabroderie/shop-api/internal/domain/models"
	"github.com/lachabroderie/shop-api/internal/service"
	"github.com/lachabroderie/shop-api/internal/storage"
)

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

// AdminLoginHandler exchanges the back-office password for a session token.
func AdminLoginHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminLoginHandler"
		logger := log.With(slog.String("op", op))

		var req AdminLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "password is required")
			return
		}

		if err := validate.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, "password is required")
			return
		}

		token, err := adminService.Login(r.Context(), req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			logger.Error("login failed", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "login failed")
			return
		}

		respondData(w, http.StatusOK, AdminLoginResponse{Token: token})
	}
}

type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock" validate:"min=0"`
	Category    string          `json:"category" validate:"required"`
	Size        string          `json:"size"`
}

// CreateProductHandler adds a product to the catalog.
func CreateProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "name, price and category are required")
			return
		}

		product, err := catalogService.CreateProduct(r.Context(), &models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Stock:       req.Stock,
			Category:    req.Category,
			Size:        req.Size,
		})
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to create product")
			return
		}

		respondData(w, http.StatusCreated, product)
	}
}

// UpdateProductHandler replaces a product's fields.
func UpdateProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "name, price and category are required")
			return
		}

		product := &models.Product{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Stock:       req.Stock,
			Category:    req.Category,
			Size:        req.Size,
		}

		if err := catalogService.UpdateProduct(r.Context(), product); err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				respondError(w, http.StatusNotFound, "product not found")
				return
			}
			logger.Error("failed to update product", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to update product")
			return
		}

		respondData(w, http.StatusOK, product)
	}
}

// DeleteProductHandler removes a product from the catalog.
func DeleteProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}

		if err := catalogService.DeleteProduct(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				respondError(w, http.StatusNotFound, "product not found")
				return
			}
			logger.Error("failed to delete product", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to delete product")
			return
		}

		respondData(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
