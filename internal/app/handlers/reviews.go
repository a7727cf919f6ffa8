package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lachabroderie/shop-api/internal/service"
	"github.com/lachabroderie/shop-api/internal/storage"
)

type CreateReviewRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	UserName  string `json:"user_name" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
}

// GetReviewsHandler returns a product's reviews plus the average rating.
func GetReviewsHandler(log *slog.Logger, reviewService service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetReviewsHandler"
		logger := log.With(slog.String("op", op))

		productID, err := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "product_id is required")
			return
		}

		reviews, err := reviewService.GetReviews(r.Context(), productID)
		if err != nil {
			logger.Error("failed to fetch reviews", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to fetch reviews")
			return
		}

		respondData(w, http.StatusOK, reviews)
	}
}

// CreateReviewHandler stores a new review.
func CreateReviewHandler(log *slog.Logger, reviewService service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateReviewHandler"
		logger := log.With(slog.String("op", op))

		var req CreateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
			return
		}

		review, err := reviewService.AddReview(r.Context(), &service.NewReview{
			ProductID: req.ProductID,
			UserName:  req.UserName,
			Rating:    req.Rating,
			Comment:   req.Comment,
		})
		if err != nil {
			logger.Error("failed to create review", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to create review")
			return
		}

		respondData(w, http.StatusCreated, review)
	}
}

// LikeReviewHandler bumps the like counter of a review.
func LikeReviewHandler(log *slog.Logger, reviewService service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LikeReviewHandler"
		logger := log.With(slog.String("op", op))

		reviewID := chi.URLParam(r, "id")
		if reviewID == "" {
			respondError(w, http.StatusBadRequest, "review id is required")
			return
		}

		if err := reviewService.LikeReview(r.Context(), reviewID); err != nil {
			if errors.Is(err, storage.ErrReviewNotFound) {
				respondError(w, http.StatusNotFound, "review not found")
				return
			}
			logger.Error("failed to like review", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "failed to like review")
			return
		}

		respondData(w, http.StatusOK, map[string]bool{"liked": true})
	}
}
