package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/lachabroderie/shop-api/internal/domain/models"
	"github.com/lachabroderie/shop-api/internal/storage"
)

type ReviewService interface {
	GetReviews(ctx context.Context, productID int64) (*ReviewsResponse, error)
	AddReview(ctx context.Context, review *NewReview) (*models.Review, error)
	LikeReview(ctx context.Context, reviewID string) error
}

// ReviewsResponse bundles a product's reviews with the aggregate the
// storefront shows next to the stars.
type ReviewsResponse struct {
	Reviews       []*models.Review `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	Total         int              `json:"total"`
}

type NewReview struct {
	ProductID int64
	UserName  string
	Rating    int
	Comment   string
}

type reviewService struct {
	log        *slog.Logger
	reviewRepo storage.ReviewStorage
}

func NewReviewService(log *slog.Logger, reviewRepo storage.ReviewStorage) ReviewService {
	return &reviewService{log: log, reviewRepo: reviewRepo}
}

// GetReviews returns the reviews newest-first plus the average rating
// rounded to one decimal.
func (s *reviewService) GetReviews(ctx context.Context, productID int64) (*ReviewsResponse, error) {
	const op = "service.ReviewService.GetReviews"

	reviews, err := s.reviewRepo.GetReviewsByProductID(ctx, productID)
	if err != nil {
		s.log.Error("failed to get reviews", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get reviews: %w", op, err)
	}

	var average float64
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		average = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	return &ReviewsResponse{
		Reviews:       reviews,
		AverageRating: average,
		Total:         len(reviews),
	}, nil
}

func (s *reviewService) AddReview(ctx context.Context, review *NewReview) (*models.Review, error) {
	const op = "service.ReviewService.AddReview"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", review.ProductID))

	model := &models.Review{
		ID:        uuid.New().String(),
		ProductID: review.ProductID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Comment:   review.Comment,
	}

	if err := s.reviewRepo.CreateReview(ctx, model); err != nil {
		logger.Error("failed to create review", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create review: %w", op, err)
	}

	logger.Info("review created", slog.String("reviewID", model.ID))
	return model, nil
}

func (s *reviewService) LikeReview(ctx context.Context, reviewID string) error {
	const op = "service.ReviewService.LikeReview"

	if err := s.reviewRepo.IncrementLikes(ctx, reviewID); err != nil {
		s.log.Error("failed to like review", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
