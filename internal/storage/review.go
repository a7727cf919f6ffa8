package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lachabroderie/shop-api/internal/domain/models"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewStorage describes the customer reviews repository.
type ReviewStorage interface {
	GetReviewsByProductID(ctx context.Context, productID int64) ([]*models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
	IncrementLikes(ctx context.Context, reviewID string) error
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewStorage {
	return &reviewRepository{db: db}
}

// GetReviewsByProductID returns the product's reviews, newest first.
func (r *reviewRepository) GetReviewsByProductID(ctx context.Context, productID int64) ([]*models.Review, error) {
	query := `SELECT id, product_id, user_name, rating, comment, verified_purchase, likes_count, created_at
	          FROM reviews
	          WHERE product_id = $1
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(&review.ID, &review.ProductID, &review.UserName, &review.Rating,
			&review.Comment, &review.VerifiedPurchase, &review.LikesCount, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	query := `INSERT INTO reviews (id, product_id, user_name, rating, comment, verified_purchase, likes_count, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.ProductID, review.UserName, review.Rating,
		review.Comment, review.VerifiedPurchase, review.LikesCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) IncrementLikes(ctx context.Context, reviewID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET likes_count = likes_count + 1 WHERE id = $1", reviewID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
