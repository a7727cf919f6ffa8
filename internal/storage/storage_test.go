package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lachabroderie/shop-api/internal/domain/models"
	"github.com/lachabroderie/shop-api/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var productColumns = []string{"id", "name", "description", "price", "image_url", "stock", "category", "size", "created_at"}

func TestGetProductByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(productColumns).
		AddRow(1, "Bavoir personnalisé", "Bavoir en coton bio", "14.90", "https://example.com/bavoir.jpg", 12, "bavoirs", "", now)

	mock.ExpectQuery("SELECT id, name, description, price, image_url, stock, category, size, created_at").
		WithArgs(int64(1)).WillReturnRows(rows)

	product, err := repo.GetProductByID(ctx, 1)
	assert.NoError(t, err, "Expected no error when product is found")
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "Bavoir personnalisé", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("14.90")))
	assert.Equal(t, 12, product.Stock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	rows := sqlmock.NewRows(productColumns)
	mock.ExpectQuery("SELECT id, name, description, price, image_url, stock, category, size, created_at").
		WithArgs(int64(42)).WillReturnRows(rows)

	product, err := repo.GetProductByID(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
	assert.Nil(t, product)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(productColumns).
		AddRow(1, "Bavoir personnalisé", "", "14.90", "", 12, "bavoirs", "", now).
		AddRow(2, "Serviette brodée", "", "24.50", "", 3, "serviettes", "50x100", now)

	mock.ExpectQuery("SELECT id, name, description, price, image_url, stock, category, size, created_at").
		WillReturnRows(rows)

	products, err := repo.ListProducts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Serviette brodée", products[1].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProduct_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	product := &models.Product{
		Name:     "Cape de bain",
		Price:    decimal.RequireFromString("29.90"),
		Stock:    5,
		Category: "capes",
	}

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(product.Name, product.Description, product.Price, product.ImageURL,
			product.Stock, product.Category, product.Size).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	created, err := repo.CreateProduct(context.Background(), product)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProduct_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	product := &models.Product{ID: 99, Name: "Cape de bain", Price: decimal.RequireFromString("29.90")}

	mock.ExpectExec("UPDATE products SET").
		WithArgs(product.Name, product.Description, product.Price, product.ImageURL,
			product.Stock, product.Category, product.Size, product.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateProduct(context.Background(), product)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	mock.ExpectExec("DELETE FROM products").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteProduct(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

var reviewColumns = []string{"id", "product_id", "user_name", "rating", "comment", "verified_purchase", "likes_count", "created_at"}

func TestGetReviewsByProductID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewReviewRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(reviewColumns).
		AddRow("a1b2", 1, "Claire", 5, "Broderie magnifique", true, 3, now).
		AddRow("c3d4", 1, "Marion", 4, "Très joli", false, 0, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, product_id, user_name, rating, comment, verified_purchase, likes_count, created_at").
		WithArgs(int64(1)).WillReturnRows(rows)

	reviews, err := repo.GetReviewsByProductID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, "Claire", reviews[0].UserName)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.True(t, reviews[0].VerifiedPurchase)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewReviewRepository(db)
	review := &models.Review{
		ID:        "a1b2",
		ProductID: 1,
		UserName:  "Claire",
		Rating:    5,
		Comment:   "Broderie magnifique",
	}

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(review.ID, review.ProductID, review.UserName, review.Rating,
			review.Comment, review.VerifiedPurchase, review.LikesCount).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.CreateReview(context.Background(), review))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewReviewRepository(db)
	review := &models.Review{ID: "a1b2", ProductID: 1, UserName: "Claire", Rating: 5}

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(errors.New("db error"))

	err = repo.CreateReview(context.Background(), review)
	assert.Error(t, err, "Expected error when insert fails")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementLikes_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewReviewRepository(db)

	mock.ExpectExec("UPDATE reviews SET likes_count").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.IncrementLikes(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrReviewNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
