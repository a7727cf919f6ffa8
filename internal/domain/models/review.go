package models

import "time"

type Review struct {
	ID               string    `json:"id"`
	ProductID        int64     `json:"product_id"`
	UserName         string    `json:"user_name"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	LikesCount       int       `json:"likes_count"`
	CreatedAt        time.Time `json:"created_at"`
}
