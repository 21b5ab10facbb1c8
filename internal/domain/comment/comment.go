package comment

import (
	"time"

	"github.com/geocoder89/cotobang/internal/domain/coin"
	"github.com/geocoder89/cotobang/internal/domain/user"
)

type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"comment"`
	UserID    int64     `json:"userId"`
	CoinID    int64     `json:"coinId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Detail is a comment with its author and coin resolved.
type Detail struct {
	Comment
	User user.User `json:"user"`
	Coin coin.Coin `json:"coin"`
}

type CreateRequest struct {
	CoinID int64  `json:"coinId" binding:"required,min=1"`
	UserID int64  `json:"userId" binding:"required,min=1"`
	Body   string `json:"comment" binding:"required,max=2000"`
}

// coinId and userId are accepted for payload symmetry with create but ignored.
type UpdateRequest struct {
	CoinID int64  `json:"coinId" binding:"omitempty,min=1"`
	UserID int64  `json:"userId" binding:"omitempty,min=1"`
	Body   string `json:"comment" binding:"required,max=2000"`
}

func New(coinID, userID int64, body string) Comment {
	now := time.Now().UTC()

	return Comment{
		Body:      body,
		UserID:    userID,
		CoinID:    coinID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c Comment) Edit(body string) Comment {
	c.Body = body
	c.UpdatedAt = time.Now().UTC()
	return c
}
