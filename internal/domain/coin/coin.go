package coin

import "time"

type Coin struct {
	ID          int64     `json:"id"`
	KoreanName  string    `json:"koreanName"`
	EnglishName string    `json:"englishName,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	Market      string    `json:"market,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Data is the full descriptive payload used for both create and update.
type Data struct {
	KoreanName  string `json:"koreanName" binding:"required,max=100"`
	EnglishName string `json:"englishName" binding:"omitempty,max=100"`
	Symbol      string `json:"symbol" binding:"omitempty,max=20"`
	Market      string `json:"market" binding:"omitempty,max=40"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

func New(d Data) Coin {
	now := time.Now().UTC()

	return Coin{
		KoreanName:  d.KoreanName,
		EnglishName: d.EnglishName,
		Symbol:      d.Symbol,
		Market:      d.Market,
		Description: d.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply replaces every descriptive field with the given data.
func (c Coin) Apply(d Data) Coin {
	c.KoreanName = d.KoreanName
	c.EnglishName = d.EnglishName
	c.Symbol = d.Symbol
	c.Market = d.Market
	c.Description = d.Description
	c.UpdatedAt = time.Now().UTC()
	return c
}
