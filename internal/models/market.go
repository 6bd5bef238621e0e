package models

import (
	"time"

	"github.com/google/uuid"
)

// Signal is a recommendation signal produced by the offline pipeline.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalHold       Signal = "HOLD"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG_SELL"
)

// IsBuyable reports whether the signal permits a BUY order.
func (s Signal) IsBuyable() bool {
	return s == SignalBuy || s == SignalStrongBuy
}

// StockRecommendation is a precomputed daily recommendation for one
// (ticker, date). Rows are written offline by the upstream pipeline and
// are immutable; this service only reads them.
type StockRecommendation struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Ticker          string    `json:"ticker" gorm:"size:10;not null;index:idx_recommendation_ticker_date"`
	AsOfDate        string    `json:"as_of_date" gorm:"size:10;not null;index:idx_recommendation_ticker_date"`
	Recommendation  Signal    `json:"recommendation" gorm:"size:20;not null"`
	Confidence      float64   `json:"confidence" gorm:"not null"`
	TechnicalSignal string    `json:"technical_signal" gorm:"size:20"`
	SentimentSignal string    `json:"sentiment_signal" gorm:"size:20"`
	RiskLevel       string    `json:"risk_level" gorm:"size:20"`
	CreatedAt       time.Time `json:"created_at"`
}

func (StockRecommendation) TableName() string {
	return "stock_recommendations"
}

// DailyPrice is one immutable OHLCV row per (ticker, date).
type DailyPrice struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Ticker string    `json:"ticker" gorm:"size:10;not null;index:idx_price_ticker_date"`
	Date   string    `json:"date" gorm:"size:10;not null;index:idx_price_ticker_date"`
	Open   float64   `json:"open" gorm:"not null"`
	High   float64   `json:"high" gorm:"not null"`
	Low    float64   `json:"low" gorm:"not null"`
	Close  float64   `json:"close" gorm:"not null"`
	Volume int64     `json:"volume" gorm:"not null;default:0"`
}

func (DailyPrice) TableName() string {
	return "ohlcv_prices"
}

// NewsArticle is an immutable news item attached to a (ticker, date).
type NewsArticle struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Ticker         string    `json:"ticker" gorm:"size:10;not null;index"`
	Headline       string    `json:"headline" gorm:"not null"`
	Source         string    `json:"source" gorm:"size:100"`
	PublishedAt    time.Time `json:"published_at" gorm:"not null;index"`
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
	URL            string    `json:"url"`
}

func (NewsArticle) TableName() string {
	return "news_articles"
}

// DayBundle is the read-only daily bundle the engine consumes: one
// recommendation and price per ticker plus that day's news. Weekend
// bundles carry forward the previous trading day's close with HOLD
// recommendations.
type DayBundle struct {
	Date            string                         `json:"date"`
	IsTradingDay    bool                           `json:"is_trading_day"`
	Recommendations map[string]StockRecommendation `json:"recommendations"`
	Prices          map[string]DailyPrice          `json:"prices"`
	News            []NewsArticle                  `json:"news"`
}
