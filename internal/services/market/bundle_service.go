package market

import (
	"errors"
	"fmt"
	"time"

	"stockgame/internal/game"
	"stockgame/internal/models"

	"gorm.io/gorm"
)

// BundleService reads the precomputed daily market bundle: one
// recommendation, OHLC price and news list per (ticker, date). The
// bundle is produced entirely offline by the upstream pipeline; this
// service never writes to these tables.
type BundleService struct {
	db *gorm.DB
}

// BundleServiceInterface defines the contract for day-bundle reads
type BundleServiceInterface interface {
	GetDayBundle(date string, tickers []string) (*models.DayBundle, error)
	OpenPrices(date string, tickers []string) (map[string]float64, error)
	ClosePrices(date string, tickers []string) (map[string]float64, error)
	LatestDataDate() (string, error)
}

// NewBundleService creates a new bundle service
func NewBundleService(db *gorm.DB) BundleServiceInterface {
	return &BundleService{
		db: db,
	}
}

// GetDayBundle assembles the bundle for one date. On non-trading days
// the previous trading day's close is carried forward as all OHLC
// values with HOLD recommendations, so weekend screens stay consistent.
func (bs *BundleService) GetDayBundle(date string, tickers []string) (*models.DayBundle, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, game.Validationf("invalid date %q: use YYYY-MM-DD", date)
	}

	bundle := &models.DayBundle{
		Date:            date,
		IsTradingDay:    game.IsTradingDay(day),
		Recommendations: make(map[string]models.StockRecommendation),
		Prices:          make(map[string]models.DailyPrice),
	}

	if bundle.IsTradingDay {
		var recs []models.StockRecommendation
		err := bs.db.Where("ticker IN ? AND as_of_date = ?", tickers, date).Find(&recs).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load recommendations for %s: %w", date, err)
		}
		for _, rec := range recs {
			bundle.Recommendations[rec.Ticker] = rec
		}

		var prices []models.DailyPrice
		err = bs.db.Where("ticker IN ? AND date = ?", tickers, date).Find(&prices).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load prices for %s: %w", date, err)
		}
		for _, price := range prices {
			bundle.Prices[price.Ticker] = price
		}
	} else {
		carried, err := bs.carryForwardPrices(day, tickers)
		if err != nil {
			return nil, err
		}
		bundle.Prices = carried
		for _, ticker := range tickers {
			bundle.Recommendations[ticker] = models.StockRecommendation{
				Ticker:          ticker,
				AsOfDate:        date,
				Recommendation:  models.SignalHold,
				Confidence:      1.0,
				TechnicalSignal: "NEUTRAL",
				SentimentSignal: "NEUTRAL",
				RiskLevel:       "LOW_RISK",
			}
		}
	}

	var news []models.NewsArticle
	err = bs.db.Where("ticker IN ? AND published_at >= ? AND published_at < ?",
		tickers, day, day.AddDate(0, 0, 1)).
		Order("published_at DESC").
		Limit(10).
		Find(&news).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load news for %s: %w", date, err)
	}
	bundle.News = news

	return bundle, nil
}

// OpenPrices returns the opening price per ticker for a date. Used for
// trade execution: orders placed on day N execute at day N+1's open.
func (bs *BundleService) OpenPrices(date string, tickers []string) (map[string]float64, error) {
	prices, err := bs.pricesOn(date, tickers)
	if err != nil {
		return nil, err
	}

	opens := make(map[string]float64, len(prices))
	for ticker, price := range prices {
		opens[ticker] = price.Open
	}
	return opens, nil
}

// ClosePrices returns the closing price per ticker for a date, carrying
// the previous trading day forward on weekends.
func (bs *BundleService) ClosePrices(date string, tickers []string) (map[string]float64, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, game.Validationf("invalid date %q: use YYYY-MM-DD", date)
	}

	var prices map[string]models.DailyPrice
	if game.IsTradingDay(day) {
		prices, err = bs.pricesOn(date, tickers)
	} else {
		prices, err = bs.carryForwardPrices(day, tickers)
	}
	if err != nil {
		return nil, err
	}

	closes := make(map[string]float64, len(prices))
	for ticker, price := range prices {
		closes[ticker] = price.Close
	}
	return closes, nil
}

// LatestDataDate returns the most recent date with recommendation data,
// used as the default end date for new rooms.
func (bs *BundleService) LatestDataDate() (string, error) {
	var rec models.StockRecommendation
	err := bs.db.Order("as_of_date DESC").First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", game.NotFoundf("no market data available")
		}
		return "", fmt.Errorf("failed to find latest data date: %w", err)
	}
	return rec.AsOfDate, nil
}

func (bs *BundleService) pricesOn(date string, tickers []string) (map[string]models.DailyPrice, error) {
	var prices []models.DailyPrice
	err := bs.db.Where("ticker IN ? AND date = ?", tickers, date).Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", date, err)
	}

	priceMap := make(map[string]models.DailyPrice, len(prices))
	for _, price := range prices {
		priceMap[price.Ticker] = price
	}
	return priceMap, nil
}

// carryForwardPrices finds the most recent trading day before day with
// complete price data and returns its close as all OHLC values.
func (bs *BundleService) carryForwardPrices(day time.Time, tickers []string) (map[string]models.DailyPrice, error) {
	search := day
	for i := 0; i < 7; i++ {
		search = game.PrevTradingDay(search)
		prices, err := bs.pricesOn(search.Format(models.DateLayout), tickers)
		if err != nil {
			return nil, err
		}
		if len(prices) == len(tickers) {
			carried := make(map[string]models.DailyPrice, len(prices))
			for ticker, price := range prices {
				carried[ticker] = models.DailyPrice{
					Ticker: ticker,
					Date:   day.Format(models.DateLayout),
					Open:   price.Close,
					High:   price.Close,
					Low:    price.Close,
					Close:  price.Close,
					Volume: 0,
				}
			}
			return carried, nil
		}
	}
	return nil, game.NotFoundf("no price data found in the week before %s", day.Format(models.DateLayout))
}
