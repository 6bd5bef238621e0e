package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// Holding is a position in a single ticker.
type Holding struct {
	Shares  int     `json:"shares"`
	AvgCost float64 `json:"avgCost"`
}

// Holdings maps ticker to position, stored as a JSON column.
type Holdings map[string]Holding

// Scan implements the Scanner interface for GORM
func (h *Holdings) Scan(value interface{}) error {
	if value == nil {
		*h = Holdings{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Holdings", value)
	}

	if len(bytes) == 0 {
		*h = Holdings{}
		return nil
	}

	return json.Unmarshal(bytes, h)
}

// Value implements the Valuer interface for GORM
func (h Holdings) Value() (driver.Value, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h)
}

// Trade is one executed trade in a player's append-only history.
// Price is the execution price: the opening price of the trading day
// after the order was placed.
type Trade struct {
	Ticker string      `json:"ticker"`
	Action TradeAction `json:"action"`
	Shares int         `json:"shares"`
	Day    int         `json:"day"`
	Price  float64     `json:"price"`
}

// TradeLog is a player's full trade history, stored as a JSON column.
type TradeLog []Trade

// Scan implements the Scanner interface for GORM
func (tl *TradeLog) Scan(value interface{}) error {
	if value == nil {
		*tl = TradeLog{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into TradeLog", value)
	}

	if len(bytes) == 0 {
		*tl = TradeLog{}
		return nil
	}

	return json.Unmarshal(bytes, tl)
}

// Value implements the Valuer interface for GORM
func (tl TradeLog) Value() (driver.Value, error) {
	if tl == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(tl)
}

// PortfolioSnapshot is one daily entry in a player's portfolio history.
type PortfolioSnapshot struct {
	Day   int     `json:"day"`
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// PortfolioHistory is the append-only list of daily snapshots.
type PortfolioHistory []PortfolioSnapshot

// Scan implements the Scanner interface for GORM
func (ph *PortfolioHistory) Scan(value interface{}) error {
	if value == nil {
		*ph = PortfolioHistory{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into PortfolioHistory", value)
	}

	if len(bytes) == 0 {
		*ph = PortfolioHistory{}
		return nil
	}

	return json.Unmarshal(bytes, ph)
}

// Value implements the Valuer interface for GORM
func (ph PortfolioHistory) Value() (driver.Value, error) {
	if ph == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(ph)
}

// Player is one participant in a room. Player rows are owned by their
// room and cascade-deleted with it. PlayerName is unique within a room.
type Player struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RoomID uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index"`

	PlayerName  string `json:"player_name" gorm:"size:100;not null;index"`
	PlayerEmail string `json:"player_email,omitempty" gorm:"size:200"`

	// CurrentDay is independent in async mode, synchronized to the room
	// in sync and sync_auto modes. 0-indexed.
	CurrentDay int  `json:"current_day" gorm:"not null;default:0"`
	IsFinished bool `json:"is_finished" gorm:"not null;default:false"`

	Cash     float64  `json:"cash" gorm:"not null"`
	Holdings Holdings `json:"holdings" gorm:"type:json;not null"`
	Trades   TradeLog `json:"trades" gorm:"type:json;not null"`

	PortfolioValue float64 `json:"portfolio_value" gorm:"not null"`
	TotalReturnPct float64 `json:"total_return_pct" gorm:"not null;default:0"`
	TotalReturnUSD float64 `json:"total_return_usd" gorm:"not null;default:0"`

	Score float64 `json:"score" gorm:"not null;default:0"`
	Grade string  `json:"grade" gorm:"size:2;not null;default:C"`

	PortfolioHistory PortfolioHistory `json:"portfolio_history" gorm:"type:json;not null"`

	IsReady     bool `json:"is_ready" gorm:"not null;default:false"`
	LastSyncDay int  `json:"last_sync_day" gorm:"not null;default:0"`

	JoinedAt     time.Time  `json:"joined_at"`
	LastActionAt time.Time  `json:"last_action_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

func (Player) TableName() string {
	return "players"
}

// SharesOf returns the number of shares held in ticker, zero when none.
func (p *Player) SharesOf(ticker string) int {
	return p.Holdings[ticker].Shares
}

// HasTradedOn reports whether the player already traded ticker on day.
// At most one trade per (ticker, day) is allowed.
func (p *Player) HasTradedOn(ticker string, day int) bool {
	for _, t := range p.Trades {
		if t.Ticker == ticker && t.Day == day {
			return true
		}
	}
	return false
}
