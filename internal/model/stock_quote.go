package model

import "time"

// StockQuote 每个股票代码一条快照，字段名与行情提供方返回结构保持一致
type StockQuote struct {
	Symbol           string    `gorm:"primaryKey;type:varchar(16)" json:"symbol"`
	Open             float64   `gorm:"type:decimal(16,4)" json:"open"`
	High             float64   `gorm:"type:decimal(16,4)" json:"high"`
	Low              float64   `gorm:"type:decimal(16,4)" json:"low"`
	Price            float64   `gorm:"type:decimal(16,4)" json:"price"`
	Volume           int64     `gorm:"not null;default:0" json:"volume"`
	LatestTradingDay string    `gorm:"type:varchar(10)" json:"latest_trading_day"`
	PreviousClose    float64   `gorm:"type:decimal(16,4)" json:"previous_close"`
	Change           float64   `gorm:"type:decimal(16,4)" json:"change"`
	ChangePercent    string    `gorm:"type:varchar(16)" json:"change_percent"`
	Date             string    `gorm:"type:varchar(10);not null;index:idx_quote_date" json:"date"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (StockQuote) TableName() string {
	return "stock_quote_data"
}

// StockDaily 股票日线数据，(symbol, date) 复合主键
type StockDaily struct {
	Symbol    string    `gorm:"primaryKey;type:varchar(16)" json:"symbol"`
	Date      string    `gorm:"primaryKey;type:varchar(10)" json:"date"`
	Open      float64   `gorm:"type:decimal(16,4)" json:"open"`
	High      float64   `gorm:"type:decimal(16,4)" json:"high"`
	Low       float64   `gorm:"type:decimal(16,4)" json:"low"`
	Close     float64   `gorm:"type:decimal(16,4)" json:"close"`
	Volume    int64     `gorm:"not null;default:0" json:"volume"`
	CreatedAt time.Time `json:"createdAt"`
}

func (StockDaily) TableName() string {
	return "stock_daily_data"
}
