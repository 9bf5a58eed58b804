package repository

import (
	"Finvisor/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuoteRepo interface {
	GetQuote(ctx context.Context, symbol string) (*model.StockQuote, error)
	// UpsertQuote 以 symbol 为键整行覆盖旧快照
	UpsertQuote(ctx context.Context, quote *model.StockQuote) error
	ListSymbols(ctx context.Context) ([]string, error)
	UpsertDailies(ctx context.Context, dailies []*model.StockDaily) error
	GetDailies(ctx context.Context, symbol string, limit int) ([]*model.StockDaily, error)
	GetLatestDailyDate(ctx context.Context, symbol string) (string, error)
}

type QuoteRepoImpl struct {
	db *gorm.DB
}

func NewQuoteRepo(db *gorm.DB) QuoteRepo {
	return &QuoteRepoImpl{db: db}
}

func (s *QuoteRepoImpl) GetQuote(ctx context.Context, symbol string) (*model.StockQuote, error) {
	var quote model.StockQuote
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (s *QuoteRepoImpl) UpsertQuote(ctx context.Context, quote *model.StockQuote) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			UpdateAll: true,
		}).
		Create(quote).Error
}

func (s *QuoteRepoImpl) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := s.db.WithContext(ctx).Model(&model.StockQuote{}).
		Pluck("symbol", &symbols).Error
	return symbols, err
}

func (s *QuoteRepoImpl) UpsertDailies(ctx context.Context, dailies []*model.StockDaily) error {
	if len(dailies) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
			UpdateAll: true,
		}).
		Create(dailies).Error
}

func (s *QuoteRepoImpl) GetDailies(ctx context.Context, symbol string, limit int) ([]*model.StockDaily, error) {
	var dailies []*model.StockDaily
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date DESC").
		Limit(limit).
		Find(&dailies).Error
	return dailies, err
}

func (s *QuoteRepoImpl) GetLatestDailyDate(ctx context.Context, symbol string) (string, error) {
	var dates []string
	err := s.db.WithContext(ctx).Model(&model.StockDaily{}).
		Where("symbol = ?", symbol).
		Order("date DESC").
		Limit(1).
		Pluck("date", &dates).Error
	if err != nil || len(dates) == 0 {
		return "", err
	}
	return dates[0], nil
}
