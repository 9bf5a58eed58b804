package service

import (
	"Finvisor/internal/api/config"
	"Finvisor/internal/model"
	"Finvisor/internal/pkg/consts"
	"Finvisor/internal/pkg/market"
	"Finvisor/internal/pkg/redis"
	"Finvisor/internal/repository"
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const dailyFreshExpiration = 24 * time.Hour

type QuoteService interface {
	// GetQuote 当日快照命中数据库直接返回，否则经短时防击穿缓存回源行情提供方
	GetQuote(ctx context.Context, symbol string) (*model.StockQuote, error)
	GetDaily(ctx context.Context, symbol string, limit int) ([]*model.StockDaily, error)
	// RefreshAll 刷新库里全部代码的快照，供定时任务调用
	RefreshAll(ctx context.Context) error
}

type quoteServiceImpl struct {
	quoteRepo repository.QuoteRepo
	client    *market.Client
	guardTTL  time.Duration
}

func NewQuoteService(quoteRepo repository.QuoteRepo, client *market.Client) QuoteService {
	guardTTL := time.Duration(config.Cfg.Quote.GuardTTL) * time.Second
	if guardTTL <= 0 {
		guardTTL = time.Minute
	}
	return &quoteServiceImpl{
		quoteRepo: quoteRepo,
		client:    client,
		guardTTL:  guardTTL,
	}
}

func (s *quoteServiceImpl) GetQuote(ctx context.Context, symbol string) (*model.StockQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrParamInvalid
	}
	today := time.Now().Format(consts.QuoteDateLayout)

	snapshot, err := s.quoteRepo.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if snapshot != nil && snapshot.Date == today {
		return snapshot, nil
	}

	raw, err := s.fetchQuoteGuarded(ctx, symbol)
	if err != nil {
		// 回源失败时旧快照比报错更有用
		if snapshot != nil {
			slog.WarnContext(ctx, "quote refresh failed, serving stale snapshot",
				"symbol", symbol, "snapshot_date", snapshot.Date, "error", err)
			return snapshot, nil
		}
		slog.ErrorContext(ctx, "quote fetch failed", "symbol", symbol, "error", err)
		return nil, ErrQuoteUpstream
	}

	fresh := s.toStockQuote(symbol, raw, today)
	if err = s.quoteRepo.UpsertQuote(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *quoteServiceImpl) GetDaily(ctx context.Context, symbol string, limit int) ([]*model.StockDaily, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrParamInvalid
	}
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	freshKey := consts.QuoteDailyFreshKey + symbol
	if fresh, _ := redis.GetValue(ctx, freshKey); fresh == "" {
		if err := s.syncDailySeries(ctx, symbol); err != nil {
			// 库里还有历史数据就继续用
			if latest, dbErr := s.quoteRepo.GetLatestDailyDate(ctx, symbol); dbErr != nil || latest == "" {
				slog.ErrorContext(ctx, "daily series fetch failed", "symbol", symbol, "error", err)
				return nil, ErrQuoteUpstream
			}
			slog.WarnContext(ctx, "daily series refresh failed, serving stored data",
				"symbol", symbol, "error", err)
		} else {
			_ = redis.SetWithExpiration(ctx, freshKey, 1, dailyFreshExpiration)
		}
	}

	dailies, err := s.quoteRepo.GetDailies(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	if len(dailies) == 0 {
		return nil, ErrQuoteNotFound
	}
	return dailies, nil
}

func (s *quoteServiceImpl) RefreshAll(ctx context.Context) error {
	symbols, err := s.quoteRepo.ListSymbols(ctx)
	if err != nil {
		return err
	}

	today := time.Now().Format(consts.QuoteDateLayout)
	for _, symbol := range symbols {
		raw, err := s.client.FetchGlobalQuote(ctx, symbol)
		if err != nil {
			slog.ErrorContext(ctx, "quote refresh skipped", "symbol", symbol, "error", err)
			continue
		}
		if err = s.quoteRepo.UpsertQuote(ctx, s.toStockQuote(symbol, raw, today)); err != nil {
			slog.ErrorContext(ctx, "quote refresh write failed", "symbol", symbol, "error", err)
		}
	}
	return nil
}

// fetchQuoteGuarded 原始报文在 redis 里挂一段短 TTL，挡掉同一代码的并发回源
func (s *quoteServiceImpl) fetchQuoteGuarded(ctx context.Context, symbol string) (*market.GlobalQuote, error) {
	guardKey := consts.QuotePayloadKey + symbol

	if cached, err := redis.GetValue(ctx, guardKey); err == nil && cached != "" {
		var quote market.GlobalQuote
		if err = json.Unmarshal([]byte(cached), &quote); err == nil {
			return &quote, nil
		}
		slog.WarnContext(ctx, "quote guard cache decode failed", "symbol", symbol, "error", err)
	}

	quote, err := s.client.FetchGlobalQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(quote); err == nil {
		_ = redis.SetWithExpiration(ctx, guardKey, string(payload), s.guardTTL)
	}
	return quote, nil
}

func (s *quoteServiceImpl) syncDailySeries(ctx context.Context, symbol string) error {
	series, err := s.client.FetchDailySeries(ctx, symbol)
	if err != nil {
		return err
	}

	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	dailies := make([]*model.StockDaily, 0, len(dates))
	for _, date := range dates {
		bar := series[date]
		dailies = append(dailies, &model.StockDaily{
			Symbol: symbol,
			Date:   date,
			Open:   parseFloat(bar.Open),
			High:   parseFloat(bar.High),
			Low:    parseFloat(bar.Low),
			Close:  parseFloat(bar.Close),
			Volume: parseInt(bar.Volume),
		})
	}
	return s.quoteRepo.UpsertDailies(ctx, dailies)
}

// toStockQuote 数值字段转成数字落库，涨跌幅带百分号原样保留
func (s *quoteServiceImpl) toStockQuote(symbol string, raw *market.GlobalQuote, date string) *model.StockQuote {
	return &model.StockQuote{
		Symbol:           symbol,
		Open:             parseFloat(raw.Open),
		High:             parseFloat(raw.High),
		Low:              parseFloat(raw.Low),
		Price:            parseFloat(raw.Price),
		Volume:           parseInt(raw.Volume),
		LatestTradingDay: raw.LatestTradingDay,
		PreviousClose:    parseFloat(raw.PreviousClose),
		Change:           parseFloat(raw.Change),
		ChangePercent:    raw.ChangePercent,
		Date:             date,
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}
