package service

import (
	"Finvisor/internal/api/config"
	"Finvisor/internal/pkg/consts"
	"Finvisor/internal/pkg/market"
	"Finvisor/internal/repository"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newQuoteProvider(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("function") {
		case "GLOBAL_QUOTE":
			fmt.Fprintf(w, `{"Global Quote": {
				"01. symbol": "%s",
				"02. open": "227.1100",
				"03. high": "230.4200",
				"04. low": "226.5800",
				"05. price": "229.3500",
				"06. volume": "42863100",
				"07. latest trading day": "2026-08-28",
				"08. previous close": "226.0100",
				"09. change": "3.3400",
				"10. change percent": "1.4778%%"
			}}`, r.URL.Query().Get("symbol"))
		case "TIME_SERIES_DAILY":
			fmt.Fprint(w, `{"Time Series (Daily)": {
				"2026-08-28": {"1. open": "227.11", "2. high": "230.42", "3. low": "226.58", "4. close": "229.35", "5. volume": "42863100"},
				"2026-08-27": {"1. open": "225.00", "2. high": "227.90", "3. low": "224.10", "4. close": "226.01", "5. volume": "39120400"}
			}}`)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newQuoteService(t *testing.T, calls *atomic.Int64) QuoteService {
	db := newTestEnv(t)
	srv := newQuoteProvider(t, calls)
	client := market.NewClient(config.QuoteConfig{BaseURL: srv.URL, ApiKey: "demo"})
	return NewQuoteService(repository.NewQuoteRepo(db), client)
}

func TestGetQuoteFetchesAndConverts(t *testing.T) {
	var calls atomic.Int64
	svc := newQuoteService(t, &calls)

	quote, err := svc.GetQuote(context.Background(), "aapl")
	require.NoError(t, err)

	require.Equal(t, "AAPL", quote.Symbol)
	require.InDelta(t, 229.35, quote.Price, 0.0001)
	require.InDelta(t, 226.01, quote.PreviousClose, 0.0001)
	require.EqualValues(t, 42863100, quote.Volume)
	require.Equal(t, "2026-08-28", quote.LatestTradingDay)
	// 涨跌幅带百分号原样保留
	require.Equal(t, "1.4778%", quote.ChangePercent)
	require.Equal(t, time.Now().Format(consts.QuoteDateLayout), quote.Date)
	require.EqualValues(t, 1, calls.Load())
}

func TestGetQuoteHitsSnapshotSameDay(t *testing.T) {
	var calls atomic.Int64
	svc := newQuoteService(t, &calls)
	ctx := context.Background()

	_, err := svc.GetQuote(ctx, "AAPL")
	require.NoError(t, err)

	// 同一交易日的后续请求不再打提供方
	for i := 0; i < 5; i++ {
		quote, err := svc.GetQuote(ctx, "AAPL")
		require.NoError(t, err)
		require.Equal(t, "AAPL", quote.Symbol)
	}
	require.EqualValues(t, 1, calls.Load())
}

func TestGetQuoteRejectsEmptySymbol(t *testing.T) {
	var calls atomic.Int64
	svc := newQuoteService(t, &calls)

	_, err := svc.GetQuote(context.Background(), "   ")
	require.ErrorIs(t, err, ErrParamInvalid)
	require.EqualValues(t, 0, calls.Load())
}

func TestGetQuoteUpstreamFailure(t *testing.T) {
	db := newTestEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	svc := NewQuoteService(repository.NewQuoteRepo(db), market.NewClient(config.QuoteConfig{BaseURL: srv.URL}))

	_, err := svc.GetQuote(context.Background(), "AAPL")
	require.ErrorIs(t, err, ErrQuoteUpstream)
}

func TestGetDailyReturnsNewestFirst(t *testing.T) {
	var calls atomic.Int64
	svc := newQuoteService(t, &calls)

	dailies, err := svc.GetDaily(context.Background(), "aapl", 10)
	require.NoError(t, err)
	require.Len(t, dailies, 2)
	require.Equal(t, "2026-08-28", dailies[0].Date)
	require.Equal(t, "2026-08-27", dailies[1].Date)
	require.Equal(t, "AAPL", dailies[0].Symbol)
	require.InDelta(t, 229.35, dailies[0].Close, 0.0001)
}

func TestGetDailySecondCallServedFromStore(t *testing.T) {
	var calls atomic.Int64
	svc := newQuoteService(t, &calls)
	ctx := context.Background()

	_, err := svc.GetDaily(ctx, "AAPL", 10)
	require.NoError(t, err)
	first := calls.Load()

	_, err = svc.GetDaily(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Equal(t, first, calls.Load())
}
