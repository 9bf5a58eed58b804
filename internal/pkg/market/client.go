package market

import (
	"Finvisor/internal/api/config"
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Client 行情提供方 HTTP 客户端，单次请求无重试
type Client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(cfg config.QuoteConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second)

	return &Client{
		http:   client,
		apiKey: cfg.ApiKey,
	}
}

// GlobalQuote 提供方实时快照原始结构，键名由对方接口决定，不可改动
type GlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

type globalQuoteResponse struct {
	GlobalQuote GlobalQuote `json:"Global Quote"`
}

// DailyBar 提供方日线原始结构
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailySeriesResponse struct {
	Series map[string]DailyBar `json:"Time Series (Daily)"`
}

// FetchGlobalQuote 拉取单个代码的实时快照
func (s *Client) FetchGlobalQuote(ctx context.Context, symbol string) (*GlobalQuote, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "GLOBAL_QUOTE",
			"symbol":   symbol,
			"apikey":   s.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, errors.Wrap(err, "quote provider request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("quote provider returned status %d", resp.StatusCode())
	}

	var body globalQuoteResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, "quote provider response malformed")
	}
	if body.GlobalQuote.Symbol == "" {
		return nil, errors.Errorf("quote provider returned empty quote for %s", symbol)
	}

	return &body.GlobalQuote, nil
}

// FetchDailySeries 拉取单个代码的日线序列，键为交易日
func (s *Client) FetchDailySeries(ctx context.Context, symbol string) (map[string]DailyBar, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "TIME_SERIES_DAILY",
			"symbol":   symbol,
			"apikey":   s.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, errors.Wrap(err, "quote provider request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("quote provider returned status %d", resp.StatusCode())
	}

	var body dailySeriesResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, "quote provider response malformed")
	}
	if len(body.Series) == 0 {
		return nil, errors.Errorf("quote provider returned empty series for %s", symbol)
	}

	return body.Series, nil
}
