package handler

import (
	"Finvisor/internal/pkg/response"
	"Finvisor/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteSvc service.QuoteService
}

func NewQuoteHandler(quoteSvc service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteSvc: quoteSvc,
	}
}

// GetQuote 查询单个代码的当日快照
func (s *QuoteHandler) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")
	if symbol == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	quote, err := s.quoteSvc.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quote)
}

// GetDaily 查询单个代码的日线序列，最新在前
func (s *QuoteHandler) GetDaily(c *gin.Context) {
	symbol := c.Param("symbol")
	if symbol == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if err != nil {
		limit = 30
	}

	dailies, err := s.quoteSvc.GetDaily(c.Request.Context(), symbol, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dailies)
}
