package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
	apperrors "stakecontrol/pkg/errors"
	"stakecontrol/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// parsePagination 从查询参数解析分页, 越界值回落到默认
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	pageSize = 10
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}
	return page, pageSize
}

// parseOrder 解析排序字段, 只接受白名单内的列
func parseOrder(c *gin.Context, validFields map[string]bool) string {
	orderField := "id"
	if of := c.Query("order_field"); of != "" && validFields[of] {
		orderField = of
	}
	orderType := "desc"
	if ot := c.Query("order_type"); ot == "asc" || ot == "desc" {
		orderType = ot
	}
	return orderField + " " + orderType
}

// paginatedResponse 统一的分页信封
func paginatedResponse(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": gin.H{
			"current_page": page,
			"page_size":    pageSize,
			"total_pages":  totalPages,
			"total_count":  total,
			"has_next":     page < int(totalPages),
			"has_prev":     page > 1,
		},
	})
}

// respondBusinessError 把业务错误码翻译成 HTTP 状态码
func respondBusinessError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError

	switch code {
	case apperrors.ErrStakingDisabled:
		status = http.StatusForbidden
	case apperrors.ErrMachineExpired,
		apperrors.ErrInsufficientBalance,
		apperrors.ErrStakeLimitExceeded,
		apperrors.ErrStakeLimitExceededWithBurn,
		apperrors.ErrPhaseNotActive,
		apperrors.ErrPhaseNotJoined:
		status = http.StatusBadRequest
	case apperrors.ErrWalletMissing, apperrors.ErrSettingsMissing:
		status = http.StatusNotFound
	case apperrors.ErrPriceUnavailable:
		status = http.StatusServiceUnavailable
	case apperrors.ErrTxAborted:
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// GetPairPrice 查询交易对现价, 优先走缓存过的行情
func GetPairPrice(c *gin.Context) {
	pair := c.DefaultQuery("pair", models.DefaultPair)

	quote, cached, err := utils.GetPairQuote(pair)
	if err != nil {
		// 行情源不可用时退回最近一次落库的统计
		var stat models.TokenPairStat
		if dbErr := dbconfig.DB.Where("pair = ?", pair).First(&stat).Error; dbErr == nil {
			c.JSON(http.StatusOK, gin.H{
				"pair":     pair,
				"price":    stat.Price,
				"day_high": stat.DayHigh,
				"stale":    true,
			})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pair":     pair,
		"price":    quote.Price,
		"day_high": quote.DayHigh,
		"cached":   cached,
	})
}
