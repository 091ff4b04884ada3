package common

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RespondError 將錯誤轉換為 API 響應，內部錯誤細節不會回傳給用戶端
func RespondError(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Code: ErrCodeInvalidRequest})
		return
	}

	var cerr *CustomError
	if errors.As(err, &cerr) {
		if cerr.Status >= http.StatusInternalServerError {
			LogError("請求處理失敗",
				zap.String("path", c.Request.URL.Path),
				zap.String("code", cerr.Code),
				zap.Error(err),
			)
		}
		c.AbortWithStatusJSON(cerr.Status, ErrorResponse{Error: cerr.Message, Code: cerr.Code})
		return
	}

	LogError("未預期的錯誤",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrInternalError.Message,
		Code:  ErrCodeInternalError,
	})
}

var lowerCaser = cases.Lower(language.Und)

// NormalizeName 正規化食材名稱：NFC、去除多餘空白、轉小寫
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	name = strings.Join(strings.Fields(name), " ")
	return lowerCaser.String(name)
}

// NormalizeIngredients 正規化並去除重複的食材（保留首次出現順序）
func NormalizeIngredients(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		name := NormalizeName(item)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ContainsFold 不分大小寫檢查字串切片是否包含目標
func ContainsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}

// Round1 四捨五入到小數點後一位
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
