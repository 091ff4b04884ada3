package common

import (
	"errors"
	"net/http"
)

// ErrorResponse API 錯誤響應結構
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CustomError 自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 對外錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 支援 errors.Is / errors.As
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 Wrap 出來的錯誤仍能對應到預定義錯誤
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap 以預定義錯誤包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// ValidationError 表示輸入驗證錯誤
type ValidationError struct {
	Field   string
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// NewFieldError 創建帶欄位名稱的驗證錯誤
func NewFieldError(field, message string) error {
	return &ValidationError{Field: field, message: message}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooLarge        = "PAYLOAD_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeBadGateway         = "BAD_GATEWAY"         // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Resource not found", http.StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, "Resource conflict", http.StatusConflict, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "Service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "Request timeout", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrImageMissing       = NewError("IMAGE_MISSING", "No image file provided", http.StatusBadRequest, nil)
	ErrInvalidImageType   = NewError("INVALID_IMAGE_TYPE", "Only JPG and PNG images are supported", http.StatusBadRequest, nil)
	ErrInvalidImageSize   = NewError("INVALID_IMAGE_SIZE", "Image size must be less than 5MB", http.StatusBadRequest, nil)
	ErrRecognitionFailed  = NewError("RECOGNITION_FAILED", "Image recognition failed", http.StatusBadGateway, nil)
	ErrAIServiceError     = NewError("AI_SERVICE_ERROR", "AI service error", http.StatusBadGateway, nil)
	ErrAIResponseInvalid  = NewError("AI_RESPONSE_INVALID", "AI response is malformed", http.StatusBadGateway, nil)
	ErrAIDisabled         = NewError("AI_DISABLED", "AI service is not configured", http.StatusServiceUnavailable, nil)
	ErrCacheMiss          = NewError("CACHE_MISS", "Cache miss", http.StatusNotFound, nil)
	ErrCacheFull          = NewError("CACHE_FULL", "Cache is full", http.StatusServiceUnavailable, nil)
	ErrStorageUnavailable = NewError("STORAGE_ERROR", "Storage failure", http.StatusInternalServerError, nil)
)
