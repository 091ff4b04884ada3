package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	"recipe-recommender/internal/pkg/common"
)

// 接受的上傳類型
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Upload 已驗證的上傳圖片
type Upload struct {
	MIMEType string
	Size     int64
	Format   string
	DataURI  string
}

// Service 上傳圖片驗證服務
type Service struct {
	maxSizeBytes int64
}

// NewService 創建圖片服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{maxSizeBytes: maxSizeBytes}
}

// MaxSizeBytes 回傳允許的最大圖片大小
func (s *Service) MaxSizeBytes() int64 {
	return s.maxSizeBytes
}

// ValidateHeader 依宣告的類型與大小驗證
func (s *Service) ValidateHeader(contentType string, size int64) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", common.ErrInvalidImageType
	}
	mediaType = strings.ToLower(mediaType)
	if !allowedTypes[mediaType] {
		return "", common.ErrInvalidImageType
	}
	if size > s.maxSizeBytes {
		return "", common.ErrInvalidImageSize
	}
	return mediaType, nil
}

// Load 驗證上傳檔案並轉為 data URI；內容必須能解碼為 JPEG 或 PNG
func (s *Service) Load(fh *multipart.FileHeader) (*Upload, error) {
	if fh == nil {
		return nil, common.ErrImageMissing
	}
	mediaType, err := s.ValidateHeader(fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSizeBytes {
		return nil, common.ErrInvalidImageSize
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || !isSupportedFormat(format) {
		return nil, common.ErrInvalidImageType
	}

	return &Upload{
		MIMEType: mediaType,
		Size:     int64(len(data)),
		Format:   format,
		DataURI:  EncodeDataURI(mediaType, data),
	}, nil
}

// EncodeDataURI 將圖片內容編碼為 data URI
func EncodeDataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	return format == "jpeg" || format == "png"
}
