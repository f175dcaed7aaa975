package receipt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	receiptModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/receipt"
)

// ReceiptParserService handles payment receipt parsing bookkeeping
type ReceiptParserService struct {
	DB        *gorm.DB
	UploadDir string
}

// NewReceiptParserService creates a new receipt parser service
func NewReceiptParserService(db *gorm.DB) *ReceiptParserService {
	return &ReceiptParserService{
		DB:        db,
		UploadDir: "uploaded_receipts",
	}
}

// GenerateRequestID generates a 24 character unique request ID
func (s *ReceiptParserService) GenerateRequestID() string {
	bytes := make([]byte, 12)
	rand.Read(bytes)
	requestID := hex.EncodeToString(bytes)

	// Timestamp prefix keeps ids unique even on rand collision
	timestamp := time.Now().Unix()
	return fmt.Sprintf("%06x%s", timestamp&0xffffff, requestID[:18])
}

// CreateInitialRequest creates an initial request record in the database
func (s *ReceiptParserService) CreateInitialRequest(c *fiber.Ctx, requestID, originalFileName string, fileSize int64, mimeType string) (*receiptModel.ReceiptParseRequest, error) {
	ipAddress := c.IP()
	if ipAddress == "" {
		ipAddress = "unknown"
	}
	userAgent := c.Get("User-Agent")

	request := &receiptModel.ReceiptParseRequest{
		RequestID:        requestID,
		OriginalFileName: originalFileName,
		FileSize:         fileSize,
		MimeType:         mimeType,
		Status:           "processing",
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create initial request: %w", err)
	}

	return request, nil
}

// SaveFileAsync saves the uploaded file asynchronously
func (s *ReceiptParserService) SaveFileAsync(requestID string, fileBytes []byte, originalFileName, mimeType string) {
	go func() {
		if err := s.saveFile(requestID, fileBytes, originalFileName); err != nil {
			logger.Error(fmt.Sprintf("Failed to save file for request %s", requestID), err)
			s.updateRequestWithFileError(requestID, err.Error())
		}
	}()
}

func (s *ReceiptParserService) saveFile(requestID string, fileBytes []byte, originalFileName string) error {
	if err := s.ensureUploadDir(); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	hash := sha256.Sum256(fileBytes)
	fileHash := hex.EncodeToString(hash[:])

	ext := filepath.Ext(originalFileName)
	savedFileName := fmt.Sprintf("%s_%d%s", requestID, time.Now().Unix(), ext)
	filePath := filepath.Join(s.UploadDir, savedFileName)

	if err := os.WriteFile(filePath, fileBytes, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	updates := map[string]interface{}{
		"saved_file_name": savedFileName,
		"file_hash":       fileHash,
		"file_path":       filePath,
	}

	if err := s.DB.Model(&receiptModel.ReceiptParseRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		os.Remove(filePath)
		return fmt.Errorf("failed to update request with file info: %w", err)
	}

	logger.Success(fmt.Sprintf("File saved successfully for request %s: %s", requestID, savedFileName))
	return nil
}

// SaveSuccessResultAsync saves the parsing result asynchronously
func (s *ReceiptParserService) SaveSuccessResultAsync(requestID string, result *receiptModel.ReceiptParseResponse) {
	go func() {
		var request receiptModel.ReceiptParseRequest
		if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to find request %s", requestID), err)
			return
		}

		if err := request.MarkAsSuccess(s.DB, result); err != nil {
			logger.Error(fmt.Sprintf("Failed to save success result for request %s", requestID), err)
			return
		}

		logger.Success(fmt.Sprintf("Parsing result saved successfully for request %s", requestID))
	}()
}

// SaveFailureResultAsync saves the failure result asynchronously
func (s *ReceiptParserService) SaveFailureResultAsync(requestID string, errorMsg string, processingTime int64) {
	go func() {
		var request receiptModel.ReceiptParseRequest
		if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to find request %s", requestID), err)
			return
		}

		if err := request.MarkAsFailed(s.DB, errorMsg, processingTime); err != nil {
			logger.Error(fmt.Sprintf("Failed to save failure result for request %s", requestID), err)
			return
		}

		logger.Info(fmt.Sprintf("Failure result saved for request %s: %s", requestID, errorMsg))
	}()
}

func (s *ReceiptParserService) updateRequestWithFileError(requestID string, errorMsg string) {
	updates := map[string]interface{}{
		"status":        "failed",
		"error_message": fmt.Sprintf("File saving error: %s", errorMsg),
	}

	if err := s.DB.Model(&receiptModel.ReceiptParseRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		logger.Error(fmt.Sprintf("Failed to update request %s with file error", requestID), err)
	}
}

func (s *ReceiptParserService) ensureUploadDir() error {
	if _, err := os.Stat(s.UploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(s.UploadDir, 0755); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Created upload directory: %s", s.UploadDir))
	}
	return nil
}

// GetRequestByID retrieves a request by ID
func (s *ReceiptParserService) GetRequestByID(requestID string) (*receiptModel.ReceiptParseRequest, error) {
	var request receiptModel.ReceiptParseRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}
