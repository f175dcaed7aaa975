package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/genai"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	receiptModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/receipt"
	receiptService "github.com/nomadllercommunity-dot/crmnomad-sub000/services/receipt"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/types"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/utils"
)

// ReceiptController handles payment receipt parsing requests
type ReceiptController struct {
	DB      *gorm.DB
	Service *receiptService.ReceiptParserService
	Logger  *logger.AsyncLogger
}

func NewReceiptController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ReceiptController {
	return &ReceiptController{
		DB:      db,
		Service: receiptService.NewReceiptParserService(db),
		Logger:  asyncLogger,
	}
}

func (rc *ReceiptController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	rc.Logger.Log(logEntry)
}

func (rc *ReceiptController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.logAPIRequest(c)
	return result
}

// ParseReceipt handles a payment receipt image upload and extracts the
// financial fields with Gemini Vision, prefilling the advance-paid payload
func (rc *ReceiptController) ParseReceipt(c *fiber.Ctx) error {
	startTime := time.Now()

	requestID := rc.Service.GenerateRequestID()

	file, err := c.FormFile("image")
	if err != nil {
		logger.Error(fmt.Sprintf("No image file provided for request %s", requestID), err)

		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "No image file provided",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	mimeType := file.Header.Get("Content-Type")
	if !isValidImageType(mimeType) {
		logger.Error(fmt.Sprintf("Invalid file type %s for request %s", mimeType, requestID),
			fmt.Errorf("invalid mime type: %s", mimeType))

		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid file type. Only JPEG, JPG, PNG, and WebP files are allowed",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	// Max 10MB
	maxSize := int64(10 * 1024 * 1024)
	if file.Size > maxSize {
		logger.Error(fmt.Sprintf("File size %d exceeds max %d for request %s", file.Size, maxSize, requestID),
			fmt.Errorf("file size %d exceeds max %d", file.Size, maxSize))

		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "File size too large. Maximum size is 10MB",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	_, err = rc.Service.CreateInitialRequest(c, requestID, file.Filename, file.Size, mimeType)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create initial request %s", requestID), err)

		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to initialize request",
			Status:  fiber.StatusInternalServerError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	src, err := file.Open()
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		rc.Service.SaveFailureResultAsync(requestID, "Failed to open uploaded file", processingTime)

		logger.Error(fmt.Sprintf("Failed to open uploaded file for request %s", requestID), err)

		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to process uploaded file",
			Status:  fiber.StatusInternalServerError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		rc.Service.SaveFailureResultAsync(requestID, "Failed to read file content", processingTime)

		logger.Error(fmt.Sprintf("Failed to read file content for request %s", requestID), err)

		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to read file content",
			Status:  fiber.StatusInternalServerError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	rc.Service.SaveFileAsync(requestID, fileBytes, file.Filename, mimeType)

	result, err := rc.parseReceiptWithGemini(fileBytes, mimeType)
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		rc.Service.SaveFailureResultAsync(requestID, fmt.Sprintf("Gemini parsing failed: %s", err.Error()), processingTime)

		logger.Error(fmt.Sprintf("Failed to parse payment receipt with Gemini for request %s", requestID), err)

		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to parse payment receipt",
			Status:  fiber.StatusInternalServerError,
			Data: map[string]interface{}{
				"error":      err.Error(),
				"request_id": requestID,
			},
		})
	}

	processingTime := time.Since(startTime).Milliseconds()
	result.ProcessingTimeMs = processingTime
	result.RequestID = requestID

	rc.Service.SaveSuccessResultAsync(requestID, result)

	logger.Success(fmt.Sprintf("Payment receipt parsed successfully in %dms with transaction: %s, Request ID: %s",
		processingTime, result.TransactionID, requestID))

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment receipt parsed successfully",
		Data:    result,
	})
}

// parseReceiptWithGemini uses Gemini Vision API to extract structured payment
// data from the uploaded receipt image
func (rc *ReceiptController) parseReceiptWithGemini(imageBytes []byte, mimeType string) (*receiptModel.ReceiptParseResponse, error) {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := `Analyze this payment receipt image and extract the following information. Return ONLY valid JSON.

			Extract these fields from the image. If a field is missing or unclear, use an empty string.

			Required JSON format:
			{
			"total_amount": string,      // Total package amount, digits only with optional decimal point
			"advance_amount": string,    // Amount actually paid in this receipt, digits only with optional decimal point
			"transaction_id": string,    // Transaction/reference ID of the payment
			"payment_method": string,    // e.g. bKash, Nagad, bank transfer, cash
			"payer_name": string,        // Name of the person who paid
			"payment_date": string       // Payment date in YYYY-MM-DD if visible
			}`

	content := &genai.Content{
		Parts: []*genai.Part{
			&genai.Part{Text: prompt},
			&genai.Part{InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     imageBytes,
			}},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with OCR: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated by OCR")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response from OCR")
	}

	jsonText := extractJSONFromMarkdown(responseText)

	var parsedData receiptModel.ReceiptParseResponse
	if err := json.Unmarshal([]byte(jsonText), &parsedData); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}

	return &parsedData, nil
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
		return text
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			jsonLines := lines[1 : len(lines)-1]
			return strings.Join(jsonLines, "\n")
		}
	}

	return text
}

// isValidImageType checks if the provided content type is a valid image type
func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
