package receipt

import (
	"time"

	"gorm.io/gorm"
)

// ReceiptParseRequest represents a payment receipt parsing request. Sales
// actors upload a receipt image when confirming a lead; the parsed amounts
// prefill the confirmed_advance_paid payload.
type ReceiptParseRequest struct {
	ID               uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID        string `json:"request_id" gorm:"type:varchar(24);uniqueIndex;not null"` // 24 character unique ID
	OriginalFileName string `json:"original_file_name" gorm:"type:varchar(255);not null"`
	SavedFileName    string `json:"saved_file_name" gorm:"type:varchar(255);not null"`
	FileHash         string `json:"file_hash" gorm:"type:varchar(128);index"` // SHA256 hash
	FilePath         string `json:"file_path" gorm:"type:varchar(500);not null"`
	FileSize         int64  `json:"file_size" gorm:"not null"`
	MimeType         string `json:"mime_type" gorm:"type:varchar(100);not null"`
	Status           string `json:"status" gorm:"type:varchar(50);not null;default:'processing';index"` // processing, success, failed
	ProcessingTimeMs int64  `json:"processing_time_ms" gorm:"default:0"`

	// Parsed data fields
	TotalAmount   string `json:"total_amount" gorm:"type:varchar(50);default:''"`
	AdvanceAmount string `json:"advance_amount" gorm:"type:varchar(50);default:''"`
	TransactionID string `json:"transaction_id" gorm:"type:varchar(100);index;default:''"`
	PaymentMethod string `json:"payment_method" gorm:"type:varchar(100);default:''"`
	PayerName     string `json:"payer_name" gorm:"type:varchar(255);default:''"`
	PaymentDate   string `json:"payment_date" gorm:"type:varchar(20);default:''"`

	// Error information
	ErrorMessage string `json:"error_message" gorm:"type:text;default:''"`

	// Metadata
	IPAddress string `json:"ip_address" gorm:"type:varchar(45);index;default:''"` // Support IPv6
	UserAgent string `json:"user_agent" gorm:"type:text;default:''"`

	// Timestamps
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TableName returns the table name for ReceiptParseRequest
func (ReceiptParseRequest) TableName() string {
	return "receipt_parse_requests"
}

// BeforeCreate hook to set default values
func (rpr *ReceiptParseRequest) BeforeCreate(tx *gorm.DB) error {
	if rpr.Status == "" {
		rpr.Status = "processing"
	}
	return nil
}

// IsProcessing checks if the request is still processing
func (rpr *ReceiptParseRequest) IsProcessing() bool {
	return rpr.Status == "processing"
}

// IsSuccess checks if the request was successful
func (rpr *ReceiptParseRequest) IsSuccess() bool {
	return rpr.Status == "success"
}

// MarkAsSuccess marks the request as successful and saves parsed data
func (rpr *ReceiptParseRequest) MarkAsSuccess(db *gorm.DB, parsedData *ReceiptParseResponse) error {
	rpr.Status = "success"
	rpr.TotalAmount = parsedData.TotalAmount
	rpr.AdvanceAmount = parsedData.AdvanceAmount
	rpr.TransactionID = parsedData.TransactionID
	rpr.PaymentMethod = parsedData.PaymentMethod
	rpr.PayerName = parsedData.PayerName
	rpr.PaymentDate = parsedData.PaymentDate
	rpr.ProcessingTimeMs = parsedData.ProcessingTimeMs

	return db.Save(rpr).Error
}

// MarkAsFailed marks the request as failed with error message
func (rpr *ReceiptParseRequest) MarkAsFailed(db *gorm.DB, errorMsg string, processingTime int64) error {
	rpr.Status = "failed"
	rpr.ErrorMessage = errorMsg
	rpr.ProcessingTimeMs = processingTime

	return db.Save(rpr).Error
}

// ReceiptParseResponse represents the parsed data response
type ReceiptParseResponse struct {
	RequestID        string `json:"request_id"`
	TotalAmount      string `json:"total_amount"`
	AdvanceAmount    string `json:"advance_amount"`
	TransactionID    string `json:"transaction_id"`
	PaymentMethod    string `json:"payment_method"`
	PayerName        string `json:"payer_name"`
	PaymentDate      string `json:"payment_date"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}
