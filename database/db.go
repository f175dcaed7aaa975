package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/followup"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/log"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/notification"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/receipt"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/reminder"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/user"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate() error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&lead.Lead{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Models hanging off leads, plus logging
	remainingModels := []interface{}{
		&followup.FollowUpEntry{},
		&reminder.ReminderRecord{},
		&notification.Notification{},
		&receipt.ReceiptParseRequest{},
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// User indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_uuid ON users(uuid)").Error; err != nil {
		return fmt.Errorf("failed to create user uuid index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)").Error; err != nil {
		return fmt.Errorf("failed to create user username index: %w", err)
	}

	// Lead indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)").Error; err != nil {
		return fmt.Errorf("failed to create lead status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leads_assigned_to_id ON leads(assigned_to_id)").Error; err != nil {
		return fmt.Errorf("failed to create lead assigned_to index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leads_status_assigned ON leads(status, assigned_to_id)").Error; err != nil {
		return fmt.Errorf("failed to create lead status+assigned index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create lead created_at index: %w", err)
	}

	// Follow-up ledger indexes: history reads are newest first per lead
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_follow_up_entries_lead_created ON follow_up_entries(lead_id, created_at DESC)").Error; err != nil {
		return fmt.Errorf("failed to create follow_up lead+created index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_follow_up_entries_action_type ON follow_up_entries(action_type)").Error; err != nil {
		return fmt.Errorf("failed to create follow_up action_type index: %w", err)
	}

	// Reminder indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_reminder_records_lead_status ON reminder_records(lead_id, status)").Error; err != nil {
		return fmt.Errorf("failed to create reminder lead+status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_reminder_records_sales_person ON reminder_records(sales_person_id)").Error; err != nil {
		return fmt.Errorf("failed to create reminder sales_person index: %w", err)
	}

	// Notification indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC)").Error; err != nil {
		return fmt.Errorf("failed to create notification user+created index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_follow_up_entries_lead",
			sql: `ALTER TABLE follow_up_entries ADD CONSTRAINT fk_follow_up_entries_lead
				  FOREIGN KEY (lead_id) REFERENCES leads(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_reminder_records_lead",
			sql: `ALTER TABLE reminder_records ADD CONSTRAINT fk_reminder_records_lead
				  FOREIGN KEY (lead_id) REFERENCES leads(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_leads_assigned_to",
			sql: `ALTER TABLE leads ADD CONSTRAINT fk_leads_assigned_to
				  FOREIGN KEY (assigned_to_id) REFERENCES users(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
