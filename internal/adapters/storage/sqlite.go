package storage

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// SQLiteAdapter implements the persistence ports using GORM and SQLite. A
// single adapter backs the threat ledger, the blacklist store, the request
// log store and the user repository.
type SQLiteAdapter struct {
	db *gorm.DB
}

// ThreatModel is the GORM model for detected threats.
type ThreatModel struct {
	ID         uint   `gorm:"primaryKey"`
	IP         string `gorm:"index"`
	ThreatType string `gorm:"index"`
	Status     string `gorm:"index"`
	Confidence float64
	DetectedAt time.Time `gorm:"index"`
	Details    string    // JSON encoded map[string]string
}

// BlacklistModel stores one blocked IP per row.
type BlacklistModel struct {
	IP        string `gorm:"primaryKey"`
	Reason    string
	CreatedAt time.Time
}

// RequestLogModel is the GORM model for per-request access records.
type RequestLogModel struct {
	ID           uint   `gorm:"primaryKey"`
	IP           string `gorm:"index"`
	Endpoint     string
	Method       string
	StatusCode   int
	ResponseTime float64
	Timestamp    time.Time `gorm:"index"`
}

// UserModel is the GORM model for dashboard accounts.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	FirstName    string
	LastName     string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	LastLogin    time.Time
}

// NewSQLiteAdapter opens the database, installs query tracing and migrates
// the schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&ThreatModel{}, &BlacklistModel{}, &RequestLogModel{}, &UserModel{}); err != nil {
		return nil, err
	}

	// Composite indices the AutoMigrate tags don't cover
	db.Exec("CREATE INDEX IF NOT EXISTS idx_threats_status_detected ON threat_models(status, detected_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_request_logs_ts_status ON request_log_models(timestamp, status_code)")

	return &SQLiteAdapter{db: db}, nil
}

func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
