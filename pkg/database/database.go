package database

import (
	"fmt"
	"time"

	"github.com/docpoint/docpoint-api/internal/config"
	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/appointment"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Close drains the connection pool. Called on shutdown after the HTTP
// server has stopped accepting requests.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"booking", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&user.User{},
		&doctor.Doctor{},
		&appointment.Appointment{},
		&domain.AuditLog{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Backstop for the booking protocol: at most one non-cancelled
		// appointment per doctor slot, even if two transactions race past
		// the in-transaction pre-checks.
		{
			name:  "idx_appointments_active_slot",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot ON booking.appointments (doctor_id, slot_date, slot_time) WHERE cancelled = false`,
		},
		{
			name:  "idx_appointments_doctor_active",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_active ON booking.appointments (doctor_id, cancelled, created_at DESC)`,
		},
		{
			name:  "idx_appointments_user_active",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_user_active ON booking.appointments (user_id, cancelled, created_at DESC)`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
