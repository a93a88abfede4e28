package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/glowdesk/spa-scheduler/internal/config"
	"github.com/glowdesk/spa-scheduler/internal/models"
	"github.com/glowdesk/spa-scheduler/internal/timezone"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.StaffMember{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Customer{},
		&models.Booking{},
		&models.GiftProgram{},
		&models.GiftCodeLedgerEntry{},
		&models.ConsentRecord{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(
		"UPDATE salons SET timezone = ? WHERE timezone IS NULL OR timezone = ''",
		timezone.DefaultTimezone,
	)

	return db
}
