package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/psds-microservice/support-router/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models: все таблицы сервиса, в порядке для AutoMigrate.
var Models = []interface{}{
	&model.Ticket{},
	&model.Operator{},
	&model.UserSession{},
	&model.FAQEntry{},
	&model.OperatorBinding{},
}

// Open открывает соединение gorm для драйвера postgres, mysql или sqlite.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	if driver == "sqlite" {
		// SQLite допускает одного писателя; пул из одного соединения исключает SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// AutoMigrate создаёт схему через gorm (mysql, sqlite, тесты). Для postgres используется MigrateUp.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if db.Dialector.Name() == "sqlite" {
		// at most one in_progress ticket per customer
		if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_tickets_customer_in_progress
			ON tickets (customer_id) WHERE status = 'in_progress'`).Error; err != nil {
			return fmt.Errorf("automigrate: partial index: %w", err)
		}
	}
	return nil
}
