package database

import (
	"log"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewMySQLConnection(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Fatal: cannot connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Expense{},
		&model.AIExpense{},
		&model.Goal{},
	); err != nil {
		log.Fatalf("Fatal: migration failed: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
