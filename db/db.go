package db

import (
	"consumable_stock_ledger/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = Migrate(DB)
	if err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Consumable{},
		&models.Operation{},
		&models.Alert{},
		&models.InventoryTask{},
		&models.InventoryEntry{},
	); err != nil {
		return err
	}

	// 同一耗材最多一条 open 告警
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_consumable
	  ON %s (consumable_id)
	  WHERE status = 'open';
	`, models.AlertTable, models.AlertTable)).Error; err != nil {
		return err
	}

	// 审计查询按耗材+时间倒序更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_consumable_createdat_desc
	  ON %s (consumable_id, created_at DESC);
	`, models.OperationTable, models.OperationTable)).Error; err != nil {
		return err
	}

	return nil
}
