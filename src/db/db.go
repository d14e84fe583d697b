package db

import (
	"errors"
	"log"
	"preludio/src/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// Init opens the connection pool. Called once from main (or a test harness
// via Set); handlers obtain the handle through Get.
func Init() (*gorm.DB, error) {
	if db != nil {
		return db, nil
	}
	_db, err := gorm.Open(postgres.Open(config.GetDSN()))
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		return nil, err
	}
	sqlDB, err := _db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db, nil
}

func Get() *gorm.DB {
	if db == nil {
		panic(errors.New("db: Init was not called"))
	}
	return db
}

// Set replaces the handle. Used by tests to install a mock-backed instance.
func Set(newdb *gorm.DB) {
	db = newdb
}

func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	return sqlDB.Close()
}
