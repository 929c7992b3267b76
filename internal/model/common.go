package model

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"emosense/internal/config"
	"emosense/pkg/str"
)

var DB *gorm.DB

func InitDB(conf config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(conf.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(conf.MaxLifetime) * time.Second)

	DB = db
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Psychologist{},
		&Patient{},
		&Session{},
		&DetectedEmotion{},
	)
}

func InsertTestData(db *gorm.DB) error {
	admin := &Psychologist{
		Username: "demo",
		Password: str.Md5Str("123456"),
		FullName: "Demo Psychologist",
		Email:    "demo@example.com",
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	birth := time.Date(1996, 4, 12, 0, 0, 0, 0, time.UTC)
	patient := &Patient{
		PsychologistId: admin.Id,
		FirstName:      "Ana",
		LastName:       "Ruiz",
		BirthDate:      &birth,
		Gender:         "female",
	}
	return db.Create(patient).Error
}
