package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Psychologist struct {
	Id             int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"type:varchar(128);not null"`
	FullName       string    `json:"fullName" gorm:"type:varchar(128);not null"`
	LicenseNumber  string    `json:"licenseNumber" gorm:"type:varchar(64)"`
	Specialization string    `json:"specialization" gorm:"type:varchar(128)"`
	Phone          string    `json:"phone" gorm:"type:varchar(32)"`
	Email          string    `json:"email" gorm:"type:varchar(128);uniqueIndex;not null"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Psychologist) TableName() string {
	return "psychologists"
}

func CreatePsychologist(p *Psychologist) error {
	return DB.Create(p).Error
}

func GetPsychologistById(id int) (*Psychologist, error) {
	var p Psychologist
	if err := DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func GetPsychologistByUsername(username string) (*Psychologist, error) {
	var p Psychologist
	if err := DB.Where("username = ?", username).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func GetPsychologistByEmail(email string) (*Psychologist, error) {
	var p Psychologist
	if err := DB.Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
