package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	Id             int        `json:"id" gorm:"primaryKey;autoIncrement"`
	PsychologistId int        `json:"psychologistId" gorm:"index;not null"`
	FirstName      string     `json:"firstName" gorm:"type:varchar(64);not null"`
	LastName       string     `json:"lastName" gorm:"type:varchar(64);not null"`
	BirthDate      *time.Time `json:"birthDate"`
	Gender         string     `json:"gender" gorm:"type:varchar(16)"`
	Phone          string     `json:"phone" gorm:"type:varchar(32)"`
	Email          string     `json:"email" gorm:"type:varchar(128)"`
	Notes          string     `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Patient) TableName() string {
	return "patients"
}

// Age returns the patient's age in full years, or 0 when the birth date
// is unknown.
func (p *Patient) Age() int {
	if p.BirthDate == nil {
		return 0
	}
	now := time.Now()
	age := now.Year() - p.BirthDate.Year()
	if now.YearDay() < p.BirthDate.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

func CreatePatient(p *Patient) error {
	return DB.Create(p).Error
}

func GetPatientById(id int) (*Patient, error) {
	var p Patient
	if err := DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func ListPatients(psychologistId, offset, limit int) ([]*Patient, int64, error) {
	var patients []*Patient
	var total int64
	query := DB.Model(&Patient{}).Where("psychologist_id = ?", psychologistId)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("id desc").Offset(offset).Limit(limit).Find(&patients).Error; err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func ListPatientsByIds(ids []int) ([]*Patient, error) {
	var patients []*Patient
	if len(ids) == 0 {
		return patients, nil
	}
	err := DB.Where("id IN ?", ids).Find(&patients).Error
	return patients, err
}

func UpdatePatient(p *Patient) error {
	return DB.Save(p).Error
}

func DeletePatient(id int) error {
	return DB.Delete(&Patient{}, id).Error
}
