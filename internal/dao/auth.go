package dao

import (
	"time"

	"emosense/internal/model"
)

type RegisterSpec struct {
	Username        string `json:"username" binding:"required,min=3,max=64"`
	Password        string `json:"password" binding:"required,min=6,max=64,password"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	FullName        string `json:"fullName" binding:"required,max=128"`
	LicenseNumber   string `json:"licenseNumber" binding:"max=64"`
	Specialization  string `json:"specialization" binding:"max=128"`
	Phone           string `json:"phone" binding:"max=32"`
	Email           string `json:"email" binding:"required,email"`
}

func (s *RegisterSpec) ToModel() *model.Psychologist {
	return &model.Psychologist{
		Username:       s.Username,
		FullName:       s.FullName,
		LicenseNumber:  s.LicenseNumber,
		Specialization: s.Specialization,
		Phone:          s.Phone,
		Email:          s.Email,
	}
}

type LoginSpec struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PsychologistSpec struct {
	Id             int       `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"fullName"`
	LicenseNumber  string    `json:"licenseNumber"`
	Specialization string    `json:"specialization"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *PsychologistSpec) FromPsychologistModel(m *model.Psychologist) {
	s.Id = m.Id
	s.Username = m.Username
	s.FullName = m.FullName
	s.LicenseNumber = m.LicenseNumber
	s.Specialization = m.Specialization
	s.Phone = m.Phone
	s.Email = m.Email
	s.CreatedAt = m.CreatedAt
}

type LoginResponse struct {
	Token    string           `json:"token"`
	ExpireAt int64            `json:"expireAt"`
	Profile  PsychologistSpec `json:"profile"`
}
