package dao

import (
	"time"

	"emosense/internal/model"
)

type PatientSpec struct {
	Id        int        `json:"id"`
	FirstName string     `json:"firstName" binding:"required,max=64"`
	LastName  string     `json:"lastName" binding:"required,max=64"`
	BirthDate *time.Time `json:"birthDate"`
	Gender    string     `json:"gender" binding:"omitempty,oneof=male female other"`
	Phone     string     `json:"phone" binding:"max=32"`
	Email     string     `json:"email" binding:"omitempty,email"`
	Notes     string     `json:"notes"`
	Age       int        `json:"age"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (s *PatientSpec) FromPatientModel(m *model.Patient) {
	s.Id = m.Id
	s.FirstName = m.FirstName
	s.LastName = m.LastName
	s.BirthDate = m.BirthDate
	s.Gender = m.Gender
	s.Phone = m.Phone
	s.Email = m.Email
	s.Notes = m.Notes
	s.Age = m.Age()
	s.CreatedAt = m.CreatedAt
}

func (s *PatientSpec) ToModel(psychologistId int) *model.Patient {
	return &model.Patient{
		PsychologistId: psychologistId,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		BirthDate:      s.BirthDate,
		Gender:         s.Gender,
		Phone:          s.Phone,
		Email:          s.Email,
		Notes:          s.Notes,
	}
}

type UpdatePatientSpec struct {
	FirstName *string    `json:"firstName" binding:"omitempty,max=64"`
	LastName  *string    `json:"lastName" binding:"omitempty,max=64"`
	BirthDate *time.Time `json:"birthDate"`
	Gender    *string    `json:"gender" binding:"omitempty,oneof=male female other"`
	Phone     *string    `json:"phone" binding:"omitempty,max=32"`
	Email     *string    `json:"email" binding:"omitempty,email"`
	Notes     *string    `json:"notes"`
}

func (s *UpdatePatientSpec) UpdateModel(m *model.Patient) {
	if s.FirstName != nil {
		m.FirstName = *s.FirstName
	}
	if s.LastName != nil {
		m.LastName = *s.LastName
	}
	if s.BirthDate != nil {
		m.BirthDate = s.BirthDate
	}
	if s.Gender != nil {
		m.Gender = *s.Gender
	}
	if s.Phone != nil {
		m.Phone = *s.Phone
	}
	if s.Email != nil {
		m.Email = *s.Email
	}
	if s.Notes != nil {
		m.Notes = *s.Notes
	}
}

type ListPatientsRequest struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type ListPatientsResponse struct {
	Total int64          `json:"total"`
	Items []*PatientSpec `json:"items"`
}
