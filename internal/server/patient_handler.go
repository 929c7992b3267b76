package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"emosense/internal/dao"
	"emosense/internal/model"
)

const patientKey = "patient"

// SetPatientToContext resolves :patient_id and enforces that the patient
// belongs to the authenticated psychologist. Someone else's patient is
// indistinguishable from a missing one.
func SetPatientToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		patientIdStr := c.Param("patient_id")
		if patientIdStr == "" {
			c.Next()
			return
		}

		patientId, err := strconv.Atoi(patientIdStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid patient_id",
			})
			return
		}

		patient, err := model.GetPatientById(patientId)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			return
		} else if patient == nil || patient.PsychologistId != currentPsychologist(c).Id {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "patient not found",
			})
			return
		}
		c.Set(patientKey, patient)
		c.Next()
	}
}

// handleCreatePatient creates a patient
// @Summary Create a patient
// @Tags patients
// @Accept json
// @Produce json
// @Param req body dao.PatientSpec true "patient payload"
// @Success 200 {object} dao.PatientSpec
// @Failure 400 {object} ErrorResponse "invalid payload"
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/patients [post]
func (s *Server) handleCreatePatient(c *gin.Context) {
	var req dao.PatientSpec
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	patient := req.ToModel(currentPsychologist(c).Id)
	if err := model.CreatePatient(patient); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	var spec dao.PatientSpec
	spec.FromPatientModel(patient)
	c.JSON(http.StatusOK, spec)
}

// handleListPatients lists the psychologist's patients
// @Summary List patients
// @Tags patients
// @Produce json
// @Param offset query int false "offset"
// @Param limit query int false "limit"
// @Success 200 {object} dao.ListPatientsResponse
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/patients [get]
func (s *Server) handleListPatients(c *gin.Context) {
	var req dao.ListPatientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	patients, total, err := model.ListPatients(currentPsychologist(c).Id, req.Offset, req.Limit)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	resp := dao.ListPatientsResponse{Total: total, Items: make([]*dao.PatientSpec, 0, len(patients))}
	for _, p := range patients {
		spec := &dao.PatientSpec{}
		spec.FromPatientModel(p)
		resp.Items = append(resp.Items, spec)
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetPatient returns one patient
// @Summary Get a patient
// @Tags patients
// @Produce json
// @Param patient_id path int true "patient id"
// @Success 200 {object} dao.PatientSpec
// @Failure 404 {object} ErrorResponse "patient not found"
// @Router /api/v1/patient/{patient_id} [get]
func (s *Server) handleGetPatient(c *gin.Context) {
	patient := c.MustGet(patientKey).(*model.Patient)

	var spec dao.PatientSpec
	spec.FromPatientModel(patient)
	c.JSON(http.StatusOK, spec)
}

// handleUpdatePatient updates one patient
// @Summary Update a patient
// @Tags patients
// @Accept json
// @Produce json
// @Param patient_id path int true "patient id"
// @Param req body dao.UpdatePatientSpec true "fields to update"
// @Success 200 {object} dao.PatientSpec
// @Failure 400 {object} ErrorResponse "invalid payload"
// @Failure 404 {object} ErrorResponse "patient not found"
// @Router /api/v1/patient/{patient_id} [put]
func (s *Server) handleUpdatePatient(c *gin.Context) {
	var req dao.UpdatePatientSpec
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	patient := c.MustGet(patientKey).(*model.Patient)
	req.UpdateModel(patient)
	if err := model.UpdatePatient(patient); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	var spec dao.PatientSpec
	spec.FromPatientModel(patient)
	c.JSON(http.StatusOK, spec)
}

// handleDeletePatient deletes one patient
// @Summary Delete a patient
// @Tags patients
// @Param patient_id path int true "patient id"
// @Success 200
// @Failure 404 {object} ErrorResponse "patient not found"
// @Router /api/v1/patient/{patient_id} [delete]
func (s *Server) handleDeletePatient(c *gin.Context) {
	patient := c.MustGet(patientKey).(*model.Patient)
	if err := model.DeletePatient(patient.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
