package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"emosense/internal/dao"
	"emosense/internal/model"
	"emosense/pkg/str"
)

const sessionKey = "session"

func SetSessionToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionIdStr := c.Param("session_id")
		if sessionIdStr == "" {
			c.Next()
			return
		}

		sessionId, err := strconv.Atoi(sessionIdStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid session_id",
			})
			return
		}

		session, err := model.GetSessionById(sessionId)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			return
		} else if session == nil || session.PsychologistId != currentPsychologist(c).Id {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "session not found",
			})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// handleCreateSession creates a finished capture session
// @Summary Create a session
// @Tags sessions
// @Accept json
// @Produce json
// @Param req body dao.CreateSessionSpec true "session payload"
// @Success 200 {object} dao.SessionSpec
// @Failure 400 {object} ErrorResponse "invalid payload"
// @Failure 404 {object} ErrorResponse "patient not found"
// @Router /api/v1/sessions [post]
func (s *Server) handleCreateSession(c *gin.Context) {
	var req dao.CreateSessionSpec
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	user := currentPsychologist(c)
	patient, err := model.GetPatientById(req.PatientId)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if patient == nil || patient.PsychologistId != user.Id {
		s.writeError(c, http.StatusNotFound, fmt.Errorf("patient not found"))
		return
	}

	session := req.ToModel(str.NewUUID(), user.Id)
	if err := model.CreateSession(session); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	var spec dao.SessionSpec
	spec.FromSessionModel(session)
	c.JSON(http.StatusOK, spec)
}

// handleListSessions lists the psychologist's sessions
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Param patientId query int false "filter by patient"
// @Param offset query int false "offset"
// @Param limit query int false "limit"
// @Success 200 {object} dao.ListSessionsResponse
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/sessions [get]
func (s *Server) handleListSessions(c *gin.Context) {
	var req dao.ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	sessions, total, err := model.ListSessions(currentPsychologist(c).Id, req.PatientId, req.Offset, req.Limit)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	resp := dao.ListSessionsResponse{Total: total, Items: make([]*dao.SessionSpec, 0, len(sessions))}
	for _, session := range sessions {
		spec := &dao.SessionSpec{}
		spec.FromSessionModel(session)
		resp.Items = append(resp.Items, spec)
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetSession returns one session with its detected emotions
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param session_id path int true "session id"
// @Success 200 {object} dao.SessionDetailResponse
// @Failure 404 {object} ErrorResponse "session not found"
// @Router /api/v1/session/{session_id} [get]
func (s *Server) handleGetSession(c *gin.Context) {
	session := c.MustGet(sessionKey).(*model.Session)

	emotions, err := model.ListEmotionsBySession(session.Id)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	var resp dao.SessionDetailResponse
	resp.FromSessionModel(session)
	resp.Emotions = make([]*dao.DetectedEmotionSpec, 0, len(emotions))
	for _, e := range emotions {
		resp.Emotions = append(resp.Emotions, &dao.DetectedEmotionSpec{
			Id:         e.Id,
			Emotion:    e.Emotion,
			Confidence: e.Confidence,
			DetectedAt: e.DetectedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// handleDeleteSession deletes one session and its emotions
// @Summary Delete a session
// @Tags sessions
// @Param session_id path int true "session id"
// @Success 200
// @Failure 404 {object} ErrorResponse "session not found"
// @Router /api/v1/session/{session_id} [delete]
func (s *Server) handleDeleteSession(c *gin.Context) {
	session := c.MustGet(sessionKey).(*model.Session)
	if err := model.DeleteSession(session.Id); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// handleAddEmotion appends one detected emotion to a session
// @Summary Append a detected emotion
// @Tags sessions
// @Accept json
// @Produce json
// @Param session_id path int true "session id"
// @Param req body dao.AddEmotionSpec true "emotion sample"
// @Success 200 {object} dao.DetectedEmotionSpec
// @Failure 400 {object} ErrorResponse "invalid payload"
// @Failure 404 {object} ErrorResponse "session not found"
// @Router /api/v1/session/{session_id}/emotions [post]
func (s *Server) handleAddEmotion(c *gin.Context) {
	var req dao.AddEmotionSpec
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	session := c.MustGet(sessionKey).(*model.Session)
	emotion := req.ToModel(session.Id)
	if err := model.AddDetectedEmotion(emotion); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, &dao.DetectedEmotionSpec{
		Id:         emotion.Id,
		Emotion:    emotion.Emotion,
		Confidence: emotion.Confidence,
		DetectedAt: emotion.DetectedAt,
	})
}
