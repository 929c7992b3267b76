package server

import (
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) SetUpRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestId())
	router.Use(Logger())
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "ok",
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	apiV1 := router.Group("/api/v1")
	s.SetUpApiV1Router(apiV1)

	return router
}

func (s *Server) SetUpApiV1Router(apiV1 *gin.RouterGroup) {
	apiV1.POST("/register", s.handleRegister)
	apiV1.POST("/login", s.handleLogin)
	apiV1.POST("/logout", s.handleLogout)

	apiV1.Use(TrySetUserToContext(s.conf.JwtSecret))

	v1Authed := apiV1.Group("")
	v1Authed.Use(NeedAuth())

	v1Authed.GET("/profile", s.handleGetProfile)
	v1Authed.POST("/predict", s.handlePredict)

	v1Authed.POST("/patients", s.handleCreatePatient)
	v1Authed.GET("/patients", s.handleListPatients)
	{
		v1Patient := v1Authed.Group("/patient/:patient_id")
		v1Patient.Use(SetPatientToContext())
		v1Patient.GET("", s.handleGetPatient)
		v1Patient.PUT("", s.handleUpdatePatient)
		v1Patient.DELETE("", s.handleDeletePatient)
	}

	v1Authed.POST("/sessions", s.handleCreateSession)
	v1Authed.GET("/sessions", s.handleListSessions)
	{
		v1Session := v1Authed.Group("/session/:session_id")
		v1Session.Use(SetSessionToContext())
		v1Session.GET("", s.handleGetSession)
		v1Session.DELETE("", s.handleDeleteSession)
		v1Session.POST("/emotions", s.handleAddEmotion)
	}

	v1Authed.GET("/statistics/summary", s.handleStatisticsSummary)
	v1Authed.GET("/statistics/emotions", s.handleStatisticsEmotions)
	v1Authed.GET("/statistics/monthly", s.handleStatisticsMonthly)
	v1Authed.GET("/dashboard/stats", s.handleDashboardStats)

	v1Authed.GET("/report/:report_type/export", s.handleExportReport)
}
