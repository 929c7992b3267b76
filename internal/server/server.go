package server

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"

	_ "emosense/docs"
	"emosense/internal/config"
	"emosense/internal/utils"
	"emosense/internal/vision"
	"emosense/pkg/log"
	"emosense/pkg/str"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	classifier *vision.Classifier
	minioCli   *minio.Client
	logger     *logrus.Entry
}

func NewServer(ctx context.Context, conf *config.Config) (*Server, error) {
	classifier, err := vision.NewClassifier(conf.Triton)
	if err != nil {
		return nil, err
	}
	readyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := classifier.Ready(readyCtx); err != nil {
		return nil, fmt.Errorf("triton not ready: %w", err)
	}

	s := &Server{
		conf:       conf,
		classifier: classifier,
		logger:     log.GetLogger(ctx),
	}

	if conf.S3.AccessKeyID != "" {
		minioCli, err := utils.NewMinioClient(conf.S3)
		if err != nil {
			return nil, err
		}
		s.minioCli = minioCli
	}

	return s, nil
}

func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(log.HttpXRequestId)
		if requestId == "" {
			requestId = str.NewUUID()
		}
		c.Header(log.HttpXRequestId, requestId)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		t := time.Now()
		c.Next()
		latency := time.Since(t)
		status := c.Writer.Status()

		logrus.Info("ip: ", c.ClientIP(), " method: ", c.Request.Method, " path: ",
			c.Request.URL.Path, " status: ", status, " latency: ", latency)
	}
}

func (s *Server) Start() {
	gin.SetMode(gin.ReleaseMode)
	router := s.SetUpRouter()
	pprof.Register(router)
	s.httpServer = &http.Server{
		Addr:    s.conf.Addr,
		Handler: router,
	}

	var err error
	if s.conf.SSLCert != "" && s.conf.SSLKey != "" {
		logrus.Infof("start https server on %s", s.conf.Addr)
		err = s.httpServer.ListenAndServeTLS(s.conf.SSLCert, s.conf.SSLKey)
	} else {
		logrus.Infof("start http server on %s", s.conf.Addr)
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && !goerrors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
}

func (s *Server) Shutdown() {
	err := s.httpServer.Shutdown(context.Background())
	if err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(c *gin.Context, code int, err error) {
	c.JSON(code, ErrorResponse{
		Error: err.Error(),
	})
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			matched, _ := regexp.MatchString(`^[a-zA-Z0-9!@#$%^*+()]+$`, fl.Field().String())
			return matched
		})
	}
}
