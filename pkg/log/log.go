package log

import (
	"context"
	"fmt"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
)

const (
	HttpXRequestId = "X-Request-Id"
	CtxRequestId   = "ctx_request_id"
)

func InitLog(logLevel string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(true)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			return "", fmt.Sprintf("%s:%d", path.Base(frame.File), frame.Line)
		},
	})
}

// GetLogger returns a logger tagged with the request id carried by ctx, if any.
func GetLogger(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if requestId, ok := ctx.Value(CtxRequestId).(string); ok {
			return logrus.WithField("request_id", requestId)
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
