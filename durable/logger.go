package durable

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/logging"
)

type LoggerClient struct {
	*logging.Client
}

// NewLoggerClient connects to Cloud Logging unless disabled, in which case
// every logger built from it writes to the standard logger.
func NewLoggerClient(project string, disabled bool) (*LoggerClient, error) {
	if disabled || project == "" {
		return &LoggerClient{}, nil
	}
	client, err := logging.NewClient(context.Background(), project)
	if err != nil {
		return nil, err
	}
	return &LoggerClient{Client: client}, nil
}

func (lc *LoggerClient) Close() error {
	if lc.Client == nil {
		return nil
	}
	return lc.Client.Close()
}

type Logger struct {
	logger  *logging.Logger
	service string
	labels  map[string]string
	request *logging.HTTPRequest
}

func BuildLogger(client *LoggerClient, service string, r *http.Request) *Logger {
	logger := &Logger{
		service: service,
		labels:  map[string]string{"service": service},
	}
	if client != nil && client.Client != nil {
		logger.logger = client.Logger(service)
	}
	if r != nil {
		logger.request = &logging.HTTPRequest{Request: r, RemoteIP: r.RemoteAddr}
		logger.labels["request_id"] = r.Header.Get("X-Request-Id")
	}
	return logger
}

func (logger *Logger) FillResponse(status int, size int64, latency time.Duration) {
	if logger.request == nil {
		return
	}
	logger.request.Status = status
	logger.request.ResponseSize = size
	logger.request.Latency = latency
}

func (logger *Logger) Debug(v ...interface{}) {
	logger.write(logging.Debug, fmt.Sprint(v...))
}

func (logger *Logger) Info(v ...interface{}) {
	logger.write(logging.Info, fmt.Sprint(v...))
}

func (logger *Logger) Error(v ...interface{}) {
	logger.write(logging.Error, fmt.Sprint(v...))
}

func (logger *Logger) Debugf(format string, v ...interface{}) {
	logger.write(logging.Debug, fmt.Sprintf(format, v...))
}

func (logger *Logger) Infof(format string, v ...interface{}) {
	logger.write(logging.Info, fmt.Sprintf(format, v...))
}

func (logger *Logger) Errorf(format string, v ...interface{}) {
	logger.write(logging.Error, fmt.Sprintf(format, v...))
}

func (logger *Logger) write(severity logging.Severity, payload string) {
	if logger.logger == nil {
		log.Printf("[%s] %s %s\n", severity, logger.service, payload)
		return
	}
	logger.logger.Log(logging.Entry{
		Severity:    severity,
		Payload:     payload,
		Labels:      logger.labels,
		HTTPRequest: logger.request,
	})
}
