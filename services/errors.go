package services

import (
	"context"
	"time"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

// MetricsRecorder is satisfied by pkg/aws.MetricsClient.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, name string, dimensions map[string]string) error
}

// recordCount ships the data point in the background on its own timeout.
func recordCount(m MetricsRecorder, name string) {
	if m == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.RecordCount(ctx, name, map[string]string{"Service": "checkout-service"})
	}()
}
