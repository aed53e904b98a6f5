package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

const logRetentionDays = 30

type cloudWatchLogsAPI interface {
	CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, in *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
	CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchLogsWriter ships every Write as one log event. It is meant to be
// tee'd next to the console core of a zap logger.
type CloudWatchLogsWriter struct {
	api    cloudWatchLogsAPI
	group  string
	stream string
}

// NewCloudWatchLogsWriter ensures the log group exists and opens a fresh
// stream named after the service and start time.
func NewCloudWatchLogsWriter(ctx context.Context, cfg sdkaws.Config, group, serviceName string) (*CloudWatchLogsWriter, error) {
	w := &CloudWatchLogsWriter{
		api:    cloudwatchlogs.NewFromConfig(cfg),
		group:  group,
		stream: fmt.Sprintf("%s-%d", serviceName, time.Now().Unix()),
	}
	if err := w.ensureLogGroup(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure log group: %w", err)
	}
	if _, err := w.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  sdkaws.String(w.group),
		LogStreamName: sdkaws.String(w.stream),
	}); err != nil {
		return nil, fmt.Errorf("failed to create log stream: %w", err)
	}
	return w, nil
}

func (w *CloudWatchLogsWriter) ensureLogGroup(ctx context.Context) error {
	_, err := w.api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: sdkaws.String(w.group),
	})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return err
	}

	_, err = w.api.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    sdkaws.String(w.group),
		RetentionInDays: sdkaws.Int32(logRetentionDays),
	})
	return err
}

// Write never fails; shipping errors go to stderr so logging keeps working.
func (w *CloudWatchLogsWriter) Write(p []byte) (int, error) {
	_, err := w.api.PutLogEvents(context.Background(), &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  sdkaws.String(w.group),
		LogStreamName: sdkaws.String(w.stream),
		LogEvents: []types.InputLogEvent{{
			Message:   sdkaws.String(string(p)),
			Timestamp: sdkaws.Int64(time.Now().UnixMilli()),
		}},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "CloudWatch write error: %v\n", err)
	}
	return len(p), nil
}
