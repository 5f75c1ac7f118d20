package notifications

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/goccy/go-json"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/logger"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSConfiguration is the configuration of the SQS notifier. Without access id
// the default AWS credential chain is used.
type SQSConfiguration struct {
	QueueURL  string
	AWSRegion string
	AccessID  string
	AccessKey string
}

// SQS publishes notifications to an SQS queue
type SQS struct {
	client   sqsAPI
	queueURL string
}

// NewSQS returns an SQS notifier
func NewSQS(ctx context.Context, sqsConfig SQSConfiguration) (*SQS, error) {
	options := []func(*config.LoadOptions) error{config.WithRegion(sqsConfig.AWSRegion)}
	if sqsConfig.AccessID != "" {
		options = append(options, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sqsConfig.AccessID, sqsConfig.AccessKey, "")))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, err
	}
	logger.Default().Infoln("sqs notifications to", sqsConfig.QueueURL)
	return &SQS{client: sqs.NewFromConfig(awsConfig), queueURL: sqsConfig.QueueURL}, nil
}

// Notify implements core.Notifier
func (s *SQS) Notify(ctx context.Context, notification core.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"resource":  {DataType: aws.String("String"), StringValue: aws.String(notification.Resource)},
			"operation": {DataType: aws.String("String"), StringValue: aws.String(string(notification.Operation))},
		},
	})
	return err
}
