package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"

	"outreachengine/internal/domain"
)

// SESConfig holds configuration for the AWS SES channel.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

type sesDialer struct {
	client *ses.Client
	logger *slog.Logger
}

// NewSESDialer returns a ChannelDialer that delivers through AWS SES.
func NewSESDialer(cfg SESConfig, logger *slog.Logger) (domain.ChannelDialer, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("ses access key id and secret must be configured")
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for SES; use only in development")
	}
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify,
				MinVersion:         tls.VersionTLS12,
			},
		},
	}
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		HTTPClient: httpClient,
	}
	return &sesDialer{client: ses.NewFromConfig(awsCfg), logger: logger}, nil
}

func (d *sesDialer) Open(ctx context.Context) (domain.Channel, error) {
	return &sesChannel{client: d.client, logger: d.logger}, nil
}

type sesChannel struct {
	client *ses.Client
	logger *slog.Logger
}

func (c *sesChannel) Send(ctx context.Context, msg *domain.Message) error {
	input := &ses.SendEmailInput{
		Source: aws.String(msg.Sender.Display()),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	content := &types.Content{
		Data:    aws.String(msg.Body),
		Charset: aws.String("UTF-8"),
	}
	if isHTML(msg.Body) {
		input.Message.Body.Html = content
	} else {
		input.Message.Body.Text = content
	}

	result, err := c.client.SendEmail(ctx, input)
	if err != nil {
		return classifySESError(err)
	}
	c.logger.Debug("email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

func (c *sesChannel) Close() error { return nil }

// sesAuthErrorCodes are the STS/SigV4 error codes SES returns for bad or
// expired credentials. They fail every subsequent call identically, so they
// must abort the batch the same way an SMTP 535 does.
var sesAuthErrorCodes = map[string]struct{}{
	"InvalidClientTokenId":        {},
	"SignatureDoesNotMatch":       {},
	"UnrecognizedClientException": {},
	"ExpiredToken":                {},
	"ExpiredTokenException":       {},
}

// classifySESError maps an SES call failure onto the delivery failure
// taxonomy. Credential failures become FailureAuthentication; the SDK retries
// transient conditions internally, so everything else surfaces as a generic
// transport failure.
func classifySESError(err error) *domain.DeliveryError {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, ok := sesAuthErrorCodes[apiErr.ErrorCode()]; ok {
			return &domain.DeliveryError{Kind: domain.FailureAuthentication, Err: err}
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusForbidden {
		return &domain.DeliveryError{Kind: domain.FailureAuthentication, Err: err}
	}
	return &domain.DeliveryError{Kind: domain.FailureTransport, Err: err}
}
