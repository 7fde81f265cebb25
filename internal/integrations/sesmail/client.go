// Package sesmail delivers recommendation notifications over SES.
package sesmail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

// sesAPI is the minimal SES interface required by Client.
// *ses.Client from aws-sdk-go-v2 satisfies this interface.
type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Client sends HTML email with a plain-text fallback from a fixed verified
// sender identity.
type Client struct {
	api    sesAPI
	sender string
}

func New(api sesAPI, sender string) (*Client, error) {
	if api == nil {
		return nil, errors.New("sesmail: api must not be nil")
	}
	if strings.TrimSpace(sender) == "" {
		return nil, errors.New("sesmail: sender identity must not be empty")
	}
	return &Client{api: api, sender: sender}, nil
}

// Send delivers one message and returns the SES message id.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return "", errors.New("sesmail: recipient is required")
	}

	out, err := c.api.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(c.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String(charset)},
				Text: &types.Content{Data: aws.String(textBody), Charset: aws.String(charset)},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sesmail: send email to %s: %w", to, err)
	}
	if out == nil || out.MessageId == nil {
		return "", errors.New("sesmail: response missing message id")
	}
	return *out.MessageId, nil
}
