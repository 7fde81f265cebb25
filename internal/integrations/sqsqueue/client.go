// Package sqsqueue is the durable request queue between the dialog and the
// fulfillment worker. Delivery is at least once: a received message that is
// not acknowledged before the visibility timeout elapses reappears and may
// be handed out again.
package sqsqueue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"dining-concierge/internal/domain"
)

// Message attribute names, one per request field. The body itself is an
// opaque marker; the payload rides entirely in typed attributes.
const (
	attrLocation   = "Location"
	attrCuisine    = "Cuisine"
	attrPartySize  = "NumberOfPeople"
	attrDiningDate = "DiningDate"
	attrDiningTime = "DiningTime"
	attrEmail      = "Email"
	attrRequestID  = "RequestId"

	messageBody = "dining suggestion request"

	dataTypeString = "String"
	dataTypeNumber = "Number"
)

// sqsAPI is the minimal SQS interface required by Client.
// *sqs.Client from aws-sdk-go-v2 satisfies this interface.
type sqsAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Client wraps one SQS queue holding serialized validated requests.
type Client struct {
	api               sqsAPI
	queueURL          string
	visibilityTimeout int32
}

func New(api sqsAPI, queueURL string, visibilityTimeout int32) (*Client, error) {
	if api == nil {
		return nil, errors.New("sqsqueue: api must not be nil")
	}
	if strings.TrimSpace(queueURL) == "" {
		return nil, errors.New("sqsqueue: queue url must not be empty")
	}
	if visibilityTimeout <= 0 {
		return nil, errors.New("sqsqueue: visibility timeout must be positive")
	}
	return &Client{api: api, queueURL: queueURL, visibilityTimeout: visibilityTimeout}, nil
}

var newRequestID = func() string {
	return uuid.NewString()
}

// Enqueue publishes a validated request and returns the queue message id.
func (c *Client) Enqueue(ctx context.Context, req domain.DiningRequest) (string, error) {
	if strings.TrimSpace(req.Email) == "" {
		return "", errors.New("sqsqueue: request email is required")
	}

	attrs := map[string]types.MessageAttributeValue{
		attrLocation:   stringAttr(req.Location),
		attrCuisine:    stringAttr(req.Cuisine),
		attrPartySize:  numberAttr(strconv.Itoa(req.PartySize)),
		attrDiningDate: stringAttr(req.DiningDate),
		attrDiningTime: stringAttr(req.DiningTime),
		attrEmail:      stringAttr(req.Email),
		attrRequestID:  stringAttr(newRequestID()),
	}

	out, err := c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(c.queueURL),
		MessageBody:       aws.String(messageBody),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("sqsqueue: send message: %w", err)
	}
	if out == nil || out.MessageId == nil {
		return "", errors.New("sqsqueue: send message response missing message id")
	}
	return *out.MessageId, nil
}

// ReceiveOne fetches at most one message, hiding it from other consumers for
// the configured visibility timeout. Returns nil when the queue is empty.
// Absent attributes stay nil on the returned envelope; decoding never fails
// a cycle.
func (c *Client) ReceiveOne(ctx context.Context) (*domain.QueueMessage, error) {
	out, err := c.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(c.queueURL),
		MaxNumberOfMessages:   1,
		VisibilityTimeout:     c.visibilityTimeout,
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, fmt.Errorf("sqsqueue: receive message: %w", err)
	}
	if out == nil || len(out.Messages) == 0 {
		return nil, nil
	}

	m := out.Messages[0]
	msg := &domain.QueueMessage{
		MessageID:     aws.ToString(m.MessageId),
		ReceiptHandle: aws.ToString(m.ReceiptHandle),
		RequestID:     aws.ToString(attrValue(m.MessageAttributes, attrRequestID)),
		Location:      attrValue(m.MessageAttributes, attrLocation),
		Cuisine:       attrValue(m.MessageAttributes, attrCuisine),
		PartySize:     attrValue(m.MessageAttributes, attrPartySize),
		DiningDate:    attrValue(m.MessageAttributes, attrDiningDate),
		DiningTime:    attrValue(m.MessageAttributes, attrDiningTime),
		Email:         attrValue(m.MessageAttributes, attrEmail),
	}
	return msg, nil
}

// Acknowledge deletes a processed message so it cannot be redelivered.
func (c *Client) Acknowledge(ctx context.Context, msg *domain.QueueMessage) error {
	if msg == nil || msg.ReceiptHandle == "" {
		return errors.New("sqsqueue: message receipt handle is required")
	}
	_, err := c.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: aws.String(msg.ReceiptHandle),
	})
	if err != nil {
		return fmt.Errorf("sqsqueue: delete message: %w", err)
	}
	return nil
}

func stringAttr(v string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String(dataTypeString),
		StringValue: aws.String(v),
	}
}

func numberAttr(v string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String(dataTypeNumber),
		StringValue: aws.String(v),
	}
}

func attrValue(attrs map[string]types.MessageAttributeValue, name string) *string {
	a, ok := attrs[name]
	if !ok || a.StringValue == nil {
		return nil
	}
	return a.StringValue
}
