package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the part of *sns.Client the publisher uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSPublisher struct {
	client   SNSAPI
	topicARN string
}

func NewSNSPublisher(client SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) Notify(ctx context.Context, a Alert) error {
	triggers := make([]string, len(a.Triggers))
	for i, t := range a.Triggers {
		triggers[i] = string(t)
	}

	attrs := map[string]types.MessageAttributeValue{
		"risk":          stringAttr(string(a.Risk)),
		"top_condition": stringAttr(a.TopCondition.String()),
	}
	if len(triggers) > 0 {
		attrs["triggers"] = stringAttr(strings.Join(triggers, ","))
	}
	if a.Village != "" {
		attrs["village"] = stringAttr(a.Village)
	}

	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(p.topicARN),
		Subject:           aws.String(a.Subject()),
		Message:           aws.String(a.Text),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("sns publish %s: %w", a.ScreeningID, err)
	}
	return nil
}

func stringAttr(v string) types.MessageAttributeValue {
	return types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
}
