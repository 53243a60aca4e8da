package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESEmailer mails the alert text to a fixed list of supervisors.
type SESEmailer struct {
	client SESAPI
	from   string
	to     []string
}

func NewSESEmailer(client SESAPI, from string, to []string) *SESEmailer {
	return &SESEmailer{client: client, from: from, to: append([]string(nil), to...)}
}

func (e *SESEmailer) Notify(ctx context.Context, a Alert) error {
	_, err := e.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: e.to,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(a.Subject()), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(a.Text), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(e.from),
	})
	if err != nil {
		return fmt.Errorf("ses send %s: %w", a.ScreeningID, err)
	}
	return nil
}
