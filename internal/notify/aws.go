package notify

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type Options struct {
	Region    string
	TopicARN  string
	EmailFrom string
	EmailTo   []string
}

func (o Options) enabled() bool {
	return o.TopicARN != "" || (o.EmailFrom != "" && len(o.EmailTo) > 0)
}

// New builds the configured AWS notifiers. With nothing configured it
// returns Noop and never touches AWS credentials.
func New(ctx context.Context, opts Options) (Notifier, error) {
	if !opts.enabled() {
		return Noop{}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var out Multi
	if opts.TopicARN != "" {
		out = append(out, NewSNSPublisher(sns.NewFromConfig(cfg), opts.TopicARN))
	}
	if opts.EmailFrom != "" && len(opts.EmailTo) > 0 {
		out = append(out, NewSESEmailer(ses.NewFromConfig(cfg), opts.EmailFrom, opts.EmailTo))
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}
