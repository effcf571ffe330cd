package slack

import (
	"context"

	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

type notifier struct {
	client  *slack.Client
	channel string
}

// Option configures the notifier
type Option func(*[]slack.Option)

// WithAPIURL replaces the Slack API endpoint. The URL must end with a slash.
func WithAPIURL(url string) Option {
	return func(opts *[]slack.Option) {
		*opts = append(*opts, slack.OptionAPIURL(url))
	}
}

// New creates a notifier posting to channel with a bot token
func New(token, channel string, opts ...Option) (interfaces.Notifier, error) {
	if token == "" || channel == "" {
		return nil, goerr.New("slack token and channel are required")
	}

	var slackOpts []slack.Option
	for _, opt := range opts {
		opt(&slackOpts)
	}

	return &notifier{
		client:  slack.New(token, slackOpts...),
		channel: channel,
	}, nil
}

// Notify posts text to the channel
func (n *notifier) Notify(ctx context.Context, text string) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return goerr.Wrap(err, "failed to post slack message", goerr.V("channel", n.channel))
	}
	return nil
}
