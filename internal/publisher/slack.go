package publisher

import (
	"context"
	"fmt"
	"github.com/slack-go/slack"
	"time"
)

// SlackSender is the subset of the slack client used by Slack.
type SlackSender interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Slack announces each message on a Slack channel.
type Slack struct {
	Client  SlackSender
	Channel string
}

var _ Publisher = Slack{}

func (s Slack) Publish(ctx context.Context, topic string, msg Message) error {
	_, _, err := s.Client.PostMessageContext(ctx, s.Channel, slack.MsgOptionBlocks(announcement(topic, msg)))
	if err != nil {
		return fmt.Errorf("%w: slack: %w", ErrPublish, err)
	}
	return nil
}

func announcement(topic string, msg Message) *slack.SectionBlock {
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, "*"+topic+"*", false, false),
		[]*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, "pattern: "+msg.Pattern, false, false),
			slack.NewTextBlockObject(slack.MarkdownType, "showing for "+(time.Duration(msg.Duration)*time.Second).String(), false, false),
		},
		nil,
	)
}
