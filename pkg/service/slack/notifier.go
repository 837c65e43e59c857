package slack

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/slack-go/slack"
)

// headerMaxChars is the Slack limit for header block text
const headerMaxChars = 150

// Notifier delivers assignment events as Slack messages. Without a channel
// each event goes to the assignee as a direct message; with one it is posted
// there with a mention.
type Notifier struct {
	svc     Service
	channel string
	baseURL string
}

var _ interfaces.NotificationSink = &Notifier{}

type NotifierOption func(*Notifier)

// WithChannel posts every event to channelID instead of a direct message
func WithChannel(channelID string) NotifierOption {
	return func(n *Notifier) {
		n.channel = channelID
	}
}

// WithBaseURL adds a link to {baseURL}/assignments/{id} to each message
func WithBaseURL(baseURL string) NotifierOption {
	return func(n *Notifier) {
		n.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func NewNotifier(svc Service, opts ...NotifierOption) *Notifier {
	n := &Notifier{svc: svc}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) SendAssignmentEvent(ctx context.Context, event *model.AssignmentEvent) error {
	if event.AssigneeID == "" {
		return nil
	}

	channel := n.channel
	if channel == "" {
		channel = event.AssigneeID
	}

	url := ""
	if n.baseURL != "" {
		url = n.baseURL + "/assignments/" + event.AssignmentID.String()
	}

	blocks := buildAssignmentBlocks(event, url)
	if _, err := n.svc.PostMessage(ctx, channel, blocks, fallbackText(event)); err != nil {
		return goerr.Wrap(err, "failed to post assignment notification",
			goerr.V("event_id", event.ID),
			goerr.V("assignment_id", event.AssignmentID),
			goerr.V("channel_id", channel))
	}
	return nil
}

func headline(kind types.NotificationKind) string {
	switch kind {
	case types.NotificationKindCreated:
		return "New assignment"
	case types.NotificationKindDueSoon:
		return "Due soon"
	case types.NotificationKindOverdue:
		return "Overdue"
	default:
		return "Assignment updated"
	}
}

func fallbackText(event *model.AssignmentEvent) string {
	return fmt.Sprintf("%s: %s (%s)", headline(event.Kind), event.AssignmentTitle, event.Status)
}

// buildAssignmentBlocks constructs Block Kit blocks for an assignment notification message.
func buildAssignmentBlocks(event *model.AssignmentEvent, url string) []slack.Block {
	header := headline(event.Kind) + ": " + event.Status.Emoji() + " " + event.AssignmentTitle
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, truncateChars(header, headerMaxChars), true, false),
		),
	}

	// Context: assignee, status, deadline, and link
	contextParts := []string{
		fmt.Sprintf("<@%s>", event.AssigneeID),
		fmt.Sprintf("Status: %s", event.Status),
		fmt.Sprintf("Deadline: <!date^%d^{date_short_pretty} {time}|%s>",
			event.Deadline.Unix(), event.Deadline.Format("2006-01-02 15:04 MST")),
	}
	if url != "" {
		contextParts = append(contextParts, fmt.Sprintf(":link: <%s|Link>", url))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, strings.Join(contextParts, "  |  "), false, false),
	))

	return blocks
}

// truncateChars cuts s to at most n runes, marking the cut with an ellipsis
func truncateChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
