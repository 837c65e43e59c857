package slack_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/pressline/taskboard/pkg/service/slack"
	goslack "github.com/slack-go/slack"
)

// fakeSlack serves the handful of Web API methods the client calls
type fakeSlack struct {
	mu        sync.Mutex
	posts     []map[string]string
	userCalls int
	users     map[string]string
	failPost  bool
}

func newFakeSlack(t *testing.T) (*fakeSlack, string) {
	t.Helper()
	f := &fakeSlack{users: map[string]string{"U001": "alice", "U002": "bob"}}

	mux := http.NewServeMux()
	mux.HandleFunc("/users.info", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.userCalls++
		name, ok := f.users[r.FormValue("user")]
		f.mu.Unlock()

		if !ok {
			writeJSON(w, map[string]any{"ok": false, "error": "user_not_found"})
			return
		}
		writeJSON(w, map[string]any{
			"ok": true,
			"user": map[string]any{
				"id":        r.FormValue("user"),
				"name":      name,
				"real_name": name + " example",
				"profile":   map[string]any{"email": name + "@example.com"},
			},
		})
	})
	mux.HandleFunc("/users.list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"ok": true,
			"members": []map[string]any{
				{"id": "U001", "name": "alice"},
				{"id": "U002", "name": "bob"},
				{"id": "B001", "name": "robot", "is_bot": true},
				{"id": "U003", "name": "gone", "deleted": true},
			},
			"response_metadata": map[string]any{"next_cursor": ""},
		})
	})
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failPost {
			writeJSON(w, map[string]any{"ok": false, "error": "channel_not_found"})
			return
		}
		f.posts = append(f.posts, map[string]string{
			"channel": r.FormValue("channel"),
			"text":    r.FormValue("text"),
			"blocks":  r.FormValue("blocks"),
		})
		writeJSON(w, map[string]any{"ok": true, "channel": r.FormValue("channel"), "ts": "1700000000.000100"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv.URL + "/"
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newService(t *testing.T) (*fakeSlack, slack.Service) {
	t.Helper()
	f, url := newFakeSlack(t)
	svc, err := slack.New("xoxb-test", slack.WithAPIURL(url))
	gt.NoError(t, err).Required()
	return f, svc
}

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token is provided", func(t *testing.T) {
		svc, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	f, svc := newService(t)

	t.Run("GetUserInfo", func(t *testing.T) {
		u, err := svc.GetUserInfo(ctx, "U001")
		gt.NoError(t, err).Required()
		gt.Value(t, u.Name).Equal("alice")
		gt.Value(t, u.Email).Equal("alice@example.com")

		_, err = svc.GetUserInfo(ctx, "U999")
		gt.Error(t, err).Is(slack.ErrUserNotFound)
	})

	t.Run("ListUsers skips bots and deleted users", func(t *testing.T) {
		users, err := svc.ListUsers(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(2)
	})

	t.Run("PostMessage", func(t *testing.T) {
		ts, err := svc.PostMessage(ctx, "C001", []goslack.Block{
			goslack.NewSectionBlock(goslack.NewTextBlockObject(goslack.MarkdownType, "hi", false, false), nil, nil),
		}, "hi")
		gt.NoError(t, err).Required()
		gt.Value(t, ts).Equal("1700000000.000100")
		gt.Array(t, f.posts).Length(1).Required()
		gt.Value(t, f.posts[0]["channel"]).Equal("C001")
	})
}

func newEvent(kind types.NotificationKind) *model.AssignmentEvent {
	a := &model.Assignment{
		ID:         "01HZX0000000000000000000AB",
		Title:      "Catalog proof",
		Status:     types.AssignmentStatusInProgress,
		AssigneeID: "U001",
		Deadline:   time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC),
	}
	return model.NewAssignmentEvent(kind, a, time.Date(2026, 5, 30, 9, 0, 0, 0, time.UTC))
}

func TestNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("direct message to assignee", func(t *testing.T) {
		f, svc := newService(t)
		n := slack.NewNotifier(svc, slack.WithBaseURL("https://board.example.com/"))

		gt.NoError(t, n.SendAssignmentEvent(ctx, newEvent(types.NotificationKindCreated))).Required()
		gt.Array(t, f.posts).Length(1).Required()
		gt.Value(t, f.posts[0]["channel"]).Equal("U001")
		gt.String(t, f.posts[0]["text"]).Contains("New assignment: Catalog proof")
		gt.String(t, f.posts[0]["blocks"]).Contains("https://board.example.com/assignments/01HZX0000000000000000000AB")
	})

	t.Run("channel mode mentions the assignee", func(t *testing.T) {
		f, svc := newService(t)
		n := slack.NewNotifier(svc, slack.WithChannel("C0PRESS"))

		gt.NoError(t, n.SendAssignmentEvent(ctx, newEvent(types.NotificationKindOverdue))).Required()
		gt.Value(t, f.posts[0]["channel"]).Equal("C0PRESS")
		gt.String(t, postedContextText(t, f.posts[0]["blocks"])).Contains("<@U001>  |  Status: in_progress")
	})

	t.Run("post failure is returned", func(t *testing.T) {
		f, svc := newService(t)
		f.failPost = true
		err := slack.NewNotifier(svc).SendAssignmentEvent(ctx, newEvent(types.NotificationKindUpdated))
		gt.Value(t, err).NotNil()
	})
}

// postedContextText decodes the posted blocks form value and returns the text
// of the first context element
func postedContextText(t *testing.T, raw string) string {
	t.Helper()

	var blocks goslack.Blocks
	gt.NoError(t, json.Unmarshal([]byte(raw), &blocks)).Required()
	for _, b := range blocks.BlockSet {
		cb, ok := b.(*goslack.ContextBlock)
		if !ok {
			continue
		}
		gt.Array(t, cb.ContextElements.Elements).Longer(0).Required()
		text, ok := cb.ContextElements.Elements[0].(*goslack.TextBlockObject)
		gt.Bool(t, ok).True().Required()
		return text.Text
	}
	t.Fatal("no context block posted")
	return ""
}

func TestBuildAssignmentBlocks(t *testing.T) {
	blocks := slack.BuildAssignmentBlocks(newEvent(types.NotificationKindDueSoon), "")
	gt.Array(t, blocks).Length(2).Required()

	header, ok := blocks[0].(*goslack.HeaderBlock)
	gt.Bool(t, ok).True()
	gt.String(t, header.Text.Text).Contains("Due soon")
	gt.String(t, header.Text.Text).Contains("Catalog proof")
}

func TestTruncateChars(t *testing.T) {
	gt.Value(t, slack.TruncateChars("short", 10)).Equal("short")
	gt.Value(t, slack.TruncateChars("印刷工程の確認", 4)).Equal("印刷工…")
}

type stubService struct {
	slack.Service
	calls int
	err   error
}

func (s *stubService) GetUserInfo(_ context.Context, userID string) (*slack.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if userID != "U001" {
		return nil, slack.ErrUserNotFound
	}
	return &slack.User{ID: userID}, nil
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()

	t.Run("caches hits and misses", func(t *testing.T) {
		stub := &stubService{}
		dir := slack.NewDirectory(stub)

		for range 3 {
			ok, err := dir.Exists(ctx, "U001")
			gt.NoError(t, err).Required()
			gt.Bool(t, ok).True()

			ok, err = dir.Exists(ctx, "U404")
			gt.NoError(t, err).Required()
			gt.Bool(t, ok).False()
		}
		gt.Value(t, stub.calls).Equal(2)
	})

	t.Run("lookup errors are returned and not cached", func(t *testing.T) {
		stub := &stubService{err: errors.New("rate limited")}
		dir := slack.NewDirectory(stub)

		_, err := dir.Exists(ctx, "U001")
		gt.Value(t, err).NotNil()
		_, err = dir.Exists(ctx, "U001")
		gt.Value(t, err).NotNil()
		gt.Value(t, stub.calls).Equal(2)
	})

	t.Run("warm from user list", func(t *testing.T) {
		_, svc := newService(t)
		dir := slack.NewDirectory(svc)
		n, err := dir.Warm(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, n).Equal(2)

		ok, err := dir.Exists(ctx, "U002")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
	})
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	if token == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN is not set")
	}

	ctx := context.Background()
	svc, err := slack.New(token)
	gt.NoError(t, err).Required()

	users, err := svc.ListUsers(ctx)
	gt.NoError(t, err).Required()

	t.Run("GetUserInfo returns user info", func(t *testing.T) {
		if len(users) == 0 {
			t.Skip("No users available to test GetUserInfo")
		}

		user, err := svc.GetUserInfo(ctx, users[0].ID)
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal(users[0].ID)
	})

	t.Run("PostMessage to test channel", func(t *testing.T) {
		channel := os.Getenv("TEST_SLACK_CHANNEL_ID")
		if channel == "" {
			t.Skip("TEST_SLACK_CHANNEL_ID is not set")
		}
		n := slack.NewNotifier(svc, slack.WithChannel(channel))
		ev := newEvent(types.NotificationKindCreated)
		ev.AssigneeID = users[0].ID
		gt.NoError(t, n.SendAssignmentEvent(ctx, ev))
	})
}
