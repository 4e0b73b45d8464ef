package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/goleak"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/notifier"
	"github.com/julianstephens/goaltrack/internal/storage"
	"github.com/julianstephens/goaltrack/internal/storage/sqlite"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []notifier.Message
	failTo map[string]error
	block  bool
}

func (f *fakeSender) Send(ctx context.Context, msg notifier.Message) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failTo[msg.To]; ok {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var to []string
	for _, m := range f.sent {
		to = append(to, m.To)
	}
	sort.Strings(to)
	return to
}

type fakeDirectory map[string]models.User

func (d fakeDirectory) LookupUser(id string) (models.User, error) {
	u, ok := d[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return u, nil
}

func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func addGoal(t *testing.T, store storage.Provider, owner, text string, goalType models.GoalType) {
	t.Helper()
	err := store.AddGoal(models.Goal{
		ID:        uuid.New().String(),
		Owner:     owner,
		Text:      text,
		Type:      goalType,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AddGoal() failed: %v", err)
	}
}

func addSettings(t *testing.T, store storage.Provider, owner, email string) {
	t.Helper()
	if err := store.UpsertUserSettings(models.UserSettings{Owner: owner, Email: email, Timezone: "UTC"}); err != nil {
		t.Fatalf("UpsertUserSettings() failed: %v", err)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	for _, kind := range []Kind{Announcement, Reflection} {
		t.Run(string(kind), func(t *testing.T) {
			store := setupTestStore(t)
			for i := 1; i <= 3; i++ {
				owner := fmt.Sprintf("u%d", i)
				addSettings(t, store, owner, owner+"@example.com")
				addGoal(t, store, owner, "goal for "+owner, models.GoalDaily)
			}

			sender := &fakeSender{failTo: map[string]error{
				"u2@example.com": &apperrors.ProviderError{StatusCode: 500, Body: "boom"},
			}}
			d := NewDispatcher(store, nil, sender, Options{})

			result, err := d.Run(context.Background(), kind)
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}

			if result.Attempted != 3 || result.Sent != 2 || result.Failed != 1 {
				t.Errorf("Result = %+v, want 3 attempted, 2 sent, 1 failed", result)
			}
			if diff := cmp.Diff([]string{"u1@example.com", "u3@example.com"}, sender.recipients()); diff != "" {
				t.Errorf("recipients mismatch (-want +got):\n%s", diff)
			}
			if len(result.Failures) != 1 || result.Failures[0].Owner != "u2" {
				t.Errorf("Failures = %+v", result.Failures)
			}
		})
	}
}

func TestRunFallbackToGoalOwners(t *testing.T) {
	for _, kind := range []Kind{Announcement, Reflection} {
		t.Run(string(kind), func(t *testing.T) {
			store := setupTestStore(t)
			addGoal(t, store, "owner-1", "Read", models.GoalDaily)
			addGoal(t, store, "owner-1", "Run", models.GoalWeekly)

			dir := fakeDirectory{"owner-1": {ID: "owner-1", Email: "owner@example.com"}}
			sender := &fakeSender{}
			d := NewDispatcher(store, dir, sender, Options{})

			result, err := d.Run(context.Background(), kind)
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if result.Attempted != 1 || result.Sent != 1 {
				t.Errorf("Result = %+v, want exactly one send", result)
			}
			if diff := cmp.Diff([]string{"owner@example.com"}, sender.recipients()); diff != "" {
				t.Errorf("recipients mismatch (-want +got):\n%s", diff)
			}
			html := sender.sent[0].HTML
			if !strings.Contains(html, "Read") || !strings.Contains(html, "Run") {
				t.Error("email should list both active goals")
			}
		})
	}
}

func TestRunFallbackLookupFailure(t *testing.T) {
	store := setupTestStore(t)
	addGoal(t, store, "known", "Read", models.GoalDaily)
	addGoal(t, store, "unknown", "Write", models.GoalDaily)

	dir := fakeDirectory{"known": {ID: "known", Email: "known@example.com"}}
	sender := &fakeSender{}
	result, err := NewDispatcher(store, dir, sender, Options{}).Run(context.Background(), Announcement)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Sent != 1 || result.Failed != 1 || result.Failures[0].Owner != "unknown" {
		t.Errorf("Result = %+v", result)
	}
}

func TestRunSendsWithoutGoals(t *testing.T) {
	store := setupTestStore(t)
	addSettings(t, store, "u1", "u1@example.com")

	sender := &fakeSender{}
	result, err := NewDispatcher(store, nil, sender, Options{}).Run(context.Background(), Announcement)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Sent != 1 {
		t.Errorf("users without goals should still get the email, Result = %+v", result)
	}
}

type brokenStore struct {
	storage.Provider
}

func (brokenStore) GetAllUserSettings() ([]models.UserSettings, error) {
	return nil, errors.New("connection refused")
}

func TestRunFatalWhenEnumerationFails(t *testing.T) {
	store := brokenStore{Provider: setupTestStore(t)}
	sender := &fakeSender{}

	_, err := NewDispatcher(store, nil, sender, Options{}).Run(context.Background(), Reflection)
	var fatal *apperrors.FatalRunError
	if !errors.As(err, &fatal) {
		t.Fatalf("Run() error = %v, want FatalRunError", err)
	}
	if len(sender.sent) != 0 {
		t.Error("nothing should be sent after a fatal error")
	}
}

func TestRunSendTimeoutIsPerUser(t *testing.T) {
	store := setupTestStore(t)
	addSettings(t, store, "u1", "u1@example.com")
	addSettings(t, store, "u2", "u2@example.com")

	sender := &fakeSender{block: true}
	d := NewDispatcher(store, nil, sender, Options{SendTimeout: 20 * time.Millisecond, Concurrency: 2})

	result, err := d.Run(context.Background(), Announcement)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Failed != 2 || result.Sent != 0 {
		t.Errorf("Result = %+v, want both sends to time out", result)
	}
	for _, f := range result.Failures {
		if !strings.Contains(f.Error, context.DeadlineExceeded.Error()) {
			t.Errorf("failure %q is not a timeout", f.Error)
		}
	}
}

func TestRunConcurrent(t *testing.T) {
	store := setupTestStore(t)
	var want []string
	for i := 0; i < 12; i++ {
		owner := fmt.Sprintf("u%02d", i)
		addSettings(t, store, owner, owner+"@example.com")
		addGoal(t, store, owner, "goal", models.GoalMonthly)
		want = append(want, owner+"@example.com")
	}

	sender := &fakeSender{failTo: map[string]error{"u05@example.com": errors.New("rejected")}}
	result, err := NewDispatcher(store, nil, sender, Options{Concurrency: 4}).Run(context.Background(), Reflection)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Attempted != 12 || result.Sent != 11 || result.Failed != 1 {
		t.Errorf("Result = %+v", result)
	}

	want = append(want[:5], want[6:]...)
	if diff := cmp.Diff(want, sender.recipients()); diff != "" {
		t.Errorf("recipients mismatch (-want +got):\n%s", diff)
	}
}

func TestRunThroughProvider(t *testing.T) {
	var mu sync.Mutex
	var subjects []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Subject string `json:"subject"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		subjects = append(subjects, body.Subject)
		mu.Unlock()
		if strings.Contains(r.Header.Get("Authorization"), "bad") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	transport := &http.Transport{}
	defer transport.CloseIdleConnections()

	store := setupTestStore(t)
	addSettings(t, store, "u1", "u1@example.com")

	sender := notifier.New(notifier.Config{Endpoint: server.URL, APIKey: "key", FromEmail: "noreply@example.com"}).
		WithClient(&http.Client{Transport: transport})
	result, err := NewDispatcher(store, nil, sender, Options{}).Run(context.Background(), Reflection)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Sent != 1 {
		t.Fatalf("Result = %+v", result)
	}
	if len(subjects) != 1 || subjects[0] != "Evening Reflection - What did you accomplish today?" {
		t.Errorf("subjects = %v", subjects)
	}

	bad := notifier.New(notifier.Config{Endpoint: server.URL, APIKey: "bad", FromEmail: "noreply@example.com"}).
		WithClient(&http.Client{Transport: transport})
	result, err = NewDispatcher(store, nil, bad, Options{}).Run(context.Background(), Announcement)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Failed != 1 || !strings.Contains(result.Failures[0].Error, "status 403") {
		t.Errorf("Result = %+v, want a provider failure", result)
	}
}
