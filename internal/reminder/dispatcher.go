package reminder

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/goaltrack/internal/constants"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/goals"
	"github.com/julianstephens/goaltrack/internal/logger"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/notifier"
	"github.com/julianstephens/goaltrack/internal/storage"
	"github.com/julianstephens/goaltrack/internal/utils"
)

// Directory resolves a user id to the user's identity record.
type Directory interface {
	LookupUser(id string) (models.User, error)
}

type Options struct {
	// AppURL is the call-to-action link target.
	AppURL string
	// SendTimeout bounds each individual send.
	SendTimeout time.Duration
	// Concurrency is the number of users processed at once; values below 1
	// mean one at a time.
	Concurrency int
}

// Failure records one user the run could not deliver to.
type Failure struct {
	Owner string `json:"user_id"`
	Email string `json:"email,omitempty"`
	Error string `json:"error"`
}

// Result summarizes a run. A run with failures is still a successful run.
type Result struct {
	Kind      Kind      `json:"kind"`
	Attempted int       `json:"attempted"`
	Sent      int       `json:"sent"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

type recipient struct {
	owner    string
	email    string
	timezone string
	// resolve looks the email up in the directory before sending.
	resolve bool
}

// Dispatcher sends one reminder to every known user. It only reads from the
// store.
type Dispatcher struct {
	store     storage.Provider
	registry  *goals.Registry
	directory Directory
	sender    notifier.Sender
	opts      Options
	now       func() time.Time
}

func NewDispatcher(store storage.Provider, directory Directory, sender notifier.Sender, opts Options) *Dispatcher {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = constants.DefaultSendTimeout
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.AppURL == "" {
		opts.AppURL = constants.DefaultAppURL
	}
	return &Dispatcher{
		store:     store,
		registry:  goals.New(store),
		directory: directory,
		sender:    sender,
		opts:      opts,
		now:       time.Now,
	}
}

// Run sends the reminder of the given kind to every user. Per-user failures
// are logged and reported in the Result. The returned error is non-nil only
// when the recipients cannot be enumerated, in which case it is a
// *errors.FatalRunError.
func (d *Dispatcher) Run(ctx context.Context, kind Kind) (Result, error) {
	if _, ok := copies[kind]; !ok {
		return Result{}, fmt.Errorf("unknown reminder kind %q", kind)
	}

	recipients, err := d.recipients()
	if err != nil {
		logger.Error("Failed to enumerate reminder recipients", "kind", kind, "error", err)
		return Result{}, &apperrors.FatalRunError{Err: err}
	}
	logger.Info("Starting reminder run", "kind", kind, "recipients", len(recipients))

	result := Result{Kind: kind, Attempted: len(recipients)}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(d.opts.Concurrency)
	for _, r := range recipients {
		g.Go(func() error {
			email, err := d.deliver(ctx, kind, r)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("Reminder not delivered", "kind", kind, "owner", r.owner, "email", email, "error", err)
				result.Failed++
				result.Failures = append(result.Failures, Failure{Owner: r.owner, Email: email, Error: err.Error()})
				return nil
			}
			logger.Info("Reminder queued", "kind", kind, "email", email)
			result.Sent++
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Owner < result.Failures[j].Owner
	})
	logger.Info("Reminder run finished", "kind", kind, "attempted", result.Attempted, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// recipients lists every user with saved settings. Before anyone has saved
// settings it falls back to the owners of active goals.
func (d *Dispatcher) recipients() ([]recipient, error) {
	all, err := d.store.GetAllUserSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to list user settings: %w", err)
	}

	if len(all) > 0 {
		out := make([]recipient, 0, len(all))
		for _, s := range all {
			out = append(out, recipient{
				owner:    s.Owner,
				email:    s.Email,
				timezone: s.Timezone,
				resolve:  s.Email == "",
			})
		}
		return out, nil
	}

	logger.Info("No user settings found, falling back to owners of active goals")
	owners, err := d.store.GetActiveGoalOwners()
	if err != nil {
		return nil, fmt.Errorf("failed to list goal owners: %w", err)
	}
	out := make([]recipient, 0, len(owners))
	for _, owner := range owners {
		out = append(out, recipient{owner: owner, resolve: true})
	}
	return out, nil
}

func (d *Dispatcher) deliver(ctx context.Context, kind Kind, r recipient) (string, error) {
	email := r.email
	if r.resolve {
		if d.directory == nil {
			return "", fmt.Errorf("no directory to resolve user %s", r.owner)
		}
		user, err := d.directory.LookupUser(r.owner)
		if err != nil {
			return "", fmt.Errorf("failed to resolve user: %w", err)
		}
		email = user.Email
	}

	active, err := d.registry.ListActive(r.owner)
	if err != nil {
		return email, err
	}
	logger.Debug("Rendering reminder", "email", email, "goals", len(active))

	msg, err := Render(kind, d.localNow(r.timezone), goals.Partition(active), d.opts.AppURL)
	if err != nil {
		return email, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.opts.SendTimeout)
	defer cancel()
	if err := d.sender.Send(sendCtx, notifier.Message{To: email, Subject: msg.Subject, HTML: msg.HTML}); err != nil {
		return email, err
	}
	return email, nil
}

// localNow is the current time in the user's timezone, or server local time
// when the timezone is unknown.
func (d *Dispatcher) localNow(timezone string) time.Time {
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		logger.Warn("Invalid timezone, using server local time", "timezone", timezone, "error", err)
		loc = time.Local
	}
	return d.now().In(loc)
}
