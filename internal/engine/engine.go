// Package engine maps an ordered set of media files to an ordered set of
// time slots and registers one deferred publication task per pair.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/instasched/instasched/internal/instagram"
	"github.com/instasched/instasched/internal/model"
	"github.com/instasched/instasched/internal/outcome"
	"github.com/instasched/instasched/internal/runner"
	"github.com/instasched/instasched/internal/session"
	"github.com/instasched/instasched/internal/timeparse"
)

// ReportFunc receives the asynchronous outcome of a fired task. The engine
// serializes its own calls; the presentation layer supplies the sink.
type ReportFunc func(model.Outcome)

// Request carries one scheduling batch as collected by the presentation
// layer: credentials, the media folder, the shared caption, a base date
// (YYYY-MM-DD) and a comma-separated list of HH:MM times.
type Request struct {
	Username string
	Password string
	Folder   string
	Caption  string
	Date     string
	Times    string
}

// TaskRunner registers deferred tasks. Satisfied by *runner.Runner.
type TaskRunner interface {
	Schedule(t runner.Task)
}

// MediaScanner enumerates publishable images. Satisfied by *media.Scanner.
type MediaScanner interface {
	Scan(folder string) ([]model.MediaItem, error)
}

// Deps bundles the collaborators the engine needs.
type Deps struct {
	Client   instagram.Client
	Sessions *session.Store
	Scanner  MediaScanner
	Log      *outcome.Log
	Runner   TaskRunner
	Fs       afero.Fs
	Location *time.Location
}

// Engine validates a scheduling request, authenticates once, pairs media
// items to time slots index-for-index and hands each pair to the runner.
type Engine struct {
	deps     Deps
	now      func() time.Time
	report   ReportFunc
	reportMu sync.Mutex
}

// New returns an Engine using the given collaborators.
func New(deps Deps) *Engine {
	return &Engine{
		deps:   deps,
		now:    time.Now,
		report: func(model.Outcome) {},
	}
}

// SetReporter installs the sink that receives asynchronous task outcomes.
func (e *Engine) SetReporter(fn ReportFunc) {
	if fn != nil {
		e.report = fn
	}
}

// Schedule runs one batch. Validation, pairing and authentication happen
// synchronously; a non-nil error means the whole batch was rejected and no
// task was registered. On success it returns one immediate outcome per media
// item (a registration notice or a per-item rejection), while the terminal
// publication outcomes arrive later through the reporter and the outcome log.
func (e *Engine) Schedule(ctx context.Context, req Request) ([]model.Outcome, error) {
	baseDate, err := timeparse.ParseDate(req.Date, e.deps.Location)
	if err != nil {
		return nil, err
	}
	slots, err := timeparse.ParseTimes(req.Times, baseDate)
	if err != nil {
		return nil, err
	}
	items, err := e.deps.Scanner.Scan(req.Folder)
	if err != nil {
		e.deps.Log.Append("scheduling rejected: " + err.Error())
		return nil, err
	}
	if len(items) > len(slots) {
		err := &InsufficientTimeSlotsError{Media: len(items), Slots: len(slots)}
		e.deps.Log.Append("scheduling rejected: " + err.Error())
		return nil, err
	}

	creds := model.Credentials{Username: req.Username, Password: req.Password}
	if err := e.deps.Sessions.SaveCredentials(creds); err != nil {
		slog.Warn("Failed to persist credentials", "error", err)
	}

	if err := e.login(ctx, req.Username, req.Password); err != nil {
		return nil, err
	}

	// Delay is measured after authentication, once per batch.
	now := e.now()
	outcomes := make([]model.Outcome, 0, len(items))
	for i, item := range items {
		slot := slots[i]

		exists, err := afero.Exists(e.deps.Fs, item.Path)
		if err != nil || !exists {
			out := model.Outcome{
				Kind:        model.KindRejected,
				When:        now,
				Media:       item.Name,
				ScheduledAt: slot,
				Message:     "file not found",
			}
			e.deps.Log.Append(out.String())
			outcomes = append(outcomes, out)
			continue
		}

		delay := slot.Sub(now)
		if delay < 0 {
			out := model.Outcome{
				Kind:        model.KindRejected,
				When:        now,
				Media:       item.Name,
				ScheduledAt: slot,
				Message:     "time slot already passed",
			}
			e.deps.Log.Append(out.String())
			outcomes = append(outcomes, out)
			continue
		}

		task := runner.Task{
			ID:    uuid.New().String(),
			RunAt: slot,
			Fn:    e.fireFunc(item, req.Caption, slot),
		}
		e.deps.Runner.Schedule(task)
		slog.Info("Task registered", "id", task.ID, "media", item.Name, "run_at", slot, "delay", delay)

		out := model.Outcome{
			Kind:        model.KindScheduled,
			When:        now,
			Media:       item.Name,
			ScheduledAt: slot,
			OK:          true,
			Message:     "post scheduled",
		}
		e.deps.Log.Append(out.String())
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// login implements the session-restore protocol: a stored session state is
// presented together with the credentials, and any error in that attempt is
// terminal, with no fallback to a fresh login. Only when no state is stored
// does a fresh login run, persisting the new state on success.
func (e *Engine) login(ctx context.Context, username, password string) error {
	stored, found, err := e.deps.Sessions.Restore()
	if err != nil {
		e.deps.Log.Append("error reading stored session: " + err.Error())
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	if found {
		if _, err := e.deps.Client.Login(ctx, username, password, stored); err != nil {
			e.deps.Log.Append("error using stored session: " + err.Error())
			return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
		}
		return nil
	}

	state, err := e.deps.Client.Login(ctx, username, password, nil)
	if err != nil {
		e.deps.Log.Append("login error: " + err.Error())
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if err := e.deps.Sessions.Persist(state); err != nil {
		slog.Warn("Failed to persist session state", "error", err)
	}
	return nil
}

// fireFunc builds the callback the runner invokes when the slot arrives.
// Each invocation is terminal for its task: success and failure are both
// recorded once and never retried.
func (e *Engine) fireFunc(item model.MediaItem, caption string, slot time.Time) func() {
	return func() {
		out := model.Outcome{
			When:        e.now(),
			Media:       item.Name,
			ScheduledAt: slot,
		}

		mediaID, err := e.upload(item, caption)
		if err != nil {
			out.Kind = model.KindFailed
			out.Message = "failed to post: " + err.Error()
		} else {
			out.Kind = model.KindPosted
			out.OK = true
			out.Message = "post published, media id " + mediaID
		}

		e.deps.Log.Append(out.String())

		// Tasks fire concurrently; the sink sees one outcome at a time.
		e.reportMu.Lock()
		e.report(out)
		e.reportMu.Unlock()
	}
}

// upload rechecks the file right before publishing; it can have vanished
// between scheduling and firing.
func (e *Engine) upload(item model.MediaItem, caption string) (string, error) {
	exists, err := afero.Exists(e.deps.Fs, item.Path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("file %s not found", item.Path)
	}
	return e.deps.Client.Upload(context.Background(), item.Path, caption)
}
