// Package watch implements the resident mode: instead of relying on an
// external crontab, a cron runner inside this process fires the planner's
// entries directly. Useful on hosts without cron and in containers.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"blocksched/internal/cronsync"
	"blocksched/internal/planner"
	"blocksched/internal/service"
	logx "blocksched/pkg/logx"
)

type Config struct {
	// StorePath is the schedules file to watch for out-of-band edits.
	StorePath string
	// MinResyncInterval caps replan frequency under event storms.
	MinResyncInterval time.Duration
}

type Service struct {
	cfg Config
	svc *service.Service
	log logx.Logger

	limiter *rate.Limiter

	mu     sync.Mutex
	runner *cron.Cron
}

func New(cfg Config, svc *service.Service, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.MinResyncInterval <= 0 {
		cfg.MinResyncInterval = 2 * time.Second
	}
	return &Service{
		cfg:     cfg,
		svc:     svc,
		log:     log,
		limiter: rate.NewLimiter(rate.Every(cfg.MinResyncInterval), 1),
	}
}

// Run blocks until ctx is done. It registers the current entries, signals
// readiness to systemd when applicable, and replans whenever the schedules
// file changes.
func (s *Service) Run(ctx context.Context) error {
	if err := s.replan(ctx); err != nil {
		return err
	}

	// Best-effort: no-op outside a systemd unit.
	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err == nil && sent {
		s.log.Debug("sd_notify ready sent")
	}

	watchErr := make(chan error, 1)
	go func() { watchErr <- s.watchStore(ctx) }()

	select {
	case <-ctx.Done():
	case err := <-watchErr:
		if err != nil {
			s.log.Error("store watcher failed", logx.Err(err))
		}
	}

	s.mu.Lock()
	runner := s.runner
	s.runner = nil
	s.mu.Unlock()
	if runner != nil {
		<-runner.Stop().Done()
	}
	s.log.Info("watch mode stopped")
	return nil
}

// replan swaps the cron runner for one registered from the current store
// contents, then applies each schedule's present desired state.
func (s *Service) replan(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	all, err := s.svc.List()
	if err != nil {
		return err
	}
	entries := planner.Plan(all)

	runner := cron.New()
	for _, e := range entries {
		expr, err := cronsync.Expression(e)
		if err != nil {
			return err
		}
		owner, action := e.Owner, string(e.Action)
		if _, err := runner.AddFunc(expr, func() {
			rctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := s.svc.Run(rctx, owner, action); err != nil {
				s.log.Error("scheduled actuation failed",
					logx.String("name", owner), logx.String("action", action), logx.Err(err))
			}
		}); err != nil {
			return err
		}
	}

	s.mu.Lock()
	old := s.runner
	s.runner = runner
	s.mu.Unlock()
	if old != nil {
		<-old.Stop().Done()
	}
	runner.Start()

	s.log.Info("watch plan loaded",
		logx.Int("schedules", len(all)), logx.Int("entries", len(entries)))
	return nil
}

// watchStore reruns replan when the schedules file changes, so out-of-band
// edits (another blocksched invocation, a hand edit) take effect without a
// restart. Events are debounced and rate-limited.
func (s *Service) watchStore(ctx context.Context) error {
	dir := filepath.Dir(s.cfg.StorePath)
	file := filepath.Base(s.cfg.StorePath)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	kick := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(250*time.Millisecond, func() {
			if !s.limiter.Allow() {
				s.log.Debug("replan suppressed by rate limit")
				return
			}
			if err := s.replan(ctx); err != nil {
				s.log.Warn("replan failed", logx.Err(err))
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if strings.EqualFold(filepath.Base(ev.Name), file) &&
				ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				kick()
			}
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if werr != nil {
				s.log.Warn("store watch error", logx.Err(werr))
			}
		}
	}
}
