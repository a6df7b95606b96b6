package wizard

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultAutosaveInterval = 30 * time.Second

// Autosaver saves wizard drafts on a fixed interval. One scheduler serves
// every session; each session gets its own cron entry.
type Autosaver struct {
	cron     *cron.Cron
	interval time.Duration
	logger   *zap.Logger
}

func NewAutosaver(interval time.Duration, logger *zap.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cron.New(cron.WithLogger(cronLogger{logger.Sugar()}))
	c.Start()
	return &Autosaver{cron: c, interval: interval, logger: logger}
}

func (a *Autosaver) Interval() time.Duration { return a.interval }

// Schedule starts autosaving ctrl. The returned func removes the entry and
// must be called when the session ends.
func (a *Autosaver) Schedule(sessionID string, ctrl *Controller) (cancel func(), err error) {
	id, err := a.cron.AddFunc(fmt.Sprintf("@every %s", a.interval), a.job(sessionID, ctrl))
	if err != nil {
		return nil, fmt.Errorf("failed to schedule autosave: %w", err)
	}
	a.logger.Debug("Autosave scheduled", zap.String("sessionID", sessionID), zap.Duration("interval", a.interval))
	return func() { a.cron.Remove(id) }, nil
}

// Stop halts the scheduler and waits for running saves to finish.
func (a *Autosaver) Stop() {
	<-a.cron.Stop().Done()
}

func (a *Autosaver) job(sessionID string, ctrl *Controller) func() {
	var running int32
	return func() {
		if !atomic.CompareAndSwapInt32(&running, 0, 1) {
			a.logger.Debug("Previous autosave still running; skipping", zap.String("sessionID", sessionID))
			return
		}
		defer atomic.StoreInt32(&running, 0)

		saved, err := ctrl.autosave()
		if err != nil {
			a.logger.Warn("Autosave failed", zap.String("sessionID", sessionID), zap.Error(err))
			return
		}
		if saved {
			a.logger.Debug("Draft autosaved", zap.String("sessionID", sessionID))
		}
	}
}

// cronLogger routes the scheduler's own messages into zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
