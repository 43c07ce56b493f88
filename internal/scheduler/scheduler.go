package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"DrawSentinel/internal/collector"
	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
	"DrawSentinel/internal/notifier"
	"DrawSentinel/internal/recorder"
	"DrawSentinel/internal/strategy"
	"DrawSentinel/internal/weights"
)

// Sender delivers formatted messages; the Telegram notifier implements it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks and bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *strategy.Engine
	Weights   *weights.Manager
	Notifier  Sender
	Recorder  recorder.Recorder
	Window    int
	Ctx       context.Context

	// jobs serializes refresh, learn and command work.
	jobs sync.Mutex
}

// NewScheduler creates a new Scheduler. sender may be nil when no bot is configured.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *strategy.Engine, wm *weights.Manager, sender Sender, rec recorder.Recorder, window int) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Collector: col,
		Engine:    eng,
		Weights:   wm,
		Notifier:  sender,
		Recorder:  rec,
		Window:    window,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh and learn tasks.
func (s *Scheduler) RegisterAll(refreshCron, learnCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(learnCron, s.learnTask); err != nil {
		return fmt.Errorf("register learn task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logging.Infof("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logging.Infof("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

// RunLearnNow executes the learn task immediately.
func (s *Scheduler) RunLearnNow() {
	s.learnTask()
}

func (s *Scheduler) refreshTask() {
	s.jobs.Lock()
	defer s.jobs.Unlock()

	logging.Infof("running refresh task")
	draws, _, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		logging.Errorf("refresh collect: %v", err)
		s.trySend(notifier.FormatError("Refresh", err))
		return
	}

	s.evaluatePrevious(draws)

	pred, err := s.predict(draws)
	if err != nil {
		logging.Errorf("refresh predict: %v", err)
		s.trySend(notifier.FormatError("Prediction", err))
		return
	}
	if err := s.Recorder.RecordPrediction(pred); err != nil {
		logging.Errorf("record prediction: %v", err)
	}
	s.trySend(notifier.FormatPrediction(pred))
}

func (s *Scheduler) learnTask() {
	s.jobs.Lock()
	defer s.jobs.Unlock()

	logging.Infof("running learn task")
	draws, err := s.history()
	if err != nil {
		logging.Errorf("learn collect: %v", err)
		return
	}
	report, err := s.learn(draws)
	if err != nil {
		logging.Errorf("learn: %v", err)
		s.trySend(notifier.FormatError("Learning", err))
		return
	}
	s.trySend(notifier.FormatBacktest(report, 10))
}

func (s *Scheduler) learn(draws []model.Draw) (*model.BacktestReport, error) {
	w, report, err := s.Engine.LearnWeights(s.Ctx, draws, s.Window)
	if err != nil {
		return nil, err
	}
	if err := s.Weights.Apply(w, s.Window); err != nil {
		return nil, fmt.Errorf("store weights: %w", err)
	}
	if err := s.Recorder.RecordBacktest(report); err != nil {
		logging.Errorf("record backtest: %v", err)
	}
	logging.Infof("learned weights for %d algorithms over %d draws (ensemble lift %.2f)",
		len(w), report.Tests, report.Ensemble.Lift)
	return report, nil
}

func (s *Scheduler) predict(draws []model.Draw) (*model.Prediction, error) {
	return s.Engine.WithWeights(s.Weights.Get()).Predict(draws)
}

// history returns the held draws, collecting first if nothing is loaded yet.
func (s *Scheduler) history() ([]model.Draw, error) {
	if draws, _ := s.Collector.Latest(); len(draws) > 0 {
		return draws, nil
	}
	draws, _, err := s.Collector.Collect(s.Ctx)
	return draws, err
}

// evaluatePrevious scores the latest stored prediction against the first
// draw after the history it was based on.
func (s *Scheduler) evaluatePrevious(draws []model.Draw) {
	recs, err := s.Recorder.RecentPredictions(1)
	if err != nil {
		logging.Warnf("load previous prediction: %v", err)
		return
	}
	if len(recs) == 0 || recs[0].Evaluated {
		return
	}
	prev := recs[0]
	for _, d := range draws {
		if !d.Date.After(prev.BasedOn) {
			continue
		}
		mainHits := d.Hits(model.MainPool, prev.Main)
		bonusHits := d.Hits(model.BonusPool, prev.Bonus)
		if err := s.Recorder.ScorePrediction(prev.ID, d.Date, mainHits, bonusHits); err != nil {
			logging.Errorf("score prediction %s: %v", prev.ID, err)
			return
		}
		logging.Infof("prediction %s scored %d+%d against %s", prev.ID, mainHits, bonusHits, d.Date.Format("2006-01-02"))
		s.trySend(notifier.FormatEvaluation(prev.Main, prev.Bonus, d))
		return
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	s.jobs.Lock()
	defer s.jobs.Unlock()

	switch command {
	case "/predict":
		draws, err := s.history()
		if err != nil {
			return notifier.FormatError("Prediction", err)
		}
		pred, err := s.predict(draws)
		if err != nil {
			return notifier.FormatError("Prediction", err)
		}
		if err := s.Recorder.RecordPrediction(pred); err != nil {
			logging.Errorf("record prediction: %v", err)
		}
		return notifier.FormatPrediction(pred)
	case "/backtest":
		draws, err := s.history()
		if err != nil {
			return notifier.FormatError("Backtest", err)
		}
		report, err := s.Engine.Backtest(s.Ctx, draws, s.Window)
		if err != nil {
			return notifier.FormatError("Backtest", err)
		}
		if err := s.Recorder.RecordBacktest(report); err != nil {
			logging.Errorf("record backtest: %v", err)
		}
		return notifier.FormatBacktest(report, 10)
	case "/stats":
		if _, err := s.history(); err != nil {
			return notifier.FormatError("Stats", err)
		}
		_, stats := s.Collector.Latest()
		return notifier.FormatStats(stats)
	case "/refresh":
		_, stats, err := s.Collector.Collect(s.Ctx)
		if err != nil {
			return notifier.FormatError("Refresh", err)
		}
		return fmt.Sprintf("✅ Loaded %d draws from %s", stats.Count, stats.Source)
	case "/weights":
		return notifier.FormatWeights(s.Weights.GetState())
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		logging.Errorf("send notification: %v", err)
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logging.Debugw("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logging.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
