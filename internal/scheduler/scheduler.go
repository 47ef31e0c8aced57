package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StrategySentinel/internal/analysis"
	"StrategySentinel/internal/collector"
	"StrategySentinel/internal/model"
	"StrategySentinel/internal/notifier"
	"StrategySentinel/internal/recorder"
)

// Sender delivers formatted messages; *notifier.TelegramNotifier implements it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron analysis task and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Analysis  *analysis.Service
	Notifier  Sender // nil disables notifications
	Recorder  recorder.Recorder
	Symbols   []string
	Defaults  analysis.Request
	Log       zerolog.Logger
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, svc *analysis.Service, sender Sender,
	rec recorder.Recorder, symbols []string, defaults analysis.Request, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Analysis:  svc,
		Notifier:  sender,
		Recorder:  rec,
		Symbols:   symbols,
		Defaults:  defaults,
		Log:       log,
		Ctx:       ctx,
	}
}

// Register adds the analysis task on analysisCron (six fields, with seconds).
func (s *Scheduler) Register(analysisCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Strs("symbols", s.Symbols).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// RunNow executes the analysis task immediately.
func (s *Scheduler) RunNow() {
	s.analysisTask()
}

func (s *Scheduler) analysisTask() {
	s.Log.Info().Msg("running scheduled analysis")
	for _, symbol := range s.Symbols {
		if s.Ctx.Err() != nil {
			return
		}
		report, err := s.Run(s.Ctx, symbol, model.TriggerScheduled, nil)
		if err != nil {
			s.Log.Error().Err(err).Str("symbol", symbol).Msg("scheduled analysis failed")
			s.trySend(notifier.FormatError(symbol, err))
			continue
		}
		s.trySend(notifier.FormatReport(report))
	}
}

// Run collects history for symbol, runs the selected simulators and records
// the result. A nil strategies list runs all of them.
func (s *Scheduler) Run(ctx context.Context, symbol string, trigger model.TriggerType, strategies []model.StrategyKind) (*analysis.Report, error) {
	history, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	req := s.Defaults
	req.Trigger = trigger
	req.Strategies = strategies
	report, err := s.Analysis.Analyze(ctx, history, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.Recorder.RecordRun(recorder.FromReport(report)); err != nil {
		s.Log.Error().Err(err).Str("symbol", symbol).Msg("record run")
	}
	return report, nil
}

// HandleCommand processes a chat command such as "/dca BTC" and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText(s.Symbols)
	}
	// Telegram appends the bot name in groups: /dca@SentinelBot
	verb := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	symbol := ""
	if len(fields) > 1 {
		symbol = strings.ToUpper(fields[1])
	} else if len(s.Symbols) > 0 {
		symbol = s.Symbols[0]
	}

	switch verb {
	case "/report", "/dca", "/dip", "/trend":
		if symbol == "" {
			return notifier.HelpText(s.Symbols)
		}
		strategies, err := analysis.ParseStrategies(strings.TrimPrefix(verb, "/"))
		if err != nil {
			return notifier.HelpText(s.Symbols)
		}
		report, err := s.Run(ctx, symbol, model.TriggerCommand, strategies)
		if err != nil {
			s.Log.Error().Err(err).Str("symbol", symbol).Str("command", verb).Msg("command failed")
			return notifier.FormatError(symbol, err)
		}
		return notifier.FormatReport(report)
	case "/history":
		runs, err := s.Recorder.RecentRuns(symbol, 5)
		if err != nil {
			return notifier.FormatError(symbol, err)
		}
		return notifier.FormatHistory(symbol, runs)
	default:
		return notifier.HelpText(s.Symbols)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
	}
}
