package utils

import (
	"examprep/logger"

	"github.com/robfig/cron/v3"
)

// StudyClock is the part of the session manager driven by the scheduler.
type StudyClock interface {
	TickAll() int
	Sweep() int
}

// cronLogger routes cron's own messages (skipped runs, recovered panics) into the app logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}

func schedulerLog(log *logger.Logger) *logger.Logger {
	if log == nil {
		log = logger.Nop()
	}
	return log.With("component", "study-scheduler")
}

// StartQuizTickScheduler delivers the timer tick to every running quiz. Deadlines are
// checked against the session clock, so a coarser spec only delays the auto-submit.
func StartQuizTickScheduler(c *cron.Cron, spec string, sc StudyClock, log *logger.Logger) error {
	log = schedulerLog(log)
	_, err := c.AddFunc(spec, func() {
		if n := sc.TickAll(); n > 0 {
			log.Info("quizzes auto-submitted", "count", n)
		}
	})
	if err != nil {
		return err
	}
	log.Info("quiz tick scheduler started", "spec", spec)
	return nil
}

// StartSessionSweepScheduler drops idle study sessions.
func StartSessionSweepScheduler(c *cron.Cron, spec string, sc StudyClock, log *logger.Logger) error {
	log = schedulerLog(log)
	_, err := c.AddFunc(spec, func() {
		if n := sc.Sweep(); n > 0 {
			log.Info("swept idle study sessions", "count", n)
		}
	})
	if err != nil {
		return err
	}
	log.Info("session sweep scheduler started", "spec", spec)
	return nil
}

// InitializeStudySchedulers registers both jobs and starts the cron runner.
// Jobs never overlap with themselves; a slow tick is skipped rather than queued.
func InitializeStudySchedulers(tickSpec, sweepSpec string, sc StudyClock, log *logger.Logger) (*cron.Cron, error) {
	cl := cronLogger{log: schedulerLog(log)}
	cl.log.Info("initializing study schedulers")

	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if err := StartQuizTickScheduler(c, tickSpec, sc, log); err != nil {
		return nil, err
	}
	if err := StartSessionSweepScheduler(c, sweepSpec, sc, log); err != nil {
		return nil, err
	}

	c.Start()
	cl.log.Info("all study schedulers initialized")
	return c, nil
}
