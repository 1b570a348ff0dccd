package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fadedpez/leetbot/internal/logging"
)

// TaskFunc is the work a task performs on each run
type TaskFunc func(context.Context) error

// Task represents a scheduled task. Interval tasks run once at start and then
// every Interval; daily tasks run at Hour:Minute in Location.
type Task struct {
	Name     string
	Interval time.Duration
	Daily    bool
	Hour     int
	Minute   int
	Location *time.Location
	Fn       TaskFunc
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	tasks   []*Task
	running bool
	mutex   sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  *logging.Logger
	now     func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default
	}
	return &Scheduler{
		tasks:  make([]*Task, 0),
		logger: logger,
		now:    time.Now,
	}
}

// AddTask adds an interval task to the scheduler
func (s *Scheduler) AddTask(name string, interval time.Duration, fn TaskFunc) error {
	if interval <= 0 {
		return fmt.Errorf("task %s: interval must be positive", name)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	return nil
}

// AddDailyTask adds a task that runs every day at hour:minute in loc
func (s *Scheduler) AddDailyTask(name string, hour, minute int, loc *time.Location, fn TaskFunc) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("task %s: invalid time of day %02d:%02d", name, hour, minute)
	}
	if loc == nil {
		loc = time.UTC
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Daily:    true,
		Hour:     hour,
		Minute:   minute,
		Location: loc,
		Fn:       fn,
	})
	return nil
}

// Tasks returns the names of the registered tasks
func (s *Scheduler) Tasks() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	names := make([]string, 0, len(s.tasks))
	for _, task := range s.tasks {
		names = append(names, task.Name)
	}
	return names
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, task := range s.tasks {
		s.wg.Add(1)
		if task.Daily {
			go s.runDaily(ctx, task)
		} else {
			go s.runInterval(ctx, task)
		}
	}

	s.logger.Info("Scheduler started with %d tasks", len(s.tasks))
}

// Stop cancels every task and waits for running ones to return
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	if !s.running {
		s.mutex.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mutex.Unlock()

	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// runInterval runs a task immediately and then at the specified interval
func (s *Scheduler) runInterval(ctx context.Context, task *Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.logger.Debug("Running task %s immediately on startup", task.Name)
	s.run(ctx, task)

	for {
		select {
		case <-ticker.C:
			s.run(ctx, task)
		case <-ctx.Done():
			s.logger.Debug("Task %s stopped", task.Name)
			return
		}
	}
}

// runDaily sleeps until the next occurrence of the task's time of day
func (s *Scheduler) runDaily(ctx context.Context, task *Task) {
	defer s.wg.Done()

	for {
		next := NextDailyRun(s.now(), task.Hour, task.Minute, task.Location)
		s.logger.Debug("Task %s next runs at %s", task.Name, next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-timer.C:
			s.run(ctx, task)
		case <-ctx.Done():
			timer.Stop()
			s.logger.Debug("Task %s stopped", task.Name)
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context, task *Task) {
	s.logger.Debug("Running scheduled task: %s", task.Name)
	if err := task.Fn(ctx); err != nil {
		s.logger.Error("Error running task %s: %v", task.Name, err)
	}
}

// NextDailyRun returns the first hour:minute in loc strictly after now
func NextDailyRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}
