// Package scheduler keeps one timed job per daily reminder, per plan reminder and
// for the weekly report sweep, and rebuilds them when preferences change.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"

	"github.com/example/vocabsrs/internal/notify"
	"github.com/example/vocabsrs/pkg/models"
)

const (
	// WeeklyReportKey identifies the single weekly report sweep job
	WeeklyReportKey = "weekly-reports"
	// WeeklyReportTime is when the sweep runs every Sunday, in the scheduler's time zone
	WeeklyReportTime = "20:00"

	reportWindow = 7 * 24 * time.Hour
)

// GlobalKey identifies a user's daily reminder job
func GlobalKey(userID int64) string {
	return fmt.Sprintf("global:%d", userID)
}

// PlanKey identifies a plan reminder job
func PlanKey(userID int64, planID string) string {
	return fmt.Sprintf("plan:%d:%s", userID, planID)
}

// Recurrence is how often a job fires
type Recurrence string

const (
	Daily        Recurrence = "daily"
	WeeklySunday Recurrence = "weekly-sunday"
)

// JobInfo describes a registered job
type JobInfo struct {
	Key        string
	UserID     int64 // zero for the weekly sweep
	PlanID     string
	Hour       int
	Minute     int
	Recurrence Recurrence
	NextRun    time.Time
}

type registeredJob struct {
	info JobInfo
	job  *gocron.Job
}

// Config holds scheduler settings
type Config struct {
	Location          *time.Location // time zone reminder times are interpreted in
	JobTimeout        time.Duration  // upper bound for one firing or one user of the weekly sweep
	ReportConcurrency int            // users processed in parallel by the weekly sweep
	AppBaseURL        string         // linked from messages when set
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Location:          time.UTC,
		JobTimeout:        2 * time.Minute,
		ReportConcurrency: 4,
	}
}

// ReminderScheduler owns the process-wide registry of reminder jobs
type ReminderScheduler struct {
	cron   *gocron.Scheduler
	store  UserConfigStore
	stats  StatsSource
	sender notify.Sender
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	// reinit is held exclusively by InitializeAll and TeardownAll, shared by per-user updates
	reinit sync.RWMutex

	// mu guards jobs, userLocks and every gocron builder chain
	mu        sync.Mutex
	jobs      map[string]*registeredJob
	userLocks map[int64]*sync.Mutex
}

// New creates a scheduler. Jobs only fire after Start.
func New(store UserConfigStore, stats StatsSource, sender notify.Sender, cfg Config) *ReminderScheduler {
	def := DefaultConfig()
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.ReportConcurrency <= 0 {
		cfg.ReportConcurrency = def.ReportConcurrency
	}

	cron := gocron.NewScheduler(cfg.Location)
	cron.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())
	return &ReminderScheduler{
		cron:      cron,
		store:     store,
		stats:     stats,
		sender:    sender,
		cfg:       cfg,
		logger:    slog.Default(),
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]*registeredJob),
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// SetLogger sets a custom logger
func (s *ReminderScheduler) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start begins firing registered jobs in the background
func (s *ReminderScheduler) Start() {
	s.cron.StartAsync()
	s.logger.Info("Reminder scheduler started", slog.Int("jobs", len(s.Keys())))
}

// Stop tears down every job and stops the timer. Firings in progress are cancelled.
func (s *ReminderScheduler) Stop() {
	s.TeardownAll()
	s.cron.Stop()
	s.cancel()
	s.logger.Info("Reminder scheduler stopped")
}

// IsRunning returns whether the timer is running
func (s *ReminderScheduler) IsRunning() bool {
	return s.cron.IsRunning()
}

// InitializeAll replaces the registry with exactly the jobs implied by the stored
// configuration. On a read error the existing jobs are kept.
func (s *ReminderScheduler) InitializeAll(ctx context.Context) error {
	s.reinit.Lock()
	defer s.reinit.Unlock()

	users, err := s.store.ListUsersWithDailyReminder(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users with daily reminders: %w", err)
	}
	plans, err := s.store.ListReminderPlans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plans with reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(func(*registeredJob) bool { return true })

	for i := range users {
		s.registerGlobalLocked(&users[i])
	}
	for i := range plans {
		s.registerPlanLocked(&plans[i])
	}
	s.registerWeeklyLocked()

	s.logger.Info("Reminder jobs initialized",
		slog.Int("daily", len(users)),
		slog.Int("plans", len(plans)),
		slog.Int("total", len(s.jobs)))
	return nil
}

// UpdateForUser rebuilds the jobs of one user from the stored configuration.
// A user that no longer exists loses all of its jobs.
func (s *ReminderScheduler) UpdateForUser(ctx context.Context, userID int64) error {
	s.reinit.RLock()
	defer s.reinit.RUnlock()

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		s.mu.Lock()
		s.removeUserLocked(userID)
		s.mu.Unlock()
		s.logger.Warn("User vanished, reminder jobs removed", slog.Int64("user_id", userID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	plans, err := s.store.ListPlans(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load plans of user %d: %w", userID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeUserLocked(userID)
	if user.DailyReminderEnabled {
		s.registerGlobalLocked(user)
	}
	for i := range plans {
		if plans[i].IsActive && plans[i].ReminderEnabled {
			s.registerPlanLocked(&plans[i])
		}
	}
	return nil
}

// TeardownUser removes the daily and plan jobs of a user
func (s *ReminderScheduler) TeardownUser(userID int64) {
	s.reinit.RLock()
	defer s.reinit.RUnlock()

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeUserLocked(userID)
}

// TeardownAll removes every job, including the weekly sweep
func (s *ReminderScheduler) TeardownAll() {
	s.reinit.Lock()
	defer s.reinit.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(func(*registeredJob) bool { return true })
}

// Keys returns the sorted keys of all registered jobs
func (s *ReminderScheduler) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.jobs))
	for key := range s.jobs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Job returns the registered job with key
func (s *ReminderScheduler) Job(key string) (JobInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rj, ok := s.jobs[key]
	if !ok {
		return JobInfo{}, false
	}
	info := rj.info
	info.NextRun = rj.job.NextRun()
	return info, true
}

func (s *ReminderScheduler) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

func (s *ReminderScheduler) registerGlobalLocked(user *models.User) {
	userID := user.ID
	s.registerLocked(JobInfo{Key: GlobalKey(userID), UserID: userID, Recurrence: Daily}, user.ReminderTime,
		func() {
			s.runIsolated("daily reminder", func(ctx context.Context) error {
				return s.fireGlobal(ctx, userID)
			}, slog.Int64("user_id", userID))
		})
}

func (s *ReminderScheduler) registerPlanLocked(plan *models.Plan) {
	userID, planID := plan.UserID, plan.ID
	s.registerLocked(JobInfo{Key: PlanKey(userID, planID), UserID: userID, PlanID: planID, Recurrence: Daily}, plan.ReminderTime,
		func() {
			s.runIsolated("plan reminder", func(ctx context.Context) error {
				return s.firePlan(ctx, userID, planID)
			}, slog.Int64("user_id", userID), slog.String("plan_id", planID))
		})
}

func (s *ReminderScheduler) registerWeeklyLocked() {
	s.registerLocked(JobInfo{Key: WeeklyReportKey, Recurrence: WeeklySunday}, WeeklyReportTime,
		func() {
			// each user gets its own JobTimeout inside the sweep
			s.guard("weekly reports", func() error { return s.fireWeeklyReports(s.ctx) })
		})
}

// registerLocked schedules task under info.Key, replacing any job with the same key.
// A malformed clock is logged and the job is skipped.
func (s *ReminderScheduler) registerLocked(info JobInfo, clock string, task func()) {
	if clock == "" {
		clock = models.DefaultReminderTime
	}
	hour, minute, err := models.ParseClock(clock)
	if err != nil {
		s.logger.Warn("Skipping reminder job with malformed time",
			slog.String("key", info.Key), slog.String("time", clock), slog.Any("error", err))
		return
	}
	info.Hour, info.Minute = hour, minute

	if old, ok := s.jobs[info.Key]; ok {
		s.cron.RemoveByReference(old.job)
		delete(s.jobs, info.Key)
	}

	chain := s.cron.Every(1)
	switch info.Recurrence {
	case WeeklySunday:
		chain = chain.Week().Sunday()
	default:
		chain = chain.Day()
	}
	job, err := chain.At(models.FormatClock(hour, minute)).Tag(info.Key).Do(task)
	if err != nil {
		s.logger.Error("Failed to schedule reminder job", slog.String("key", info.Key), slog.Any("error", err))
		return
	}

	s.jobs[info.Key] = &registeredJob{info: info, job: job}
	s.logger.Debug("Reminder job scheduled",
		slog.String("key", info.Key),
		slog.String("at", models.FormatClock(hour, minute)),
		slog.String("recurrence", string(info.Recurrence)))
}

func (s *ReminderScheduler) removeUserLocked(userID int64) {
	s.removeLocked(func(rj *registeredJob) bool {
		return rj.info.UserID == userID && rj.info.Key != WeeklyReportKey
	})
}

// removeLocked stops and forgets the jobs matching match. A removed job never starts again.
func (s *ReminderScheduler) removeLocked(match func(*registeredJob) bool) {
	for key, rj := range s.jobs {
		if !match(rj) {
			continue
		}
		s.cron.RemoveByReference(rj.job)
		delete(s.jobs, key)
		s.logger.Debug("Reminder job removed", slog.String("key", key))
	}
}
