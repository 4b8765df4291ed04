package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"examprep/logger"
	"examprep/study"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionNotFound = errors.New("study session not found")
	ErrNotSignedIn     = study.ErrNotSignedIn
)

// Event is an engine side effect waiting to be delivered with the next response.
type Event struct {
	Type        string             `json:"type"` // locked, quizSubmitted
	Locked      *study.LockedEvent `json:"locked,omitempty"`
	PurchaseURL string             `json:"purchaseUrl,omitempty"`
	Result      *study.QuizResult  `json:"result,omitempty"`
}

// Session is one viewer's study page. Every event for it is applied under mu, which
// makes the navigator's single-threaded contract hold across HTTP handlers and the
// tick scheduler.
type Session struct {
	ID       string
	CourseID string
	UserID   string

	mu         sync.Mutex
	nav        *study.Navigator
	outbox     []Event
	lastActive time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithPurchasePrompt sets the link builder attached to locked events.
func WithPurchasePrompt(fn func(study.LockedEvent) string) Option {
	return func(m *Manager) { m.prompt = fn }
}

func WithIdleTTL(d time.Duration) Option {
	return func(m *Manager) { m.idleTTL = d }
}

// Manager is the registry of live study sessions.
type Manager struct {
	src     study.Source
	log     *logger.Logger
	now     func() time.Time
	prompt  func(study.LockedEvent) string
	idleTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(src study.Source, log *logger.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{
		src:      src,
		log:      log.With("component", "sessions"),
		now:      time.Now,
		idleTTL:  2 * time.Hour,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open registers a session and resolves content and access concurrently. The navigator
// initializes only once both have arrived, in whichever order they land. A missing course
// is reported as study.ErrCourseNotFound and leaves no session behind; other fetch
// failures yield a session in the failed load state.
func (m *Manager) Open(ctx context.Context, courseID, userID string, start study.Position) (Snapshot, error) {
	s := &Session{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		UserID:     userID,
		lastActive: m.now(),
	}
	s.nav = study.NewNavigator(userID != "",
		study.WithClock(m.now),
		study.WithStart(start),
		study.WithHooks(m.hooksFor(s)),
	)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.load(ctx, s, true, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	if content, _ := s.nav.LoadErrors(); errors.Is(content, study.ErrCourseNotFound) {
		m.remove(s.ID)
		return Snapshot{}, study.ErrCourseNotFound
	}
	m.log.Debug("study session opened", "session", s.ID, "course", courseID, "signedIn", userID != "")
	return m.snapshot(s, ""), nil
}

// Get returns the current state, draining pending events.
func (m *Manager) Get(id, userID string) (Snapshot, error) {
	return m.apply(id, userID, func(*study.Navigator) string { return "" })
}

// Retry re-issues the fetches that failed.
func (m *Manager) Retry(ctx context.Context, id, userID string) (Snapshot, error) {
	s, err := m.lookup(id, userID)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	content, access := s.nav.Retry()
	s.mu.Unlock()

	m.load(ctx, s, content, access)
	return m.apply(id, userID, func(*study.Navigator) string { return "" })
}

func (m *Manager) GoTo(id, userID string, moduleIdx, lessonIdx int) (Snapshot, error) {
	return m.apply(id, userID, func(n *study.Navigator) string {
		return n.GoToLesson(moduleIdx, lessonIdx).String()
	})
}

func (m *Manager) Next(id, userID string) (Snapshot, error) {
	return m.apply(id, userID, func(n *study.Navigator) string { return n.GoNext().String() })
}

func (m *Manager) Prev(id, userID string) (Snapshot, error) {
	return m.apply(id, userID, func(n *study.Navigator) string { return n.GoPrev().String() })
}

func (m *Manager) StartQuiz(id, userID string) (Snapshot, error) {
	return m.apply(id, userID, func(n *study.Navigator) string { return boolOutcome(n.StartQuiz()) })
}

func (m *Manager) Answer(id, userID, questionID string, choice int) (Snapshot, error) {
	return m.apply(id, userID, func(n *study.Navigator) string {
		return boolOutcome(n.SelectAnswer(questionID, choice))
	})
}

func (m *Manager) SubmitQuiz(id, userID string) (Snapshot, error) {
	return m.apply(id, userID, func(n *study.Navigator) string {
		_, ok := n.SubmitQuiz()
		return boolOutcome(ok)
	})
}

func (m *Manager) RestartQuiz(id, userID string) (Snapshot, error) {
	return m.apply(id, userID, func(n *study.Navigator) string { return boolOutcome(n.RestartQuiz()) })
}

// Enroll enrolls the viewer and re-fetches access. Only free modules are reachable until
// the fresh status lands.
func (m *Manager) Enroll(ctx context.Context, id, userID string) (Snapshot, error) {
	s, err := m.lookup(id, userID)
	if err != nil {
		return Snapshot{}, err
	}
	if s.UserID == "" {
		return Snapshot{}, ErrNotSignedIn
	}
	if err := m.src.Enroll(ctx, s.CourseID, s.UserID); err != nil {
		return Snapshot{}, err
	}
	return m.RefreshAccess(ctx, id, userID)
}

// RefreshAccess drops the access snapshot and fetches it again, e.g. after a payment.
func (m *Manager) RefreshAccess(ctx context.Context, id, userID string) (Snapshot, error) {
	s, err := m.lookup(id, userID)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	s.nav.InvalidateAccess()
	s.mu.Unlock()

	if inv, ok := m.src.(invalidator); ok && s.UserID != "" {
		inv.Invalidate(ctx, s.CourseID, s.UserID)
	}
	m.load(ctx, s, false, true)
	return m.apply(id, userID, func(*study.Navigator) string { return "" })
}

// invalidator is implemented by caching sources so a refresh reads through.
type invalidator interface {
	Invalidate(ctx context.Context, courseID, userID string)
}

// Close leaves the study page; an active quiz clock is cancelled with it.
func (m *Manager) Close(id, userID string) error {
	s, err := m.lookup(id, userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.nav.Leave()
	s.mu.Unlock()
	m.remove(id)
	return nil
}

// TickAll delivers the clock to every session with a running quiz.
func (m *Manager) TickAll() int {
	submitted := 0
	for _, s := range m.all() {
		s.mu.Lock()
		if _, ok := s.nav.Tick(); ok {
			submitted++
		}
		s.mu.Unlock()
	}
	if submitted > 0 {
		m.log.Info("quiz deadlines reached", "autoSubmitted", submitted)
	}
	return submitted
}

// Sweep drops sessions idle for longer than the idle TTL.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTTL)
	removed := 0
	for _, s := range m.all() {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff)
		if idle {
			s.nav.Leave()
		}
		s.mu.Unlock()
		if idle {
			m.remove(s.ID)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info("idle study sessions swept", "removed", removed)
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// load runs the requested fetches in parallel and delivers each completion as an event.
func (m *Manager) load(ctx context.Context, s *Session, content, access bool) {
	var g errgroup.Group
	if content {
		g.Go(func() error {
			course, err := m.src.CourseDetail(ctx, s.CourseID)
			s.mu.Lock()
			defer s.mu.Unlock()
			if err != nil {
				m.log.Warn("course detail fetch failed", "session", s.ID, "course", s.CourseID, "error", err)
				s.nav.ContentFailed(err)
				return nil
			}
			s.nav.ContentLoaded(course)
			return nil
		})
	}
	if access {
		g.Go(func() error {
			var st study.AccessStatus
			var err error
			if s.UserID != "" {
				st, err = m.src.AccessStatus(ctx, s.CourseID, s.UserID)
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			if err != nil {
				m.log.Warn("access status fetch failed", "session", s.ID, "course", s.CourseID, "error", err)
				s.nav.AccessFailed(err)
				return nil
			}
			s.nav.AccessLoaded(st)
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Manager) apply(id, userID string, fn func(*study.Navigator) string) (Snapshot, error) {
	s, err := m.lookup(id, userID)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = m.now()
	outcome := fn(s.nav)
	return m.snapshot(s, outcome), nil
}

// lookup hides sessions owned by someone else behind ErrSessionNotFound.
func (m *Manager) lookup(id, userID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) all() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// hooksFor queues navigator side effects on the session outbox. Hooks run while the
// session lock is held.
func (m *Manager) hooksFor(s *Session) study.Hooks {
	return study.Hooks{
		Locked: func(e study.LockedEvent) {
			ev := Event{Type: "locked", Locked: &e}
			if m.prompt != nil {
				ev.PurchaseURL = m.prompt(e)
			}
			s.outbox = append(s.outbox, ev)
		},
		QuizSubmitted: func(r study.QuizResult) {
			s.outbox = append(s.outbox, Event{Type: "quizSubmitted", Result: &r})
		},
	}
}

func boolOutcome(ok bool) string {
	if ok {
		return "accepted"
	}
	return "rejected"
}
