package study

import "time"

// Position addresses a lesson by module index and lesson index within that module.
type Position struct {
	Module int `json:"module"`
	Lesson int `json:"lesson"`
}

// LockedEvent asks the host to present a purchase path instead of the module.
type LockedEvent struct {
	ModuleIndex int    `json:"moduleIndex"`
	ModuleID    string `json:"moduleId"`
	ModuleTitle string `json:"moduleTitle"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
	CoursePrice int    `json:"coursePrice"`
}

// Hooks receive the side effects of navigation. Either may be nil.
type Hooks struct {
	Locked        func(LockedEvent)
	QuizSubmitted func(QuizResult)
}

// Outcome reports what a navigation call did.
type Outcome int

const (
	Stayed Outcome = iota
	Moved
	Locked
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Locked:
		return "locked"
	default:
		return "stayed"
	}
}

// LoadState summarises both collaborator fetches.
type LoadState string

const (
	LoadLoading LoadState = "loading"
	LoadReady   LoadState = "ready"
	LoadFailed  LoadState = "failed"
)

type Option func(*Navigator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(n *Navigator) { n.now = now }
}

func WithHooks(h Hooks) Option {
	return func(n *Navigator) { n.hooks = h }
}

// WithStart sets the stored position restored on initialize.
func WithStart(p Position) Option {
	return func(n *Navigator) { n.start = p }
}

// Navigator owns one viewer's position within a course, the merged lesson cache and
// the active quiz session. Calls never block and never fail on a locked module; it
// is not safe for concurrent use.
type Navigator struct {
	course  Course
	lessons [][]Lesson
	access  AccessContext

	contentState FetchState
	contentErr   error
	accessErr    error

	start       Position
	pos         Position
	initialized bool
	locked      bool

	quiz *QuizSession

	now   func() time.Time
	hooks Hooks
}

// NewNavigator creates a navigator waiting for content and access to resolve.
func NewNavigator(signedIn bool, opts ...Option) *Navigator {
	n := &Navigator{
		access: LoadingAccess(signedIn),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Initialize loads both inputs at once and positions the viewer.
func (n *Navigator) Initialize(c Course, ac AccessContext) {
	n.setCourse(c)
	n.contentState = FetchLoaded
	n.contentErr = nil
	n.access = ac
	n.access.State = FetchLoaded
	n.accessErr = nil
	n.initialize()
}

// ContentLoaded delivers the course detail fetch. Initialization waits for the access fetch.
func (n *Navigator) ContentLoaded(c Course) {
	n.setCourse(c)
	n.contentState = FetchLoaded
	n.contentErr = nil
	if n.initialized {
		n.reconcile()
		return
	}
	n.tryInitialize()
}

// AccessLoaded delivers the access status fetch, including refreshes after enrollment
// or payment.
func (n *Navigator) AccessLoaded(st AccessStatus) {
	n.access = LoadedAccess(n.access.IsSignedIn, st)
	n.accessErr = nil
	if n.initialized {
		n.reconcile()
		return
	}
	n.tryInitialize()
}

func (n *Navigator) ContentFailed(err error) {
	n.contentState = FetchFailed
	n.contentErr = err
}

// AccessFailed gates like a pending fetch until Retry succeeds.
func (n *Navigator) AccessFailed(err error) {
	n.access.State = FetchFailed
	n.accessErr = err
	if n.initialized {
		n.reconcile()
	}
}

// InvalidateAccess drops the access snapshot ahead of a re-fetch. Only free modules stay
// reachable until the fresh status arrives, so a viewer inside a paid module is moved.
func (n *Navigator) InvalidateAccess() {
	n.access = LoadingAccess(n.access.IsSignedIn)
	n.accessErr = nil
	if n.initialized {
		n.reconcile()
	}
}

// Retry marks failed fetches as loading again and reports which ones must be re-issued.
func (n *Navigator) Retry() (content, access bool) {
	if n.contentState == FetchFailed {
		n.contentState = FetchLoading
		n.contentErr = nil
		content = true
	}
	if n.access.State == FetchFailed {
		n.access.State = FetchLoading
		n.accessErr = nil
		access = true
	}
	return content, access
}

func (n *Navigator) LoadState() LoadState {
	if n.contentState == FetchFailed || n.access.State == FetchFailed {
		return LoadFailed
	}
	if n.initialized {
		return LoadReady
	}
	return LoadLoading
}

// LoadErrors returns the causes of failed fetches.
func (n *Navigator) LoadErrors() (content, access error) {
	return n.contentErr, n.accessErr
}

func (n *Navigator) Course() Course        { return n.course }
func (n *Navigator) Access() AccessContext { return n.access }
func (n *Navigator) Position() Position    { return n.pos }
func (n *Navigator) Initialized() bool     { return n.initialized }

// Locked reports the rendering state where no module is accessible.
func (n *Navigator) Locked() bool { return n.locked }

// Lessons returns the merged sequence of module i.
func (n *Navigator) Lessons(i int) []Lesson {
	if i < 0 || i >= len(n.lessons) {
		return nil
	}
	return n.lessons[i]
}

// Decisions evaluates every module against the current access context.
func (n *Navigator) Decisions() []Decision {
	out := make([]Decision, len(n.course.Modules))
	for i, m := range n.course.Modules {
		out[i] = Decide(m, n.access)
	}
	return out
}

// Current is the lesson on screen; false while loading, locked, or on an empty module.
func (n *Navigator) Current() (Lesson, bool) {
	if !n.initialized || n.locked {
		return nil, false
	}
	ls := n.Lessons(n.pos.Module)
	if n.pos.Lesson < 0 || n.pos.Lesson >= len(ls) {
		return nil, false
	}
	return ls[n.pos.Lesson], true
}

func (n *Navigator) HasNext() bool {
	_, ok := n.nextPosition()
	return ok
}

func (n *Navigator) HasPrev() bool {
	_, ok := n.prevPosition()
	return ok
}

// GoToLesson jumps to a lesson. Out-of-range indices are clamped. A locked destination
// emits a Locked event and leaves the position unchanged.
func (n *Navigator) GoToLesson(moduleIdx, lessonIdx int) Outcome {
	if !n.initialized || len(n.course.Modules) == 0 {
		return Stayed
	}
	return n.goTo(n.clamp(Position{Module: moduleIdx, Lesson: lessonIdx}))
}

// GoNext advances one lesson, crossing into the next module at the end of the current one.
func (n *Navigator) GoNext() Outcome {
	if !n.initialized {
		return Stayed
	}
	dest, ok := n.nextPosition()
	if !ok {
		return Stayed
	}
	return n.goTo(dest)
}

// GoPrev steps back one lesson, crossing into the last lesson of the previous module.
func (n *Navigator) GoPrev() Outcome {
	if !n.initialized {
		return Stayed
	}
	dest, ok := n.prevPosition()
	if !ok {
		return Stayed
	}
	return n.goTo(dest)
}

// Leave discards the quiz session, cancelling its clock.
func (n *Navigator) Leave() {
	n.quiz = nil
}

// QuizSession is the session of the quiz lesson on screen, if any.
func (n *Navigator) QuizSession() *QuizSession {
	return n.quiz
}

func (n *Navigator) StartQuiz() bool {
	if n.quiz == nil {
		return false
	}
	return n.quiz.Start(n.now())
}

func (n *Navigator) SelectAnswer(questionID string, choice int) bool {
	if n.quiz == nil {
		return false
	}
	return n.quiz.Select(questionID, choice)
}

// SubmitQuiz grades the active quiz and emits QuizSubmitted.
func (n *Navigator) SubmitQuiz() (QuizResult, bool) {
	if n.quiz == nil {
		return QuizResult{}, false
	}
	res, ok := n.quiz.Submit(n.now())
	if ok {
		n.emitSubmitted(res)
	}
	return res, ok
}

// Tick forwards the external clock to the active quiz.
func (n *Navigator) Tick() (QuizResult, bool) {
	if n.quiz == nil {
		return QuizResult{}, false
	}
	res, ok := n.quiz.Tick(n.now())
	if ok {
		n.emitSubmitted(res)
	}
	return res, ok
}

// RestartQuiz is the learner's explicit restart affordance.
func (n *Navigator) RestartQuiz() bool {
	if n.quiz == nil {
		return false
	}
	n.quiz.Restart(n.now())
	return true
}

func (n *Navigator) setCourse(c Course) {
	n.course = c
	n.lessons = make([][]Lesson, len(c.Modules))
	for i, m := range c.Modules {
		n.lessons[i] = Merge(m)
	}
}

func (n *Navigator) tryInitialize() {
	if n.contentState == FetchLoaded && n.access.State == FetchLoaded {
		n.initialize()
	}
}

func (n *Navigator) initialize() {
	n.initialized = true
	n.quiz = nil
	n.pos = n.clamp(n.start)
	n.locked = false
	if len(n.course.Modules) == 0 {
		n.locked = true
		return
	}
	if !n.canAccess(n.pos.Module) {
		n.snapToFirstAccessible()
		return
	}
	n.enterLesson()
}

// reconcile re-applies gating after content or access changed under an initialized navigator.
func (n *Navigator) reconcile() {
	prev := n.pos
	n.pos = n.clamp(n.pos)
	if len(n.course.Modules) == 0 {
		n.quiz = nil
		n.locked = true
		return
	}
	if !n.canAccess(n.pos.Module) {
		n.snapToFirstAccessible()
		return
	}
	n.locked = false
	if n.pos != prev || !n.quizMatchesCurrent() {
		n.quiz = nil
	}
	n.enterLesson()
}

func (n *Navigator) snapToFirstAccessible() {
	n.quiz = nil
	for i := range n.course.Modules {
		if n.canAccess(i) {
			n.pos = Position{Module: i}
			n.locked = false
			n.enterLesson()
			return
		}
	}
	n.pos = Position{}
	n.locked = true
}

func (n *Navigator) goTo(dest Position) Outcome {
	if !n.canAccess(dest.Module) {
		n.emitLocked(dest.Module)
		return Locked
	}
	if dest == n.pos && !n.locked {
		return Stayed
	}
	// any move off the current lesson ends its quiz session
	n.quiz = nil
	n.pos = dest
	n.locked = false
	n.enterLesson()
	return Moved
}

// enterLesson opens a quiz session when the current lesson is a quiz.
func (n *Navigator) enterLesson() {
	if n.quiz != nil {
		return
	}
	l, ok := n.Current()
	if !ok {
		return
	}
	if q, ok := AsQuiz(l); ok {
		n.quiz = NewQuizSession(q, n.now())
	}
}

func (n *Navigator) quizMatchesCurrent() bool {
	if n.quiz == nil {
		return true
	}
	l, ok := n.Current()
	return ok && l.Kind() == KindQuiz && l.LessonID() == n.quiz.Quiz().ID
}

// nextPosition steps over empty modules. A locked module stops the walk even when empty,
// so crossing it still goes through the access check in goTo.
func (n *Navigator) nextPosition() (Position, bool) {
	if !n.initialized || len(n.course.Modules) == 0 {
		return Position{}, false
	}
	if n.pos.Lesson+1 < len(n.Lessons(n.pos.Module)) {
		return Position{Module: n.pos.Module, Lesson: n.pos.Lesson + 1}, true
	}
	for m := n.pos.Module + 1; m < len(n.course.Modules); m++ {
		if !n.canAccess(m) || len(n.Lessons(m)) > 0 {
			return Position{Module: m}, true
		}
	}
	return Position{}, false
}

func (n *Navigator) prevPosition() (Position, bool) {
	if !n.initialized || len(n.course.Modules) == 0 {
		return Position{}, false
	}
	if n.pos.Lesson > 0 {
		return Position{Module: n.pos.Module, Lesson: n.pos.Lesson - 1}, true
	}
	for m := n.pos.Module - 1; m >= 0; m-- {
		if !n.canAccess(m) || len(n.Lessons(m)) > 0 {
			return Position{Module: m, Lesson: lastIndex(len(n.Lessons(m)))}, true
		}
	}
	return Position{}, false
}

func (n *Navigator) clamp(p Position) Position {
	p.Module = clampInt(p.Module, 0, lastIndex(len(n.course.Modules)))
	p.Lesson = clampInt(p.Lesson, 0, lastIndex(len(n.Lessons(p.Module))))
	return p
}

func (n *Navigator) canAccess(i int) bool {
	if i < 0 || i >= len(n.course.Modules) {
		return false
	}
	return CanAccessModule(n.course.Modules[i], n.access)
}

func (n *Navigator) emitLocked(i int) {
	if n.hooks.Locked == nil {
		return
	}
	m := n.course.Modules[i]
	n.hooks.Locked(LockedEvent{
		ModuleIndex: i,
		ModuleID:    m.ID,
		ModuleTitle: m.Title,
		CourseID:    n.course.ID,
		CourseTitle: n.course.Title,
		CoursePrice: n.course.Price,
	})
}

func (n *Navigator) emitSubmitted(res QuizResult) {
	if n.hooks.QuizSubmitted != nil {
		n.hooks.QuizSubmitted(res)
	}
}

func lastIndex(length int) int {
	if length == 0 {
		return 0
	}
	return length - 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
