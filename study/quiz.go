package study

import (
	"math"
	"time"
)

// DefaultPassingScorePercent applies when a quiz leaves its threshold unset.
const DefaultPassingScorePercent = 40

type QuizState int

const (
	QuizNotStarted QuizState = iota
	QuizRunning
	QuizSubmitted
)

func (s QuizState) String() string {
	switch s {
	case QuizRunning:
		return "running"
	case QuizSubmitted:
		return "submitted"
	default:
		return "notStarted"
	}
}

// QuizResult is surfaced to the learner through the quizSubmitted event.
type QuizResult struct {
	QuizID         string `json:"quizId"`
	CorrectCount   int    `json:"correctCount"`
	TotalQuestions int    `json:"totalQuestions"`
	ScorePercent   int    `json:"scorePercent"`
	// Applicable is false for a quiz without questions.
	Applicable    bool `json:"applicable"`
	Passed        bool `json:"passed"`
	AutoSubmitted bool `json:"autoSubmitted"`
}

// Score grades answers against the quiz key. Answers whose index does not name an
// option, and questions whose own key is out of range, count as incorrect.
func Score(q Quiz, answers map[string]int) QuizResult {
	res := QuizResult{QuizID: q.ID, TotalQuestions: len(q.Questions)}
	if len(q.Questions) == 0 {
		return res
	}
	for _, qq := range q.Questions {
		chosen, ok := answers[qq.ID]
		if !ok {
			continue
		}
		if validIndex(qq.CorrectIndex, qq.Options) && chosen == qq.CorrectIndex {
			res.CorrectCount++
		}
	}
	res.Applicable = true
	res.ScorePercent = int(math.Round(100 * float64(res.CorrectCount) / float64(res.TotalQuestions)))
	res.Passed = res.ScorePercent >= passingThreshold(q)
	return res
}

func passingThreshold(q Quiz) int {
	if q.PassingScorePercent <= 0 {
		return DefaultPassingScorePercent
	}
	return q.PassingScorePercent
}

func validIndex(i int, options []string) bool {
	return i >= 0 && i < len(options)
}

// QuizSession is the transient state of one quiz lesson while it is on screen.
// It is not safe for concurrent use; the owner serialises events.
type QuizSession struct {
	quiz          Quiz
	state         QuizState
	startedAt     time.Time
	deadlineAt    time.Time
	lastSeen      time.Time
	answers       map[string]int
	autoSubmitted bool
	result        *QuizResult
}

// NewQuizSession opens a session. Practice quizzes start running immediately and never expire.
func NewQuizSession(q Quiz, now time.Time) *QuizSession {
	s := &QuizSession{quiz: q, answers: make(map[string]int)}
	if q.Kind != QuizAssessment {
		s.state = QuizRunning
		s.startedAt = now
		s.lastSeen = now
	}
	return s
}

func (s *QuizSession) Quiz() Quiz            { return s.quiz }
func (s *QuizSession) State() QuizState      { return s.state }
func (s *QuizSession) StartedAt() time.Time  { return s.startedAt }
func (s *QuizSession) DeadlineAt() time.Time { return s.deadlineAt }
func (s *QuizSession) AutoSubmitted() bool   { return s.autoSubmitted }
func (s *QuizSession) Submitted() bool       { return s.state == QuizSubmitted }

// Timed reports whether the session has a deadline.
func (s *QuizSession) Timed() bool {
	return s.quiz.Kind == QuizAssessment && s.quiz.TimeLimitMinutes > 0
}

// Answers returns a copy of the answer map.
func (s *QuizSession) Answers() map[string]int {
	out := make(map[string]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Result is nil until the session has been scored.
func (s *QuizSession) Result() *QuizResult {
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Remaining is the time left on an assessment clock; zero when untimed or finished.
func (s *QuizSession) Remaining(now time.Time) time.Duration {
	if s.state != QuizRunning || !s.Timed() {
		return 0
	}
	now = s.observe(now)
	if d := s.deadlineAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Start moves an assessment from NotStarted to Running. A limit of zero minutes
// means untimed.
func (s *QuizSession) Start(now time.Time) bool {
	if s.state != QuizNotStarted {
		return false
	}
	s.state = QuizRunning
	s.startedAt = now
	s.lastSeen = now
	if s.Timed() {
		s.deadlineAt = now.Add(time.Duration(s.quiz.TimeLimitMinutes) * time.Minute)
	}
	return true
}

// Select upserts an answer. It is rejected before start, after submission, for an
// unknown question, or for an index that names no option.
func (s *QuizSession) Select(questionID string, choice int) bool {
	if s.state != QuizRunning {
		return false
	}
	for _, qq := range s.quiz.Questions {
		if qq.ID == questionID {
			if !validIndex(choice, qq.Options) {
				return false
			}
			s.answers[questionID] = choice
			return true
		}
	}
	return false
}

// Submit is the learner's explicit submission. Practice quizzes are graded but stay
// open for further answers.
func (s *QuizSession) Submit(now time.Time) (QuizResult, bool) {
	if s.state != QuizRunning {
		return QuizResult{}, false
	}
	s.observe(now)
	if s.quiz.Kind != QuizAssessment {
		res := Score(s.quiz, s.answers)
		s.result = &res
		return res, true
	}
	return s.finish(false), true
}

// Tick delivers the external clock. Once a tick lands at or after the deadline the
// session is submitted automatically; the tick rate does not affect the result.
func (s *QuizSession) Tick(now time.Time) (QuizResult, bool) {
	if s.state != QuizRunning || !s.Timed() {
		return QuizResult{}, false
	}
	if s.observe(now).Before(s.deadlineAt) {
		return QuizResult{}, false
	}
	return s.finish(true), true
}

// Expire is the timeExpired event delivered without a clock reading.
func (s *QuizSession) Expire() (QuizResult, bool) {
	if s.state != QuizRunning || !s.Timed() {
		return QuizResult{}, false
	}
	return s.finish(true), true
}

// Restart discards answers and returns an assessment to NotStarted.
func (s *QuizSession) Restart(now time.Time) {
	*s = *NewQuizSession(s.quiz, now)
}

func (s *QuizSession) finish(auto bool) QuizResult {
	res := Score(s.quiz, s.answers)
	res.AutoSubmitted = auto
	s.state = QuizSubmitted
	s.autoSubmitted = auto
	s.result = &res
	return res
}

// observe keeps the session clock monotonic: readings earlier than the last one are ignored.
func (s *QuizSession) observe(now time.Time) time.Time {
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
	return s.lastSeen
}
