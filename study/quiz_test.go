package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fourQuestionQuiz() Quiz {
	opts := []string{"a", "b", "c", "d"}
	return Quiz{
		ID:                  "z1",
		Title:               "Mock test 1",
		Kind:                QuizAssessment,
		PassingScorePercent: 40,
		TimeLimitMinutes:    10,
		Questions: []QuizQuestion{
			{ID: "1", Options: opts, CorrectIndex: 0},
			{ID: "2", Options: opts, CorrectIndex: 1},
			{ID: "3", Options: opts, CorrectIndex: 2},
			{ID: "4", Options: opts, CorrectIndex: 3},
		},
	}
}

func TestScoreScenarioC(t *testing.T) {
	q := fourQuestionQuiz()

	one := Score(q, map[string]int{"1": 0, "2": 0, "3": 0, "4": 0})
	assert.Equal(t, 25, one.ScorePercent)
	assert.False(t, one.Passed)

	two := Score(q, map[string]int{"1": 0, "2": 1, "3": 0})
	assert.Equal(t, 50, two.ScorePercent)
	assert.True(t, two.Passed)
	assert.Equal(t, 2, two.CorrectCount)
	assert.Equal(t, 4, two.TotalQuestions)
}

func TestScoreDefaultsThresholdAndRounds(t *testing.T) {
	q := Quiz{ID: "z", Questions: []QuizQuestion{
		{ID: "a", Options: []string{"x", "y"}, CorrectIndex: 1},
		{ID: "b", Options: []string{"x", "y"}, CorrectIndex: 1},
		{ID: "c", Options: []string{"x", "y"}, CorrectIndex: 1},
	}}

	res := Score(q, map[string]int{"a": 1, "b": 1})
	assert.Equal(t, 67, res.ScorePercent)
	assert.True(t, res.Passed)

	res = Score(q, map[string]int{"a": 1})
	assert.Equal(t, 33, res.ScorePercent)
	assert.False(t, res.Passed, "default threshold is 40")
}

func TestScoreTreatsMalformedKeysAsIncorrect(t *testing.T) {
	q := Quiz{ID: "z", Questions: []QuizQuestion{
		{ID: "a", Options: []string{"x"}, CorrectIndex: 3},
		{ID: "b", CorrectIndex: 0},
		{ID: "c", Options: []string{"x", "y"}, CorrectIndex: 0},
	}}

	res := Score(q, map[string]int{"a": 3, "b": 0, "c": 0, "ghost": 1})
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 33, res.ScorePercent)
}

func TestScoreIsIdempotent(t *testing.T) {
	q := fourQuestionQuiz()
	answers := map[string]int{"1": 0, "2": 2, "4": 3}
	first := Score(q, answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(q, answers))
	}
}

func TestZeroQuestionQuizDoesNotCrash(t *testing.T) {
	q := Quiz{ID: "empty", Kind: QuizAssessment, TimeLimitMinutes: 1}

	s := NewQuizSession(q, t0)
	require.True(t, s.Start(t0))
	res, ok := s.Tick(t0.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, 0, res.ScorePercent)
	assert.False(t, res.Applicable)
	assert.True(t, res.AutoSubmitted)

	s2 := NewQuizSession(q, t0)
	s2.Start(t0)
	res, ok = s2.Submit(t0)
	require.True(t, ok)
	assert.Equal(t, 0, res.ScorePercent)
	assert.False(t, res.Passed)
}

func TestAssessmentLifecycle(t *testing.T) {
	s := NewQuizSession(fourQuestionQuiz(), t0)
	assert.Equal(t, QuizNotStarted, s.State())
	assert.False(t, s.Select("1", 0), "answers need a running session")

	require.True(t, s.Start(t0))
	assert.False(t, s.Start(t0), "start is one-shot")
	assert.Equal(t, t0.Add(10*time.Minute), s.DeadlineAt())
	assert.Equal(t, 10*time.Minute, s.Remaining(t0))

	assert.True(t, s.Select("1", 0))
	assert.True(t, s.Select("1", 2), "answers are upserted")
	assert.False(t, s.Select("1", 4), "index outside options")
	assert.False(t, s.Select("nope", 0))
	assert.True(t, s.Select("2", 1))

	res, ok := s.Submit(t0.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, QuizSubmitted, s.State())
	assert.False(t, res.AutoSubmitted)
	assert.Equal(t, 1, res.CorrectCount)

	assert.False(t, s.Select("3", 2), "locked after submission")
	_, ok = s.Submit(t0.Add(2 * time.Minute))
	assert.False(t, ok)
	_, ok = s.Tick(t0.Add(time.Hour))
	assert.False(t, ok)
	assert.Equal(t, res, *s.Result())
}

func TestDeadlineAutoSubmitIsTickRateAgnostic(t *testing.T) {
	answer := func(s *QuizSession) {
		s.Select("1", 0)
		s.Select("2", 1)
	}

	coarse := NewQuizSession(fourQuestionQuiz(), t0)
	coarse.Start(t0)
	answer(coarse)
	_, ok := coarse.Tick(t0.Add(9 * time.Minute))
	assert.False(t, ok)
	coarseRes, ok := coarse.Tick(t0.Add(25 * time.Minute))
	require.True(t, ok)

	fine := NewQuizSession(fourQuestionQuiz(), t0)
	fine.Start(t0)
	answer(fine)
	var fineRes QuizResult
	for ts := t0; ; ts = ts.Add(time.Second) {
		if r, done := fine.Tick(ts); done {
			fineRes = r
			assert.Equal(t, t0.Add(10*time.Minute), ts, "fires exactly at the deadline")
			break
		}
	}

	assert.Equal(t, coarseRes, fineRes)
	assert.True(t, fineRes.AutoSubmitted)
	assert.True(t, fine.AutoSubmitted())
}

func TestSessionClockIgnoresBackwardsReadings(t *testing.T) {
	s := NewQuizSession(fourQuestionQuiz(), t0)
	s.Start(t0)

	_, ok := s.Tick(t0.Add(11 * time.Minute))
	require.True(t, ok)

	s2 := NewQuizSession(fourQuestionQuiz(), t0)
	s2.Start(t0)
	_, ok = s2.Tick(t0.Add(9 * time.Minute))
	assert.False(t, ok)
	assert.Equal(t, time.Minute, s2.Remaining(t0.Add(-time.Hour)), "a skewed reading does not rewind the clock")
}

func TestExpireEvent(t *testing.T) {
	s := NewQuizSession(fourQuestionQuiz(), t0)
	_, ok := s.Expire()
	assert.False(t, ok, "nothing to expire before start")

	s.Start(t0)
	res, ok := s.Expire()
	require.True(t, ok)
	assert.True(t, res.AutoSubmitted)
}

func TestPracticeQuizNeverLocks(t *testing.T) {
	q := fourQuestionQuiz()
	q.Kind = QuizPractice

	s := NewQuizSession(q, t0)
	assert.Equal(t, QuizRunning, s.State())
	assert.False(t, s.Timed())
	assert.False(t, s.Start(t0))

	s.Select("1", 0)
	res, ok := s.Submit(t0)
	require.True(t, ok)
	assert.Equal(t, 25, res.ScorePercent)
	assert.Equal(t, QuizRunning, s.State())

	assert.True(t, s.Select("2", 1), "still answerable after checking")
	res, _ = s.Submit(t0)
	assert.Equal(t, 50, res.ScorePercent)

	_, ok = s.Tick(t0.Add(24 * time.Hour))
	assert.False(t, ok, "practice quizzes have no deadline")
}

func TestRestartReturnsToNotStarted(t *testing.T) {
	s := NewQuizSession(fourQuestionQuiz(), t0)
	s.Start(t0)
	s.Select("1", 0)
	s.Submit(t0)

	s.Restart(t0.Add(time.Minute))
	assert.Equal(t, QuizNotStarted, s.State())
	assert.Empty(t, s.Answers())
	assert.Nil(t, s.Result())
}
