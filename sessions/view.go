package sessions

import (
	"time"

	"examprep/study"
)

// Snapshot is the rendered state of a session returned by every call.
type Snapshot struct {
	ID        string          `json:"sessionId"`
	CourseID  string          `json:"courseId"`
	Course    CourseView      `json:"course"`
	LoadState study.LoadState `json:"loadState"`
	Errors    []string        `json:"errors,omitempty"`
	Locked    bool            `json:"locked"`
	Position  study.Position  `json:"position"`
	HasNext   bool            `json:"hasNext"`
	HasPrev   bool            `json:"hasPrev"`
	Modules   []ModuleView    `json:"modules"`
	Lesson    *LessonView     `json:"lesson,omitempty"`
	Quiz      *QuizView       `json:"quiz,omitempty"`
	Outcome   string          `json:"outcome,omitempty"`
	Events    []Event         `json:"events"`
}

type CourseView struct {
	Title string `json:"title"`
	Price int    `json:"price"`
}

type ModuleView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsFree      bool   `json:"isFree"`
	Access      string `json:"access"` // granted, provisional, denied
	LessonCount int    `json:"lessonCount"`
}

// LessonView carries exactly one of the four payloads.
type LessonView struct {
	Kind      study.Kind       `json:"kind"`
	ID        string           `json:"id"`
	Article   *study.Article   `json:"article,omitempty"`
	Question  *study.Question  `json:"question,omitempty"`
	Quiz      *QuizSummary     `json:"quiz,omitempty"`
	PastPaper *study.PastPaper `json:"pastPaper,omitempty"`
}

// QuizSummary omits the answer key.
type QuizSummary struct {
	Title               string         `json:"title"`
	Kind                study.QuizKind `json:"kind"`
	PassingScorePercent int            `json:"passingScorePercent"`
	TimeLimitMinutes    int            `json:"timeLimitMinutes"`
	QuestionCount       int            `json:"questionCount"`
}

type QuizView struct {
	QuizID           string            `json:"quizId"`
	State            string            `json:"state"`
	StartedAt        *time.Time        `json:"startedAt,omitempty"`
	DeadlineAt       *time.Time        `json:"deadlineAt,omitempty"`
	RemainingSeconds int64             `json:"remainingSeconds"`
	Questions        []QuestionView    `json:"questions"`
	Answers          map[string]int    `json:"answers"`
	Result           *study.QuizResult `json:"result,omitempty"`
}

// QuestionView reveals the correct index only once the quiz has been graded.
type QuestionView struct {
	ID           string   `json:"id"`
	PromptMarkup string   `json:"promptMarkup"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
}

// lessonRenderer is the rendering consumer of the lesson union.
type lessonRenderer struct{ view *LessonView }

func (r lessonRenderer) VisitArticle(a study.Article) { r.view.Article = &a }

func (r lessonRenderer) VisitQuestion(q study.Question) { r.view.Question = &q }

func (r lessonRenderer) VisitQuiz(q study.Quiz) {
	r.view.Quiz = &QuizSummary{
		Title:               q.Title,
		Kind:                q.Kind,
		PassingScorePercent: q.PassingScorePercent,
		TimeLimitMinutes:    q.TimeLimitMinutes,
		QuestionCount:       len(q.Questions),
	}
}

func (r lessonRenderer) VisitPastPaper(p study.PastPaper) { r.view.PastPaper = &p }

func renderLesson(l study.Lesson) *LessonView {
	v := &LessonView{Kind: l.Kind(), ID: l.LessonID()}
	l.Accept(lessonRenderer{view: v})
	return v
}

// snapshot renders s and drains its outbox. Callers hold s.mu.
func (m *Manager) snapshot(s *Session, outcome string) Snapshot {
	nav := s.nav
	course := nav.Course()
	snap := Snapshot{
		ID:        s.ID,
		CourseID:  s.CourseID,
		Course:    CourseView{Title: course.Title, Price: course.Price},
		LoadState: nav.LoadState(),
		Locked:    nav.Locked(),
		Position:  nav.Position(),
		HasNext:   nav.HasNext(),
		HasPrev:   nav.HasPrev(),
		Outcome:   outcome,
		Events:    s.outbox,
	}
	s.outbox = nil
	if snap.Events == nil {
		snap.Events = []Event{}
	}

	contentErr, accessErr := nav.LoadErrors()
	for _, err := range []error{contentErr, accessErr} {
		if err != nil {
			snap.Errors = append(snap.Errors, err.Error())
		}
	}

	decisions := nav.Decisions()
	snap.Modules = make([]ModuleView, len(course.Modules))
	for i, mod := range course.Modules {
		snap.Modules[i] = ModuleView{
			ID:          mod.ID,
			Title:       mod.Title,
			IsFree:      mod.IsFree,
			Access:      decisions[i].String(),
			LessonCount: len(nav.Lessons(i)),
		}
	}

	if l, ok := nav.Current(); ok {
		snap.Lesson = renderLesson(l)
	}
	if qs := nav.QuizSession(); qs != nil {
		snap.Quiz = m.renderQuiz(qs)
	}
	return snap
}

func (m *Manager) renderQuiz(qs *study.QuizSession) *QuizView {
	q := qs.Quiz()
	graded := qs.Result() != nil
	v := &QuizView{
		QuizID:           q.ID,
		State:            qs.State().String(),
		RemainingSeconds: int64(qs.Remaining(m.now()) / time.Second),
		Answers:          qs.Answers(),
		Result:           qs.Result(),
		Questions:        make([]QuestionView, len(q.Questions)),
	}
	if qs.State() != study.QuizNotStarted {
		started := qs.StartedAt()
		v.StartedAt = &started
	}
	if qs.Timed() && qs.State() != study.QuizNotStarted {
		deadline := qs.DeadlineAt()
		v.DeadlineAt = &deadline
	}
	for i, qq := range q.Questions {
		v.Questions[i] = QuestionView{ID: qq.ID, PromptMarkup: qq.PromptMarkup, Options: qq.Options}
		if graded {
			correct := qq.CorrectIndex
			v.Questions[i].CorrectIndex = &correct
		}
	}
	return v
}
