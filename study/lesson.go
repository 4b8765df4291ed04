package study

// Kind discriminates the four lesson variants.
type Kind string

const (
	KindArticle   Kind = "article"
	KindQuestion  Kind = "question"
	KindQuiz      Kind = "quiz"
	KindPastPaper Kind = "pastPaper"
)

// QuizKind separates timed single-attempt quizzes from free practice.
type QuizKind string

const (
	QuizPractice   QuizKind = "practice"
	QuizAssessment QuizKind = "assessment"
)

// PastPaperKind is the answer format of a previous-year question.
type PastPaperKind string

const (
	PastPaperMultipleChoice PastPaperKind = "multipleChoice"
	PastPaperBoolean        PastPaperKind = "boolean"
	PastPaperDescriptive    PastPaperKind = "descriptive"
)

type Article struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	BodyMarkup string `json:"bodyMarkup"`
	Order      int    `json:"order"`
}

type Question struct {
	ID           string   `json:"id"`
	PromptMarkup string   `json:"promptMarkup"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Order        int      `json:"order"`
}

type QuizQuestion struct {
	ID           string   `json:"id"`
	PromptMarkup string   `json:"promptMarkup"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

type Quiz struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Questions           []QuizQuestion `json:"questions"`
	PassingScorePercent int            `json:"passingScorePercent"`
	TimeLimitMinutes    int            `json:"timeLimitMinutes"`
	Kind                QuizKind       `json:"kind"`
	Order               int            `json:"order"`
}

type PastPaper struct {
	ID             string        `json:"id"`
	YearLabel      string        `json:"yearLabel"`
	PromptMarkup   string        `json:"promptMarkup"`
	SolutionMarkup string        `json:"solutionMarkup"`
	Kind           PastPaperKind `json:"kind"`
	Options        []string      `json:"options,omitempty"`
	CorrectIndex   *int          `json:"correctIndex,omitempty"`
	Order          int           `json:"order"`
}

// Module is the raw payload for one course module as delivered by the collaborator.
type Module struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	IsFree      bool        `json:"isFree"`
	Order       int         `json:"order"`
	Articles    []Article   `json:"articles"`
	Questions   []Question  `json:"questions"`
	Quizzes     []Quiz      `json:"quizzes"`
	PastPapers  []PastPaper `json:"pastPapers"`
}

// Course carries the fields the engine needs for gating and lock events.
type Course struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Price   int      `json:"price"`
	Modules []Module `json:"modules"`
}

// Lesson is one merged item of a module. The set of implementations is closed;
// consumers dispatch with Accept so that a new kind breaks every Visitor at compile time.
type Lesson interface {
	Kind() Kind
	LessonID() string
	SortOrder() int
	Accept(v Visitor)
	sealed()
}

// Visitor must handle every lesson kind.
type Visitor interface {
	VisitArticle(Article)
	VisitQuestion(Question)
	VisitQuiz(Quiz)
	VisitPastPaper(PastPaper)
}

type articleLesson struct{ Article }
type questionLesson struct{ Question }
type quizLesson struct{ Quiz }
type pastPaperLesson struct{ PastPaper }

// ArticleLesson, QuestionLesson, QuizLesson and PastPaperLesson are the only constructors.
func ArticleLesson(a Article) Lesson     { return articleLesson{a} }
func QuestionLesson(q Question) Lesson   { return questionLesson{q} }
func QuizLesson(q Quiz) Lesson           { return quizLesson{q} }
func PastPaperLesson(p PastPaper) Lesson { return pastPaperLesson{p} }

func (l articleLesson) Kind() Kind   { return KindArticle }
func (l questionLesson) Kind() Kind  { return KindQuestion }
func (l quizLesson) Kind() Kind      { return KindQuiz }
func (l pastPaperLesson) Kind() Kind { return KindPastPaper }

func (l articleLesson) LessonID() string   { return l.ID }
func (l questionLesson) LessonID() string  { return l.ID }
func (l quizLesson) LessonID() string      { return l.ID }
func (l pastPaperLesson) LessonID() string { return l.ID }

func (l articleLesson) SortOrder() int   { return l.Order }
func (l questionLesson) SortOrder() int  { return l.Order }
func (l quizLesson) SortOrder() int      { return l.Order }
func (l pastPaperLesson) SortOrder() int { return l.Order }

func (l articleLesson) Accept(v Visitor)   { v.VisitArticle(l.Article) }
func (l questionLesson) Accept(v Visitor)  { v.VisitQuestion(l.Question) }
func (l quizLesson) Accept(v Visitor)      { v.VisitQuiz(l.Quiz) }
func (l pastPaperLesson) Accept(v Visitor) { v.VisitPastPaper(l.PastPaper) }

func (articleLesson) sealed()   {}
func (questionLesson) sealed()  {}
func (quizLesson) sealed()      {}
func (pastPaperLesson) sealed() {}

// AsQuiz returns the quiz payload when l is a quiz lesson.
func AsQuiz(l Lesson) (Quiz, bool) {
	q, ok := l.(quizLesson)
	if !ok {
		return Quiz{}, false
	}
	return q.Quiz, true
}
