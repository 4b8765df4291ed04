package study

import (
	"cmp"
	"slices"
)

// Merge flattens a module's four collections into the lesson sequence shown to the learner.
// Items are sorted ascending by order; equal orders keep article, question, quiz, pastPaper
// enumeration order, and within one collection their input order.
func Merge(m Module) []Lesson {
	out := make([]Lesson, 0, len(m.Articles)+len(m.Questions)+len(m.Quizzes)+len(m.PastPapers))
	for _, a := range m.Articles {
		out = append(out, ArticleLesson(a))
	}
	for _, q := range m.Questions {
		out = append(out, QuestionLesson(q))
	}
	for _, q := range m.Quizzes {
		out = append(out, QuizLesson(q))
	}
	for _, p := range m.PastPapers {
		out = append(out, PastPaperLesson(p))
	}
	slices.SortStableFunc(out, func(a, b Lesson) int {
		return cmp.Compare(a.SortOrder(), b.SortOrder())
	})
	return out
}
