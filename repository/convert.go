package repository

import (
	courseModels "examprep/models/course"
	"examprep/study"
)

func toArticle(a courseModels.Article) study.Article {
	return study.Article{
		ID:         formatID(a.ID),
		Title:      a.Title,
		BodyMarkup: a.BodyMarkup,
		Order:      a.OrderIndex,
	}
}

func toQuestion(q courseModels.Question) study.Question {
	return study.Question{
		ID:           formatID(q.ID),
		PromptMarkup: q.PromptMarkup,
		Options:      courseModels.DecodeOptions(q.Options),
		CorrectIndex: q.CorrectIndex,
		Order:        q.OrderIndex,
	}
}

func toQuiz(q courseModels.Quiz) study.Quiz {
	out := study.Quiz{
		ID:                  formatID(q.ID),
		Title:               q.Title,
		PassingScorePercent: q.PassingScorePercent,
		TimeLimitMinutes:    q.TimeLimitMinutes,
		Kind:                study.QuizKind(q.Kind),
		Order:               q.OrderIndex,
		Questions:           make([]study.QuizQuestion, len(q.Questions)),
	}
	if out.Kind != study.QuizAssessment {
		out.Kind = study.QuizPractice
	}
	for i, qq := range q.Questions {
		out.Questions[i] = study.QuizQuestion{
			ID:           formatID(qq.ID),
			PromptMarkup: qq.PromptMarkup,
			Options:      courseModels.DecodeOptions(qq.Options),
			CorrectIndex: qq.CorrectIndex,
		}
	}
	return out
}

func toPastPaper(p courseModels.PastPaper) study.PastPaper {
	return study.PastPaper{
		ID:             formatID(p.ID),
		YearLabel:      p.YearLabel,
		PromptMarkup:   p.PromptMarkup,
		SolutionMarkup: p.SolutionMarkup,
		Kind:           study.PastPaperKind(p.Kind),
		Options:        courseModels.DecodeOptions(p.Options),
		CorrectIndex:   p.CorrectIndex,
		Order:          p.OrderIndex,
	}
}
