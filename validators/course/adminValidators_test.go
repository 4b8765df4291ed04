package courseValidator

import (
	"testing"

	"examprep/ordering"
	"examprep/validators"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestQuizRequestDefaultsAndAnswerKey(t *testing.T) {
	req := &QuizRequest{
		Title: " Mock 1 ",
		Questions: []QuizQuestionRequest{
			{PromptMarkup: "2+2", Options: []string{"3", "4"}, CorrectIndex: 1},
			{PromptMarkup: "3+3", Options: []string{"6", "7"}, CorrectIndex: 2},
		},
	}
	req.Normalize()
	assert.Equal(t, "Mock 1", req.Title)
	assert.Equal(t, "practice", req.Kind)
	assert.Equal(t, 40, req.PassingScorePercent)

	errs := validators.Check(req)
	assert.Contains(t, errs, "questions[1].correct_index")
	assert.NotContains(t, errs, "questions[0].correct_index")
}

func TestPastPaperRequestByKind(t *testing.T) {
	desc := &PastPaperRequest{YearLabel: "2021", PromptMarkup: "Explain"}
	desc.Normalize()
	assert.Equal(t, "descriptive", desc.Kind)
	assert.Empty(t, validators.Check(desc))

	desc.CorrectIndex = intPtr(0)
	assert.Contains(t, validators.Check(desc), "correct_index")

	boolean := &PastPaperRequest{YearLabel: "2022", PromptMarkup: "True?", Kind: "boolean", CorrectIndex: intPtr(1)}
	boolean.Normalize()
	assert.Equal(t, []string{"True", "False"}, boolean.Options)
	assert.Empty(t, validators.Check(boolean))

	mcq := &PastPaperRequest{YearLabel: "2023", PromptMarkup: "Pick", Kind: "multipleChoice", Options: []string{"a", "b"}}
	mcq.Normalize()
	assert.Contains(t, validators.Check(mcq), "correct_index")
}

func TestModuleOrderRejectsDuplicates(t *testing.T) {
	assert.Empty(t, validators.Check(&ModuleOrderRequest{ModuleIDs: []string{"3", "1", "2"}}))
	assert.Contains(t, validators.Check(&ModuleOrderRequest{ModuleIDs: []string{"3", "1", "3"}}), "moduleIds")
	assert.Contains(t, validators.Check(&ModuleOrderRequest{ModuleIDs: []string{"x"}}), "moduleIds[0]")
}

func TestLessonOrderRequiresTypedItems(t *testing.T) {
	ok := &LessonOrderRequest{Items: []ordering.Item{{ID: "1", Type: ordering.TypeArticle}}}
	assert.Empty(t, validators.Check(ok))

	missing := &LessonOrderRequest{Items: []ordering.Item{{ID: "1"}}}
	assert.Contains(t, validators.Check(missing), "items[0].type")
}

func TestReorderRequestCheck(t *testing.T) {
	req := &ReorderRequest{Scope: "10", Entries: []ordering.Entry{{ID: "1", Order: 0}, {ID: "2", Order: 1}}}
	assert.Empty(t, validators.Check(req))

	req.Entries[1].Order = -1
	assert.Contains(t, validators.Check(req), "entries[1].order")

	req.Entries[1] = ordering.Entry{ID: "2", Order: 0}
	assert.Contains(t, validators.Check(req), "entries[1].order")

	req.Entries[1] = ordering.Entry{ID: "1", Order: 1}
	assert.Contains(t, validators.Check(req), "entries")

	assert.Contains(t, validators.Check(&ReorderRequest{Scope: "abc", Entries: []ordering.Entry{{ID: "1"}}}), "scope")
}

func TestUpdateCourseStatus(t *testing.T) {
	status := "ARCHIVED"
	assert.Contains(t, validators.Check(&UpdateCourseRequest{Status: &status}), "status")

	status = "ACTIVE"
	assert.Empty(t, validators.Check(&UpdateCourseRequest{Status: &status}))
}
