package courseValidator

import (
	"fmt"
	"strings"

	"examprep/middleware"
	"examprep/ordering"
	"examprep/validators"

	"github.com/gofiber/fiber/v2"
)

// ============ Course Validators ============

type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"required,min=5"`
	Author       string `json:"author" validate:"required,min=3,max=100,excludesall=<>{}"`
	Price        int    `json:"price" validate:"gte=0"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	IsPublished  bool   `json:"is_published"`
}

func (r *CreateCourseRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Author = strings.TrimSpace(r.Author)
}

// UpdateCourseRequest leaves nil fields untouched.
type UpdateCourseRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string `json:"description" validate:"omitempty,min=5"`
	Author       *string `json:"author" validate:"omitempty,min=3,max=100,excludesall=<>{}"`
	Price        *int    `json:"price" validate:"omitempty,gte=0"`
	Status       *string `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE INACTIVE"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,url"`
	IsPublished  *bool   `json:"is_published"`
}

type CourseListQuery struct {
	validators.Page
	Search string `query:"search" json:"search" validate:"max=100"`
}

func CreateCourseAdmin() fiber.Handler {
	return validators.Body("validatedCourse", func() interface{} { return new(CreateCourseRequest) })
}

func UpdateCourseAdmin() fiber.Handler {
	return validators.Body("validatedCourseUpdate", func() interface{} { return new(UpdateCourseRequest) })
}

func AdminList() fiber.Handler {
	return validators.Query("validatedCourseList", func() interface{} { return new(CourseListQuery) })
}

// ============ Module Validators ============

type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	IsFree      bool   `json:"is_free"`
}

func (r *CreateModuleRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

type UpdateModuleRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsFree      *bool   `json:"is_free"`
}

func CreateModule() fiber.Handler {
	return validators.Body("validatedModule", func() interface{} { return new(CreateModuleRequest) })
}

func UpdateModule() fiber.Handler {
	return validators.Body("validatedModuleUpdate", func() interface{} { return new(UpdateModuleRequest) })
}

// ============ Content Validators ============

type ArticleRequest struct {
	Title      string `json:"title" validate:"required,min=3,max=200"`
	BodyMarkup string `json:"body_markup" validate:"required"`
}

type QuestionRequest struct {
	PromptMarkup string   `json:"prompt_markup" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2,max=10,dive,required"`
	CorrectIndex int      `json:"correct_index" validate:"gte=0"`
}

func (r *QuestionRequest) Check() map[string]string {
	return checkCorrectIndex(r.CorrectIndex, r.Options, "correct_index")
}

type QuizQuestionRequest struct {
	PromptMarkup string   `json:"prompt_markup" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2,max=10,dive,required"`
	CorrectIndex int      `json:"correct_index" validate:"gte=0"`
}

type QuizRequest struct {
	Title               string                `json:"title" validate:"required,min=3,max=200"`
	Kind                string                `json:"kind" validate:"oneof=practice assessment"`
	PassingScorePercent int                   `json:"passing_score_percent" validate:"gte=0,lte=100"`
	TimeLimitMinutes    int                   `json:"time_limit_minutes" validate:"gte=0,lte=600"`
	Questions           []QuizQuestionRequest `json:"questions" validate:"dive"`
}

func (r *QuizRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Kind == "" {
		r.Kind = "practice"
	}
	if r.PassingScorePercent == 0 {
		r.PassingScorePercent = 40
	}
}

func (r *QuizRequest) Check() map[string]string {
	errs := map[string]string{}
	for i, q := range r.Questions {
		for k, v := range checkCorrectIndex(q.CorrectIndex, q.Options, fmt.Sprintf("questions[%d].correct_index", i)) {
			errs[k] = v
		}
	}
	return errs
}

type PastPaperRequest struct {
	YearLabel      string   `json:"year_label" validate:"required,max=50"`
	PromptMarkup   string   `json:"prompt_markup" validate:"required"`
	SolutionMarkup string   `json:"solution_markup"`
	Kind           string   `json:"kind" validate:"oneof=multipleChoice boolean descriptive"`
	Options        []string `json:"options" validate:"omitempty,max=10,dive,required"`
	CorrectIndex   *int     `json:"correct_index" validate:"omitempty,gte=0"`
}

func (r *PastPaperRequest) Normalize() {
	if r.Kind == "" {
		r.Kind = "descriptive"
	}
	if r.Kind == "boolean" && len(r.Options) == 0 {
		r.Options = []string{"True", "False"}
	}
}

func (r *PastPaperRequest) Check() map[string]string {
	if r.Kind == "descriptive" {
		if r.CorrectIndex != nil {
			return map[string]string{"correct_index": "Descriptive questions have no correct option!"}
		}
		return nil
	}
	if len(r.Options) < 2 {
		return map[string]string{"options": "options must have at least 2 items!"}
	}
	if r.CorrectIndex == nil {
		return map[string]string{"correct_index": "correct_index is required!"}
	}
	return checkCorrectIndex(*r.CorrectIndex, r.Options, "correct_index")
}

func checkCorrectIndex(idx int, options []string, field string) map[string]string {
	if idx >= len(options) {
		return map[string]string{field: "correct_index must point at one of the options!"}
	}
	return nil
}

var contentRequests = map[ordering.ItemType]func() interface{}{
	ordering.TypeArticle:   func() interface{} { return new(ArticleRequest) },
	ordering.TypeQuestion:  func() interface{} { return new(QuestionRequest) },
	ordering.TypeQuiz:      func() interface{} { return new(QuizRequest) },
	ordering.TypePastPaper: func() interface{} { return new(PastPaperRequest) },
}

// CreateContentAdmin picks the payload shape from the :type param and stores the parsed
// type in c.Locals("contentType").
func CreateContentAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := ordering.ParseItemType(c.Params("type"))
		newReq, ok := contentRequests[t]
		if err != nil || !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content type must be article, question, quiz or pastPaper!", nil)
		}
		c.Locals("contentType", t)
		return validators.Body("validatedContent", newReq)(c)
	}
}

// ============ Ordering Validators ============

type ModuleOrderRequest struct {
	ModuleIDs []string `json:"moduleIds" validate:"required,min=1,dive,numeric"`
}

func (r *ModuleOrderRequest) Check() map[string]string {
	if dup := firstDuplicate(r.ModuleIDs); dup != "" {
		return map[string]string{"moduleIds": "Duplicate module id " + dup + "!"}
	}
	return nil
}

type LessonOrderRequest struct {
	Items []ordering.Item `json:"items" validate:"required,min=1,dive"`
}

// ReorderRequest is the body of the batched per-type endpoint.
type ReorderRequest struct {
	Scope   string           `json:"scope" validate:"required,numeric"`
	Entries []ordering.Entry `json:"entries" validate:"required,min=1,dive"`
}

func (r *ReorderRequest) Check() map[string]string {
	ids := make([]string, len(r.Entries))
	orders := make(map[int]bool, len(r.Entries))
	for i, e := range r.Entries {
		if e.Order < 0 {
			return map[string]string{fmt.Sprintf("entries[%d].order", i): "order must be 0 or more!"}
		}
		if orders[e.Order] {
			return map[string]string{fmt.Sprintf("entries[%d].order", i): fmt.Sprintf("order %d is already used!", e.Order)}
		}
		orders[e.Order] = true
		ids[i] = e.ID
	}
	if dup := firstDuplicate(ids); dup != "" {
		return map[string]string{"entries": "Duplicate id " + dup + "!"}
	}
	return nil
}

func ModuleOrder() fiber.Handler {
	return validators.Body("validatedModuleOrder", func() interface{} { return new(ModuleOrderRequest) })
}

func LessonOrder() fiber.Handler {
	return validators.Body("validatedLessonOrder", func() interface{} { return new(LessonOrderRequest) })
}

// Reorder parses the :type param and the batched body.
func Reorder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := ordering.ParseItemType(c.Params("type"))
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown item type!", nil)
		}
		c.Locals("itemType", t)
		return validators.Body("validatedReorder", func() interface{} { return new(ReorderRequest) })(c)
	}
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}

// ============ Payment Validators ============

type RecordPaymentRequest struct {
	UserID         uint   `json:"user_id" validate:"required"`
	Amount         int    `json:"amount" validate:"gte=0"`
	PaymentGateway string `json:"payment_gateway" validate:"required,max=50"`
	PaymentOrderID string `json:"payment_order_id" validate:"max=100"`
	PaymentID      string `json:"payment_id" validate:"required,max=100"`
	PaymentMethod  string `json:"payment_method" validate:"max=50"`
}

func RecordPayment() fiber.Handler {
	return validators.Body("validatedPayment", func() interface{} { return new(RecordPaymentRequest) })
}

type DashboardQuery struct {
	// Period selects the revenue window: day, week or month.
	Period string `query:"period" json:"period" validate:"omitempty,oneof=day week month"`
}

func DashboardStats() fiber.Handler {
	return validators.Query("validatedDashboard", func() interface{} { return new(DashboardQuery) })
}
