package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"examprep/database"
	"examprep/models"
	courseModels "examprep/models/course"
	"examprep/ordering"
	"examprep/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open("sqlite", dsn, "test")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return New(db, nil)
}

type seeded struct {
	course  courseModels.Course
	free    courseModels.Module
	paid    courseModels.Module
	article courseModels.Article
	quiz    courseModels.Quiz
	paper   courseModels.PastPaper
	user    models.User
}

func seed(t *testing.T, db *gorm.DB) seeded {
	t.Helper()
	s := seeded{}
	s.course = courseModels.Course{Title: "SSC CGL", Price: 1999, IsPublished: true}
	require.NoError(t, db.Create(&s.course).Error)

	s.paid = courseModels.Module{CourseID: s.course.ID, Title: "Quant", OrderIndex: 1}
	s.free = courseModels.Module{CourseID: s.course.ID, Title: "Basics", IsFree: true, OrderIndex: 0}
	require.NoError(t, db.Create(&s.paid).Error)
	require.NoError(t, db.Create(&s.free).Error)

	s.article = courseModels.Article{ModuleID: s.free.ID, Title: "Syllabus", OrderIndex: 1}
	require.NoError(t, db.Create(&s.article).Error)
	require.NoError(t, db.Create(&courseModels.Question{
		ModuleID: s.free.ID, PromptMarkup: "2+2?", Options: courseModels.EncodeOptions([]string{"3", "4"}), CorrectIndex: 1, OrderIndex: 0,
	}).Error)

	s.quiz = courseModels.Quiz{ModuleID: s.paid.ID, Title: "Mock", Kind: "assessment", PassingScorePercent: 50, TimeLimitMinutes: 15, OrderIndex: 0}
	require.NoError(t, db.Create(&s.quiz).Error)
	require.NoError(t, db.Create(&courseModels.QuizQuestion{QuizID: s.quiz.ID, PromptMarkup: "b", Options: courseModels.EncodeOptions([]string{"x", "y"}), OrderIndex: 1}).Error)
	require.NoError(t, db.Create(&courseModels.QuizQuestion{QuizID: s.quiz.ID, PromptMarkup: "a", Options: courseModels.EncodeOptions([]string{"x", "y"}), OrderIndex: 0}).Error)

	correct := 0
	s.paper = courseModels.PastPaper{ModuleID: s.paid.ID, YearLabel: "2022", Kind: "boolean", Options: courseModels.EncodeOptions([]string{"True", "False"}), CorrectIndex: &correct, OrderIndex: 1}
	require.NoError(t, db.Create(&s.paper).Error)

	s.user = models.User{Name: "Asha", Email: "asha@example.com", Password: "hash"}
	require.NoError(t, db.Create(&s.user).Error)
	return s
}

func TestCourseDetailAssemblesModules(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())

	course, err := store.CourseDetail(context.Background(), formatID(s.course.ID))
	require.NoError(t, err)

	assert.Equal(t, "SSC CGL", course.Title)
	assert.Equal(t, 1999, course.Price)
	require.Len(t, course.Modules, 2)

	basics := course.Modules[0]
	assert.Equal(t, "Basics", basics.Title, "modules come back in order_index order")
	assert.True(t, basics.IsFree)
	require.Len(t, basics.Questions, 1)
	assert.Equal(t, []string{"3", "4"}, basics.Questions[0].Options)
	assert.Len(t, basics.Articles, 1)

	lessons := study.Merge(basics)
	require.Len(t, lessons, 2)
	assert.Equal(t, study.KindQuestion, lessons[0].Kind())
	assert.Equal(t, study.KindArticle, lessons[1].Kind())

	quant := course.Modules[1]
	require.Len(t, quant.Quizzes, 1)
	quiz := quant.Quizzes[0]
	assert.Equal(t, study.QuizAssessment, quiz.Kind)
	assert.Equal(t, 15, quiz.TimeLimitMinutes)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "a", quiz.Questions[0].PromptMarkup)
	require.Len(t, quant.PastPapers, 1)
	require.NotNil(t, quant.PastPapers[0].CorrectIndex)
	assert.Equal(t, 0, *quant.PastPapers[0].CorrectIndex)
}

func TestCourseDetailSkipsDeletedRows(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())

	require.NoError(t, store.SoftDeleteModule(context.Background(), s.course.ID, s.paid.ID))

	course, err := store.CourseDetail(context.Background(), formatID(s.course.ID))
	require.NoError(t, err)
	require.Len(t, course.Modules, 1)

	var quizQuestions int64
	store.DB().Model(&courseModels.QuizQuestion{}).Where("is_deleted = ?", false).Count(&quizQuestions)
	assert.Zero(t, quizQuestions)

	err = store.SoftDeleteModule(context.Background(), s.course.ID, s.paid.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCourseDetailErrors(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CourseDetail(context.Background(), "42")
	assert.ErrorIs(t, err, study.ErrCourseNotFound)

	_, err = store.CourseDetail(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestEnrollAndAccessStatus(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())
	ctx := context.Background()
	cid, uid := formatID(s.course.ID), formatID(s.user.ID)

	st, err := store.AccessStatus(ctx, cid, uid)
	require.NoError(t, err)
	assert.Equal(t, study.AccessStatus{}, st)

	require.NoError(t, store.Enroll(ctx, cid, uid))
	require.NoError(t, store.Enroll(ctx, cid, uid), "enrolling twice is a no-op")

	var count int64
	store.DB().Model(&courseModels.Enrollment{}).Count(&count)
	assert.Equal(t, int64(1), count)

	st, err = store.AccessStatus(ctx, cid, uid)
	require.NoError(t, err)
	assert.Equal(t, study.AccessStatus{IsEnrolled: true}, st)

	assert.ErrorIs(t, store.Enroll(ctx, "999", uid), study.ErrCourseNotFound)
	_, err = store.AccessStatus(ctx, "999", uid)
	assert.ErrorIs(t, err, study.ErrCourseNotFound)
}

func TestRecordPaymentMarksEnrollmentPaid(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())
	paidAt := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	p := &models.CoursePayment{UserID: s.user.ID, CourseID: s.course.ID, Amount: 1999, PaymentGateway: "razorpay", PaymentID: "pay_1", PaidAt: paidAt}
	require.NoError(t, store.RecordPayment(context.Background(), p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, models.PaymentStatusCompleted, p.Status)

	st, err := store.AccessStatus(context.Background(), formatID(s.course.ID), formatID(s.user.ID))
	require.NoError(t, err)
	assert.Equal(t, study.AccessStatus{IsEnrolled: true, HasPaid: true}, st)

	err = store.RecordPayment(context.Background(), &models.CoursePayment{UserID: s.user.ID, CourseID: 999, Amount: 1})
	assert.ErrorIs(t, err, study.ErrCourseNotFound)
}

func TestNextOrders(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())
	ctx := context.Background()

	next, err := store.NextModuleOrder(ctx, s.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	next, err = store.NextModuleOrder(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	next, err = store.NextLessonOrder(ctx, s.paid.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestUpdateOrderLessons(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())
	ctx := context.Background()

	buckets, err := ordering.Partition(formatID(s.paid.ID), []ordering.Item{
		{ID: formatID(s.paper.ID), Type: ordering.TypePastPaper},
		{ID: formatID(s.quiz.ID), Type: ordering.TypeQuiz},
	})
	require.NoError(t, err)
	require.NoError(t, ordering.NewPersister(store, nil).Persist(ctx, buckets))

	course, err := store.CourseDetail(ctx, formatID(s.course.ID))
	require.NoError(t, err)
	lessons := study.Merge(course.Modules[1])
	require.Len(t, lessons, 2)
	assert.Equal(t, study.KindPastPaper, lessons[0].Kind())
	assert.Equal(t, study.KindQuiz, lessons[1].Kind())
}

func TestUpdateOrderRejectsForeignItems(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())

	err := store.UpdateOrder(context.Background(), ordering.Bucket{
		Type:    ordering.TypeArticle,
		Scope:   formatID(s.paid.ID),
		Entries: []ordering.Entry{{ID: formatID(s.article.ID), Order: 0}},
	})
	assert.ErrorIs(t, err, ErrOrderItemMissing)

	var article courseModels.Article
	require.NoError(t, store.DB().First(&article, s.article.ID).Error)
	assert.Equal(t, 1, article.OrderIndex, "the transaction rolled back")
}

func TestUpdateOrderModules(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())
	ctx := context.Background()
	cid := formatID(s.course.ID)

	err := store.UpdateOrder(ctx, ordering.ModuleBuckets(cid, []string{formatID(s.paid.ID)})[0])
	assert.ErrorIs(t, err, ErrIncompleteOrder)

	bucket := ordering.ModuleBuckets(cid, []string{formatID(s.paid.ID), formatID(s.free.ID)})[0]
	require.NoError(t, store.UpdateOrder(ctx, bucket))

	course, err := store.CourseDetail(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, "Quant", course.Modules[0].Title)
	assert.Equal(t, "Basics", course.Modules[1].Title)
}

func TestUpdateOrderModulesRejectsTies(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())
	ctx := context.Background()
	cid := formatID(s.course.ID)

	err := store.UpdateOrder(ctx, ordering.Bucket{
		Type:    ordering.TypeModule,
		Scope:   cid,
		Entries: []ordering.Entry{{ID: formatID(s.paid.ID), Order: 3}, {ID: formatID(s.free.ID), Order: 3}},
	})
	assert.ErrorIs(t, err, ErrDuplicateOrder)

	// "0N" and "N" name the same module
	err = store.UpdateOrder(ctx, ordering.Bucket{
		Type:    ordering.TypeModule,
		Scope:   cid,
		Entries: []ordering.Entry{{ID: formatID(s.paid.ID), Order: 0}, {ID: "0" + formatID(s.paid.ID), Order: 1}},
	})
	assert.ErrorIs(t, err, ErrDuplicateOrder)

	var modules []courseModels.Module
	require.NoError(t, store.DB().Order("id").Find(&modules).Error)
	orders := []int{modules[0].OrderIndex, modules[1].OrderIndex}
	assert.ElementsMatch(t, []int{0, 1}, orders, "nothing was written")
}

func TestUpdateOrderLessonsMustCoverScope(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())
	ctx := context.Background()

	require.NoError(t, store.DB().Create(&courseModels.Article{ModuleID: s.free.ID, Title: "Tips", OrderIndex: 2}).Error)

	err := store.UpdateOrder(ctx, ordering.Bucket{
		Type:    ordering.TypeArticle,
		Scope:   formatID(s.free.ID),
		Entries: []ordering.Entry{{ID: formatID(s.article.ID), Order: 0}},
	})
	assert.ErrorIs(t, err, ErrIncompleteOrder)

	var article courseModels.Article
	require.NoError(t, store.DB().First(&article, s.article.ID).Error)
	assert.Equal(t, 1, article.OrderIndex, "the transaction rolled back")
}

func TestCountLessons(t *testing.T) {
	store := newTestStore(t)
	s := seed(t, store.DB())
	ctx := context.Background()

	n, err := store.CountLessons(ctx, s.free.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.DB().Model(&courseModels.Article{}).Where("id = ?", s.article.ID).Update("is_deleted", true).Error)
	n, err = store.CountLessons(ctx, s.free.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdateOrderUnknownType(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateOrder(context.Background(), ordering.Bucket{Type: "video", Scope: "1", Entries: []ordering.Entry{{ID: "1"}}})
	assert.ErrorIs(t, err, ordering.ErrUnknownType)
}
