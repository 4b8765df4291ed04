package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"examprep/logger"
	"examprep/models"
	courseModels "examprep/models/course"
	"examprep/study"

	"gorm.io/gorm"
)

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrIncompleteOrder  = errors.New("reorder list does not cover every item in scope")
	ErrOrderItemMissing = errors.New("reorder item not found in scope")
	ErrDuplicateOrder   = errors.New("reorder list repeats an item or order value")
)

// Store is the relational collaborator: it serves course detail and access status to study
// sessions and applies batched reorders.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func New(db *gorm.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log, now: time.Now}
}

// DB exposes the handle for callers that compose their own queries.
func (s *Store) DB() *gorm.DB { return s.db }

// CourseDetail loads a non-deleted course with its modules and their four collections.
func (s *Store) CourseDetail(ctx context.Context, courseID string) (study.Course, error) {
	id, err := parseID(courseID)
	if err != nil {
		return study.Course{}, err
	}
	db := s.db.WithContext(ctx)

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return study.Course{}, study.ErrCourseNotFound
		}
		return study.Course{}, fmt.Errorf("load course %d: %w", id, err)
	}

	var modules []courseModels.Module
	if err := db.Where("course_id = ? AND is_deleted = ?", id, false).Order("order_index asc, id asc").Find(&modules).Error; err != nil {
		return study.Course{}, fmt.Errorf("load modules: %w", err)
	}

	out := study.Course{
		ID:      formatID(course.ID),
		Title:   course.Title,
		Price:   course.Price,
		Modules: make([]study.Module, len(modules)),
	}
	if len(modules) == 0 {
		return out, nil
	}

	moduleIDs := make([]uint, len(modules))
	index := make(map[uint]int, len(modules))
	for i, m := range modules {
		moduleIDs[i] = m.ID
		index[m.ID] = i
		out.Modules[i] = study.Module{
			ID:          formatID(m.ID),
			Title:       m.Title,
			Description: m.Description,
			IsFree:      m.IsFree,
			Order:       m.OrderIndex,
		}
	}

	var articles []courseModels.Article
	if err := db.Where("module_id IN ? AND is_deleted = ?", moduleIDs, false).Order("id asc").Find(&articles).Error; err != nil {
		return study.Course{}, fmt.Errorf("load articles: %w", err)
	}
	for _, a := range articles {
		m := &out.Modules[index[a.ModuleID]]
		m.Articles = append(m.Articles, toArticle(a))
	}

	var questions []courseModels.Question
	if err := db.Where("module_id IN ? AND is_deleted = ?", moduleIDs, false).Order("id asc").Find(&questions).Error; err != nil {
		return study.Course{}, fmt.Errorf("load questions: %w", err)
	}
	for _, q := range questions {
		m := &out.Modules[index[q.ModuleID]]
		m.Questions = append(m.Questions, toQuestion(q))
	}

	var quizzes []courseModels.Quiz
	err = db.Where("module_id IN ? AND is_deleted = ?", moduleIDs, false).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_deleted = ?", false).Order("order_index asc, id asc")
		}).
		Order("id asc").Find(&quizzes).Error
	if err != nil {
		return study.Course{}, fmt.Errorf("load quizzes: %w", err)
	}
	for _, q := range quizzes {
		m := &out.Modules[index[q.ModuleID]]
		m.Quizzes = append(m.Quizzes, toQuiz(q))
	}

	var papers []courseModels.PastPaper
	if err := db.Where("module_id IN ? AND is_deleted = ?", moduleIDs, false).Order("id asc").Find(&papers).Error; err != nil {
		return study.Course{}, fmt.Errorf("load past papers: %w", err)
	}
	for _, p := range papers {
		m := &out.Modules[index[p.ModuleID]]
		m.PastPapers = append(m.PastPapers, toPastPaper(p))
	}

	return out, nil
}

// AccessStatus reports the viewer's enrollment and payment for a course.
func (s *Store) AccessStatus(ctx context.Context, courseID, userID string) (study.AccessStatus, error) {
	cid, err := parseID(courseID)
	if err != nil {
		return study.AccessStatus{}, err
	}
	uid, err := parseID(userID)
	if err != nil {
		return study.AccessStatus{}, err
	}
	db := s.db.WithContext(ctx)

	if err := s.courseExists(db, cid); err != nil {
		return study.AccessStatus{}, err
	}

	var enrollment courseModels.Enrollment
	err = db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", uid, cid, false).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return study.AccessStatus{}, nil
	}
	if err != nil {
		return study.AccessStatus{}, fmt.Errorf("load enrollment: %w", err)
	}
	return study.AccessStatus{IsEnrolled: true, HasPaid: enrollment.HasPaid}, nil
}

// Enroll is idempotent: an existing enrollment is left untouched.
func (s *Store) Enroll(ctx context.Context, courseID, userID string) error {
	cid, err := parseID(courseID)
	if err != nil {
		return err
	}
	uid, err := parseID(userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.courseExists(tx, cid); err != nil {
			return err
		}
		_, err := findOrCreateEnrollment(tx, uid, cid)
		return err
	})
}

// RecordPayment stores an already-verified payment and marks the enrollment paid,
// enrolling the user when needed.
func (s *Store) RecordPayment(ctx context.Context, p *models.CoursePayment) error {
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}
	if p.Status == "" {
		p.Status = models.PaymentStatusCompleted
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.courseExists(tx, p.CourseID); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		enrollment, err := findOrCreateEnrollment(tx, p.UserID, p.CourseID)
		if err != nil {
			return err
		}
		paidAt := p.PaidAt
		return tx.Model(enrollment).Updates(map[string]interface{}{"has_paid": true, "paid_at": &paidAt}).Error
	})
}

// NextModuleOrder is the order index a new module receives: MAX+1 within the course.
func (s *Store) NextModuleOrder(ctx context.Context, courseID uint) (int, error) {
	var maxOrder int
	err := s.db.WithContext(ctx).Model(&courseModels.Module{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Select("COALESCE(MAX(order_index), -1)").Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

// NextLessonOrder is MAX+1 across all four collections of a module, so a new lesson lands last.
func (s *Store) NextLessonOrder(ctx context.Context, moduleID uint) (int, error) {
	db := s.db.WithContext(ctx)
	next := 0
	for _, model := range []interface{}{&courseModels.Article{}, &courseModels.Question{}, &courseModels.Quiz{}, &courseModels.PastPaper{}} {
		var maxOrder int
		err := db.Model(model).Where("module_id = ? AND is_deleted = ?", moduleID, false).
			Select("COALESCE(MAX(order_index), -1)").Scan(&maxOrder).Error
		if err != nil {
			return 0, err
		}
		if maxOrder+1 > next {
			next = maxOrder + 1
		}
	}
	return next, nil
}

// SoftDeleteModule flags a module and every lesson in it as deleted.
func (s *Store) SoftDeleteModule(ctx context.Context, courseID, moduleID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&courseModels.Module{}).
			Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var quizIDs []uint
		if err := tx.Model(&courseModels.Quiz{}).Where("module_id = ?", moduleID).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := tx.Model(&courseModels.QuizQuestion{}).Where("quiz_id IN ?", quizIDs).Update("is_deleted", true).Error; err != nil {
				return err
			}
		}
		for _, model := range []interface{}{&courseModels.Article{}, &courseModels.Question{}, &courseModels.Quiz{}, &courseModels.PastPaper{}} {
			if err := tx.Model(model).Where("module_id = ?", moduleID).Update("is_deleted", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) courseExists(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&courseModels.Course{}).Where("id = ? AND is_deleted = ?", id, false).Count(&count).Error; err != nil {
		return fmt.Errorf("check course %d: %w", id, err)
	}
	if count == 0 {
		return study.ErrCourseNotFound
	}
	return nil
}

func findOrCreateEnrollment(tx *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if err == nil {
		return &enrollment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	enrollment = courseModels.Enrollment{UserID: userID, CourseID: courseID, Status: "ENROLLED"}
	if err := tx.Create(&enrollment).Error; err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return &enrollment, nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return uint(id), nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
