package study

import (
	"context"
	"errors"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNotSignedIn    = errors.New("sign in required")
)

// Source is the data-fetching collaborator behind a study session.
type Source interface {
	// CourseDetail returns the course with every module and its four raw collections.
	CourseDetail(ctx context.Context, courseID string) (Course, error)
	// AccessStatus reports enrollment and payment for one viewer of one course.
	AccessStatus(ctx context.Context, courseID, userID string) (AccessStatus, error)
	Enroll(ctx context.Context, courseID, userID string) error
}
