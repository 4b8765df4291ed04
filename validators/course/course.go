package courseValidator

import (
	"examprep/validators"

	"github.com/gofiber/fiber/v2"
)

// CourseList validates the public catalogue query
func CourseList() fiber.Handler {
	return validators.Query("validatedCourseList", func() interface{} { return new(CourseListQuery) })
}

// CourseID checks the :id param
func CourseID() fiber.Handler {
	return validators.ParamIDs("id")
}

// EnrollmentList validates the pagination of the caller's enrollments
func EnrollmentList() fiber.Handler {
	return validators.Query("validatedEnrollmentList", func() interface{} { return new(validators.Page) })
}
