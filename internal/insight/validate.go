package insight

import (
	"strings"

	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

// Required identity fields, checked in a fixed order so the first missing one
// is the one reported.
var identityChecks = []struct {
	field   string
	message string
	value   func(predict.StudentMetrics) string
}{
	{"studentName", "student name is required", func(m predict.StudentMetrics) string { return m.StudentName }},
	{"studentId", "student id is required", func(m predict.StudentMetrics) string { return m.StudentID }},
	{"gradeLevel", "grade level is required", func(m predict.StudentMetrics) string { return m.GradeLevel }},
	{"subject", "subject is required", func(m predict.StudentMetrics) string { return m.Subject }},
}

// ValidateSubmission guards the scoring path: identity fields must be present
// and the numeric inputs must sit inside the engine's declared domain. On the
// first failure a ValidationError is returned and scoring is never invoked.
func ValidateSubmission(m predict.StudentMetrics) error {
	for _, c := range identityChecks {
		if strings.TrimSpace(c.value(m)) == "" {
			return NewValidationError(c.field, c.message)
		}
	}
	switch {
	case m.Attendance < 0 || m.Attendance > 100:
		return NewValidationError("attendance", "attendance must be between 0 and 100")
	case m.TestScore < 0 || m.TestScore > 100:
		return NewValidationError("testScore", "test score must be between 0 and 100")
	case m.AssignmentScore < 0 || m.AssignmentScore > 100:
		return NewValidationError("assignmentScore", "assignment score must be between 0 and 100")
	case m.Engagement < 1 || m.Engagement > 4:
		return NewValidationError("engagement", "engagement must be between 1 and 4")
	case m.MissedDeadlines < 0:
		return NewValidationError("missedDeadlines", "missed deadlines cannot be negative")
	case m.StudyHours < 0:
		return NewValidationError("studyHours", "study hours cannot be negative")
	}
	return nil
}
