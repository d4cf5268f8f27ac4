package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrSkillNotFound        = errors.New("skill not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrLearningPathNotFound = errors.New("learning path not found")
	ErrModuleNotFound       = errors.New("module not found")

	ErrAssessmentComplete   = errors.New("assessment already completed")
	ErrAssessmentIncomplete = errors.New("assessment not completed yet")
	ErrInvalidQuestionStep  = errors.New("question is not the pending question of this assessment")

	ErrInvalidInput     = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
)

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrSubjectNotFound, ErrSkillNotFound, ErrQuestionNotFound,
		ErrAssessmentNotFound, ErrLearningPathNotFound, ErrModuleNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsInvalidState reports whether err rejects an operation on the current state.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrAssessmentComplete) ||
		errors.Is(err, ErrAssessmentIncomplete) ||
		errors.Is(err, ErrInvalidQuestionStep)
}
