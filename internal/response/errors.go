package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidIndex   ErrCode = "INVALID_INDEX"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrCourseNotFound  ErrCode = "COURSE_NOT_FOUND"
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"
	ErrDraftNotFound   ErrCode = "DRAFT_NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Assessment-specific ───────────────────────────────────────────
	ErrAssessmentCompleted    ErrCode = "ASSESSMENT_COMPLETED"
	ErrAssessmentNotCompleted ErrCode = "ASSESSMENT_NOT_COMPLETED"
	ErrQuestionAlreadyChecked ErrCode = "QUESTION_ALREADY_CHECKED"
	ErrQuestionNotChecked     ErrCode = "QUESTION_NOT_CHECKED"
	ErrUnknownAnswer          ErrCode = "UNKNOWN_ANSWER"
	ErrNoQuestions            ErrCode = "NO_QUESTIONS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidIndex:
		return "Question index is out of range."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrCourseNotFound:
		return "Certification not found."
	case ErrSessionNotFound:
		return "Assessment session not found or expired."
	case ErrDraftNotFound:
		return "Draft not found or expired."
	case ErrConflict:
		return "Resource already exists."
	case ErrActionForbidden:
		return "This action is not allowed."

	// ─── Assessment-specific ───────────────────────────────────────────
	case ErrAssessmentCompleted:
		return "The assessment is already completed."
	case ErrAssessmentNotCompleted:
		return "The assessment is not completed yet."
	case ErrQuestionAlreadyChecked:
		return "This question has already been checked."
	case ErrQuestionNotChecked:
		return "Check the answer before moving to the next question."
	case ErrUnknownAnswer:
		return "The answer does not belong to the current question."
	case ErrNoQuestions:
		return "No questions found."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
