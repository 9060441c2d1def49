package validation

import (
	"regexp"
	"strings"

	"tutorhub/internal/domain"
)

const (
	maxTopicLength   = 200
	maxQueryLength   = 500
	maxMessageLength = 4000
	maxTitleLength   = 120
	maxQuestionCount = 20
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateID checks a path parameter that must be a ULID.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !isValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError(field, id))
	}

	return errors
}

// ValidateSendMessage validates a chat message request.
func (v *Validator) ValidateSendMessage(chatID, content string) domain.ValidationErrors {
	errors := v.ValidateID("chat_id", chatID)

	if strings.TrimSpace(content) == "" {
		errors = append(errors, domain.NewMissingFieldError("content"))
	} else if len(content) > maxMessageLength {
		errors = append(errors, domain.NewOutOfRangeError("content", len(content), 1, maxMessageLength))
	}

	return errors
}

// ValidateChatTitle validates a chat rename request.
func (v *Validator) ValidateChatTitle(title string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(title) == "" {
		errors = append(errors, domain.NewMissingFieldError("title"))
	} else if len(title) > maxTitleLength {
		errors = append(errors, domain.NewOutOfRangeError("title", len(title), 1, maxTitleLength))
	}

	return errors
}

// ValidateQuizSpec validates a quiz generation request.
func (v *Validator) ValidateQuizSpec(topic string, questionCount int, difficulty string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(topic) == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	} else if len(topic) > maxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", len(topic), 1, maxTopicLength))
	}

	if questionCount <= 0 || questionCount > maxQuestionCount {
		errors = append(errors, domain.NewOutOfRangeError("question_count", questionCount, 1, maxQuestionCount))
	}

	if !domain.IsValidDifficulty(difficulty) {
		errors = append(errors, domain.NewInvalidFormatError("difficulty", difficulty))
	}

	return errors
}

// ValidateQuizSubmission validates submitted answers against the question count.
func (v *Validator) ValidateQuizSubmission(answers []int, questionCount int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(answers) != questionCount {
		errors = append(errors, domain.NewOutOfRangeError("answers", len(answers), questionCount, questionCount))
		return errors
	}

	for _, a := range answers {
		if a < 0 || a >= domain.OptionsPerQuestion {
			errors = append(errors, domain.NewOutOfRangeError("answers", a, 0, domain.OptionsPerQuestion-1))
			return errors
		}
	}

	return errors
}

// ValidateSearchQuery validates a resource search request.
func (v *Validator) ValidateSearchQuery(query string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(query) == "" {
		errors = append(errors, domain.NewMissingFieldError("query"))
	} else if len(query) > maxQueryLength {
		errors = append(errors, domain.NewOutOfRangeError("query", len(query), 1, maxQueryLength))
	}

	return errors
}

// ValidateRoadmapTopic validates a roadmap generation request.
func (v *Validator) ValidateRoadmapTopic(topic string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(topic) == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	} else if len(topic) > maxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", len(topic), 1, maxTopicLength))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
