package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tutorhub/internal/domain"
)

func TestValidateID(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		id        string
		wantCount int
		wantCode  domain.ErrorCode
	}{
		{
			name:      "Valid ULID",
			id:        "01HN2K8G7QRXM4T9V6W3Y5Z8AB",
			wantCount: 0,
		},
		{
			name:      "Empty",
			id:        "",
			wantCount: 1,
			wantCode:  domain.CodeMissingField,
		},
		{
			name:      "Too short",
			id:        "01HN2K8G7Q",
			wantCount: 1,
			wantCode:  domain.CodeInvalidFormat,
		},
		{
			name:      "Invalid characters",
			id:        "01HN2K8G7QRXM4T9V6W3Y5Z8AI",
			wantCount: 1,
			wantCode:  domain.CodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateID("chat_id", tt.id)
			assert.Len(t, errs, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantCode, errs[0].Code)
				assert.Equal(t, "chat_id", errs[0].Field)
			}
		})
	}
}

func TestValidateQuizSpec(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		topic      string
		count      int
		difficulty string
		wantFields []string
	}{
		{
			name:       "Valid",
			topic:      "goroutines",
			count:      5,
			difficulty: domain.DifficultyMedium,
		},
		{
			name:       "Missing topic",
			topic:      "  ",
			count:      5,
			difficulty: domain.DifficultyEasy,
			wantFields: []string{"topic"},
		},
		{
			name:       "Count too large",
			topic:      "goroutines",
			count:      21,
			difficulty: domain.DifficultyEasy,
			wantFields: []string{"question_count"},
		},
		{
			name:       "Count zero",
			topic:      "goroutines",
			count:      0,
			difficulty: domain.DifficultyEasy,
			wantFields: []string{"question_count"},
		},
		{
			name:       "Unknown difficulty",
			topic:      "goroutines",
			count:      5,
			difficulty: "impossible",
			wantFields: []string{"difficulty"},
		},
		{
			name:       "Everything wrong",
			topic:      "",
			count:      -1,
			difficulty: "",
			wantFields: []string{"topic", "question_count", "difficulty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateQuizSpec(tt.topic, tt.count, tt.difficulty)
			assert.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
			}
		})
	}
}

func TestValidateQuizSubmission(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateQuizSubmission([]int{0, 3, 1}, 3))

	errs := v.ValidateQuizSubmission([]int{0, 1}, 3)
	assert.Len(t, errs, 1)
	assert.Equal(t, "answers", errs[0].Field)

	errs = v.ValidateQuizSubmission([]int{0, 4, 1}, 3)
	assert.Len(t, errs, 1)
	assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)

	errs = v.ValidateQuizSubmission([]int{-1, 0, 1}, 3)
	assert.Len(t, errs, 1)
}

func TestValidateSendMessage(t *testing.T) {
	v := NewValidator()

	chatID := "01HN2K8G7QRXM4T9V6W3Y5Z8AB"

	assert.Empty(t, v.ValidateSendMessage(chatID, "what is a channel?"))

	errs := v.ValidateSendMessage(chatID, "")
	assert.Len(t, errs, 1)
	assert.Equal(t, "content", errs[0].Field)

	errs = v.ValidateSendMessage(chatID, strings.Repeat("x", maxMessageLength+1))
	assert.Len(t, errs, 1)
	assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)

	errs = v.ValidateSendMessage("bad-id", "hello")
	assert.Len(t, errs, 1)
	assert.Equal(t, "chat_id", errs[0].Field)
}

func TestValidateSearchQuery(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateSearchQuery("rust ownership"))
	assert.Len(t, v.ValidateSearchQuery(""), 1)
	assert.Len(t, v.ValidateSearchQuery(strings.Repeat("q", maxQueryLength+1)), 1)
}
