package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/piresc/payon/internal/pkg/models"
)

// MaxCommentLength is the longest accepted comment, in characters
const MaxCommentLength = 500

const (
	msgCommentEmpty   = "Le commentaire ne peut pas être vide"
	msgCommentTooLong = "Le commentaire est trop long (max 500 caractères)"
)

var commentValidator = validator.New()

// ValidateComment checks a comment before any network call and returns it
// trimmed. Length is counted in characters on the text as typed.
func ValidateComment(comment string) (string, error) {
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return "", &models.CommentRejectedError{Reason: msgCommentTooLong}
	}

	trimmed := strings.TrimSpace(comment)
	if err := commentValidator.Var(trimmed, "required"); err != nil {
		return "", &models.CommentRejectedError{Reason: msgCommentEmpty}
	}
	return trimmed, nil
}
