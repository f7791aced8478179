package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/piresc/payon/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    string
		reason  string
	}{
		{name: "empty", comment: "", reason: msgCommentEmpty},
		{name: "whitespace only", comment: "   \t\n", reason: msgCommentEmpty},
		{name: "too long", comment: strings.Repeat("a", 501), reason: msgCommentTooLong},
		{name: "exactly at the limit", comment: strings.Repeat("a", 500), want: strings.Repeat("a", 500)},
		{name: "counted in characters", comment: strings.Repeat("é", 500), want: strings.Repeat("é", 500)},
		{name: "surrounding spaces are trimmed", comment: "  loyer mars  ", want: "loyer mars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateComment(tt.comment)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			var rej *models.CommentRejectedError
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tt.reason, rej.Reason)
			assert.False(t, rej.Remote)
		})
	}
}

func TestValidateComment_LengthIsMeasuredBeforeTrimming(t *testing.T) {
	_, err := ValidateComment(strings.Repeat("a", 499) + "  ")
	require.Error(t, err)
	assert.Equal(t, msgCommentTooLong, err.Error())
}
