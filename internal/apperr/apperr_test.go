package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsMatchTheirKind(t *testing.T) {
	wrapped := fmt.Errorf("update comment: %w", NotFound("comment", 7))

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrForbidden)

	var nf *NotFoundError
	require.True(t, errors.As(wrapped, &nf))
	assert.Equal(t, "comment", nf.Entity)
	assert.Equal(t, int64(7), nf.ID)
	assert.Equal(t, "comment 7 not found", nf.Error())
}

func TestEmailDuplicationCarriesEmail(t *testing.T) {
	err := error(EmailDuplication("a@x.com"))

	assert.ErrorIs(t, err, ErrEmailDuplication)
	assert.Contains(t, err.Error(), "a@x.com")
}

func TestValidationCarriesField(t *testing.T) {
	err := error(Validation("userId", "must match the authenticated user"))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "userId", ve.Field)
	assert.ErrorIs(t, err, ErrValidation)
}
