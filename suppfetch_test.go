package suppfetch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/suppfetch"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := suppfetch.Errorf(suppfetch.ENOTFOUND, "supplement %q not found", "creatine")

	assert.Equal(t, suppfetch.ENOTFOUND, suppfetch.ErrorCode(err))
	assert.Equal(t, "supplement \"creatine\" not found", suppfetch.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("navigating: %w", suppfetch.Errorf(suppfetch.ENAVIGATION, "timed out"))

	assert.Equal(t, suppfetch.ENAVIGATION, suppfetch.ErrorCode(err))
	assert.Equal(t, "timed out", suppfetch.ErrorMessage(err))
}

func TestErrorCode_ForeignError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, suppfetch.EINTERNAL, suppfetch.ErrorCode(err))
	assert.Equal(t, "Internal error.", suppfetch.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, suppfetch.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, suppfetch.ErrorMessage(nil))
}
