package harvest_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := harvest.Errorf(harvest.ENOTFOUND, "run %q not found", "abc")

	assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	assert.Equal(t, `run "abc" not found`, harvest.ErrorMessage(err))
	assert.Equal(t, `harvest error: code=not_found message=run "abc" not found`, err.Error())
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("profile: %w", harvest.Errorf(harvest.EINVALID, "bad"))

	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	assert.Equal(t, "bad", harvest.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk full")

	assert.Equal(t, harvest.EINTERNAL, harvest.ErrorCode(err))
	assert.Equal(t, "Internal error.", harvest.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, harvest.ErrorCode(nil))
	assert.Empty(t, harvest.ErrorMessage(nil))
}
