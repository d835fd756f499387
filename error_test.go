package cdpchat_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/cdpchat"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := cdpchat.Errorf(cdpchat.ENOTFOUND, "corpus %q not found", "docs/segment.txt")

	assert.Equal(t, cdpchat.ENOTFOUND, cdpchat.ErrorCode(err))
	assert.Equal(t, "corpus \"docs/segment.txt\" not found", cdpchat.ErrorMessage(err))
	assert.Equal(t, "corpus \"docs/segment.txt\" not found", err.Error())
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns empty for nil error", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, cdpchat.ErrorCode(nil))
	})

	t.Run("returns internal for foreign errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, cdpchat.EINTERNAL, cdpchat.ErrorCode(errors.New("boom")))
	})

	t.Run("unwraps wrapped application errors", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("loading: %w", cdpchat.Errorf(cdpchat.EUNAVAILABLE, "no key"))

		assert.Equal(t, cdpchat.EUNAVAILABLE, cdpchat.ErrorCode(err))
		assert.Equal(t, "no key", cdpchat.ErrorMessage(err))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns empty for nil error", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, cdpchat.ErrorMessage(nil))
	})

	t.Run("returns text of foreign errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "model overloaded", cdpchat.ErrorMessage(errors.New("model overloaded")))
	})
}
