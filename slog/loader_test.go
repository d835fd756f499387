package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/cdpchat"
	"github.com/fwojciec/cdpchat/mock"
	cdpslog "github.com/fwojciec/cdpchat/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCorpusLoader_LoadCorpus(t *testing.T) {
	t.Parallel()

	t.Run("logs location and bytes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CorpusLoader{
			LoadCorpusFn: func(context.Context, string) (string, error) {
				return "Segment docs", nil
			},
		}

		loader := cdpslog.NewLoggingCorpusLoader(inner, logger)
		text, err := loader.LoadCorpus(context.Background(), "docs/segment.txt")

		require.NoError(t, err)
		assert.Equal(t, "Segment docs", text)
		output := buf.String()
		assert.Contains(t, output, "load corpus")
		assert.Contains(t, output, "location=docs/segment.txt")
		assert.Contains(t, output, "bytes=12")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CorpusLoader{
			LoadCorpusFn: func(context.Context, string) (string, error) {
				return "", cdpchat.Errorf(cdpchat.ENOTFOUND, "missing")
			},
		}

		loader := cdpslog.NewLoggingCorpusLoader(inner, logger)
		_, err := loader.LoadCorpus(context.Background(), "docs/zeotap.txt")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=missing")
	})
}
