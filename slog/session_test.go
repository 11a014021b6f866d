package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/suppfetch"
	"github.com/fwojciec/suppfetch/mock"
	supslog "github.com/fwojciec/suppfetch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingSession_NewPage(t *testing.T) {
	t.Parallel()

	t.Run("logs allocation failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Session{
			NewPageFn: func(_ context.Context) (suppfetch.Page, error) {
				return nil, suppfetch.Errorf(suppfetch.ERESOURCE, "browser session closed")
			},
		}

		session := supslog.NewLoggingSession(inner, debugLogger(&buf))
		_, err := session.NewPage(context.Background())

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "page allocation")
		assert.Contains(t, output, "browser session closed")
	})

	t.Run("logs navigation and snapshot of wrapped page", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		closed := false
		inner := &mock.Session{
			NewPageFn: func(_ context.Context) (suppfetch.Page, error) {
				return &mock.Page{
					NavigateFn: func(_ context.Context, _ string) error {
						return errors.New("net::ERR_NAME_NOT_RESOLVED")
					},
					SnapshotFn: func(_ context.Context) (*suppfetch.Snapshot, error) {
						return &suppfetch.Snapshot{HTML: "<html></html>"}, nil
					},
					CloseFn: func() error {
						closed = true
						return nil
					},
				}, nil
			},
		}

		session := supslog.NewLoggingSession(inner, debugLogger(&buf))
		page, err := session.NewPage(context.Background())
		require.NoError(t, err)

		err = page.Navigate(context.Background(), "https://examine.com/supplements/creatine/")
		require.Error(t, err)
		_, err = page.Snapshot(context.Background())
		require.NoError(t, err)
		require.NoError(t, page.Close())

		output := buf.String()
		assert.Contains(t, output, "msg=navigate")
		assert.Contains(t, output, "url=https://examine.com/supplements/creatine/")
		assert.Contains(t, output, "ERR_NAME_NOT_RESOLVED")
		assert.Contains(t, output, "msg=snapshot")
		assert.Contains(t, output, "bytes=13")
		assert.True(t, closed)
	})

	t.Run("stays quiet above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Session{
			NewPageFn: func(_ context.Context) (suppfetch.Page, error) {
				return &mock.Page{
					NavigateFn: func(_ context.Context, _ string) error { return nil },
				}, nil
			},
		}

		session := supslog.NewLoggingSession(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		page, err := session.NewPage(context.Background())
		require.NoError(t, err)
		require.NoError(t, page.Navigate(context.Background(), "https://examine.com/"))

		assert.Empty(t, buf.String())
	})
}
