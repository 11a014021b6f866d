package lookup_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/suppfetch"
	"github.com/fwojciec/suppfetch/lookup"
	"github.com/fwojciec/suppfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSession hands out fakeBrowser pages only once release is closed, and
// reports every NewPage call on started.
func gatedSession(b *fakeBrowser, started chan<- struct{}, release <-chan struct{}) *mock.Session {
	inner := b.session()
	return &mock.Session{
		NewPageFn: func(ctx context.Context) (suppfetch.Page, error) {
			started <- struct{}{}
			select {
			case <-release:
			case <-ctx.Done():
				return nil, suppfetch.Errorf(suppfetch.ERESOURCE, "canceled: %v", ctx.Err())
			}
			return inner.NewPageFn(ctx)
		},
	}
}

type lookupOutcome struct {
	result *suppfetch.Result
	err    error
}

func lookupAsync(ctx context.Context, e *lookup.Engine, text string) <-chan lookupOutcome {
	out := make(chan lookupOutcome, 1)
	go func() {
		r, err := e.Lookup(ctx, &suppfetch.Query{Text: text})
		out <- lookupOutcome{r, err}
	}()
	return out
}

func TestEngine_Lookup_Shared(t *testing.T) {
	t.Parallel()

	t.Run("identical concurrent queries open one page", func(t *testing.T) {
		t.Parallel()

		b := &fakeBrowser{routes: map[string]route{
			entityURL("creatine"): {title: "Creatine", html: creatineHTML},
		}}
		started := make(chan struct{}, 4)
		release := make(chan struct{})
		e := &lookup.Engine{Session: gatedSession(b, started, release)}

		first := lookupAsync(context.Background(), e, "creatine")
		<-started
		second := lookupAsync(context.Background(), e, "creatine")
		time.Sleep(50 * time.Millisecond)
		close(release)

		for _, ch := range []<-chan lookupOutcome{first, second} {
			got := <-ch
			require.NoError(t, got.err)
			assert.True(t, got.result.Found())
		}
		assert.Len(t, started, 0)
		assert.Equal(t, 1, b.opened)
		assert.Equal(t, 1, b.closed)
	})

	t.Run("canceled caller does not fail the others", func(t *testing.T) {
		t.Parallel()

		b := &fakeBrowser{routes: map[string]route{
			entityURL("creatine"): {title: "Creatine", html: creatineHTML},
		}}
		started := make(chan struct{}, 4)
		release := make(chan struct{})
		e := &lookup.Engine{Session: gatedSession(b, started, release)}

		ctx, cancel := context.WithCancel(context.Background())
		first := lookupAsync(ctx, e, "creatine")
		<-started
		second := lookupAsync(context.Background(), e, "creatine")
		time.Sleep(50 * time.Millisecond)

		cancel()
		select {
		case got := <-first:
			require.ErrorIs(t, got.err, context.Canceled)
			assert.Nil(t, got.result)
		case <-time.After(5 * time.Second):
			t.Fatal("canceled caller kept waiting")
		}

		close(release)
		got := <-second
		require.NoError(t, got.err)
		require.NotNil(t, got.result)
		assert.True(t, got.result.Found())
		assert.Equal(t, 1, b.opened)
	})

	t.Run("shared visit is bounded by the engine timeout", func(t *testing.T) {
		t.Parallel()

		b := &fakeBrowser{}
		started := make(chan struct{}, 1)
		e := &lookup.Engine{
			Session: gatedSession(b, started, make(chan struct{})),
			Timeout: 20 * time.Millisecond,
		}

		_, err := e.Lookup(context.Background(), &suppfetch.Query{Text: "creatine"})

		require.Error(t, err)
		assert.Equal(t, suppfetch.ERESOURCE, suppfetch.ErrorCode(err))
		assert.Zero(t, b.opened)
	})
}

func TestEngine_Overview_Shared(t *testing.T) {
	t.Parallel()

	t.Run("canceled caller does not fail the others", func(t *testing.T) {
		t.Parallel()

		b := &fakeBrowser{routes: map[string]route{
			entityURL("creatine"): {title: "Creatine", html: creatineHTML},
		}}
		started := make(chan struct{}, 4)
		release := make(chan struct{})
		e := &lookup.Engine{
			Session: gatedSession(b, started, release),
			Extractors: []suppfetch.Extractor{&mock.Extractor{
				ExtractFn: func(html string) (*suppfetch.ExtractResult, error) {
					return &suppfetch.ExtractResult{Title: "Creatine", ContentHTML: "<p>Creatine</p>"}, nil
				},
			}},
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) { return "Creatine", nil },
			},
		}

		ctx, cancel := context.WithCancel(context.Background())
		firstErr := make(chan error, 1)
		go func() {
			_, err := e.Overview(ctx, &suppfetch.Query{Text: "creatine"})
			firstErr <- err
		}()
		<-started

		type outcome struct {
			o   *suppfetch.Overview
			err error
		}
		second := make(chan outcome, 1)
		go func() {
			o, err := e.Overview(context.Background(), &suppfetch.Query{Text: "creatine"})
			second <- outcome{o, err}
		}()
		time.Sleep(50 * time.Millisecond)

		cancel()
		require.ErrorIs(t, <-firstErr, context.Canceled)

		close(release)
		got := <-second
		require.NoError(t, got.err)
		assert.Equal(t, "Creatine", got.o.Markdown)
	})
}
