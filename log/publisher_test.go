package log_test

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkingbob/json-builder-app/log"
)

func TestNewPublisher(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts    []log.PublisherOption
		wantCap int
	}{
		"default buffer size": {
			opts:    nil,
			wantCap: 16,
		},
		"custom buffer size": {
			opts:    []log.PublisherOption{log.WithBufferSize(128)},
			wantCap: 128,
		},
		"clamp zero to one": {
			opts:    []log.PublisherOption{log.WithBufferSize(0)},
			wantCap: 1,
		},
		"clamp negative to one": {
			opts:    []log.PublisherOption{log.WithBufferSize(-5)},
			wantCap: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pub := log.NewPublisher(tc.opts...)

			sub := pub.Subscribe()
			defer sub.Close()

			assert.Equal(t, tc.wantCap, cap(sub.C()))
		})
	}
}

func TestPublisherWrite(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()

	subs := []*log.Subscription{pub.Subscribe(), pub.Subscribe()}

	buf := []byte("hello\n")
	n, err := pub.Write(buf)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	buf[0] = 'X'

	for _, sub := range subs {
		assert.Equal(t, "hello", <-sub.C(), "entries are trimmed copies")
	}
}

func TestPublisherDropsOldest(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher(log.WithBufferSize(2))
	sub := pub.Subscribe()

	for _, s := range []string{"a", "b", "c", "d"} {
		_, err := pub.Write([]byte(s))
		require.NoError(t, err)
	}

	assert.Equal(t, "c", <-sub.C())
	assert.Equal(t, "d", <-sub.C())
}

func TestSubscriptionClose(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	sub := pub.Subscribe()
	other := pub.Subscribe()

	sub.Close()
	sub.Close()

	_, open := <-sub.C()
	assert.False(t, open)

	_, err := pub.Write([]byte("still delivered"))
	require.NoError(t, err)
	assert.Equal(t, "still delivered", <-other.C())
}

func TestPublisherClose(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	sub := pub.Subscribe()

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())

	_, open := <-sub.C()
	assert.False(t, open)

	n, err := pub.Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	sub.Close()

	late := pub.Subscribe()
	_, open = <-late.C()
	assert.False(t, open, "subscription from closed publisher should have closed channel")
}

func TestPublisherConcurrency(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher(log.WithBufferSize(8))

	var wg sync.WaitGroup

	for range 5 {
		wg.Go(func() {
			for range 100 {
				//nolint:errcheck // Write always returns nil.
				pub.Write([]byte("data"))
			}
		})
	}

	for range 5 {
		wg.Go(func() {
			sub := pub.Subscribe()
			for range 20 {
				select {
				case <-sub.C():
				default:
				}
			}

			sub.Close()
		})
	}

	wg.Wait()
	require.NoError(t, pub.Close())
}

func TestPublisherWithHandler(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	t.Cleanup(func() { require.NoError(t, pub.Close()) })

	sub := pub.Subscribe()

	logger := slog.New(log.NewHandler(pub, log.LevelInfo, log.FormatJSON))
	logger.Info("hello from publisher", slog.String("key", "value"))

	got := <-sub.C()
	assert.Contains(t, got, "hello from publisher")
	assert.Contains(t, got, `"key":"value"`)
}
