package container_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomdi/loom/container"
)

// ── State machine ─────────────────────────────────────────────────────────────

func TestContainer_UninitializedRejectsEverything(t *testing.T) {
	t.Parallel()

	c := container.New()
	assert.False(t, c.Started())
	assert.False(t, c.Closed())
	assert.Nil(t, c.Registry())

	_, err := c.Get(container.KeyOf[*widget]())
	assert.ErrorIs(t, err, container.ErrNotStarted)

	_, err = c.CreateScope("early")
	assert.ErrorIs(t, err, container.ErrNotStarted)

	assert.ErrorIs(t, c.Close(), container.ErrNotStarted)
}

func TestContainer_StartMovesToStarted(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.Start(container.NewModule("app", singleOf(&widget{n: 7}))))
	defer c.Close()

	assert.True(t, c.Started())
	assert.False(t, c.Closed())

	w, err := container.Resolve[*widget](c)
	require.NoError(t, err)
	assert.Equal(t, 7, w.n)
}

func TestContainer_StartTwiceFails(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.Start())
	defer c.Close()

	assert.ErrorIs(t, c.Start(), container.ErrAlreadyStarted)
}

func TestContainer_CloseIsTerminal(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.Start(container.NewModule("app", singleOf(&widget{n: 1}))))
	require.NoError(t, c.Close())

	assert.True(t, c.Closed())
	assert.False(t, c.Started())

	_, err := c.Get(container.KeyOf[*widget]())
	assert.ErrorIs(t, err, container.ErrContainerClosed)

	_, err = c.CreateScope("late")
	assert.ErrorIs(t, err, container.ErrContainerClosed)

	assert.ErrorIs(t, c.Start(), container.ErrContainerClosed)
	assert.ErrorIs(t, c.Close(), container.ErrContainerClosed)
}

func TestContainer_FailedStartLeavesItRetryable(t *testing.T) {
	t.Parallel()

	clash := container.NewModule("clash",
		singleOf("one", container.Qualified("dup")),
		singleOf("two", container.Qualified("dup")),
	)

	c := container.New()
	err := c.Start(clash)
	require.Error(t, err)

	var dup container.DuplicateKeyError
	require.True(t, errors.As(err, &dup))

	// Nothing was installed.
	assert.False(t, c.Started())
	assert.Nil(t, c.Registry())

	// Retrying with fixed modules succeeds.
	fixed := container.NewModule("fixed", singleOf("one", container.Qualified("dup")))
	require.NoError(t, c.Start(fixed))
	defer c.Close()

	got, err := container.ResolveNamed[string](c, "dup")
	require.NoError(t, err)
	assert.Equal(t, "one", got)
}

func TestContainer_StartCollectsAllRegistrationErrors(t *testing.T) {
	t.Parallel()

	bad := container.NewModule("bad",
		singleOf("a", container.Qualified("x")),
		singleOf("b", container.Qualified("x")),
		container.Single[*widget](nil),
	)

	err := container.New().Start(bad)
	require.Error(t, err)

	var dup container.DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
	var invalid container.InvalidDefinitionError
	assert.True(t, errors.As(err, &invalid))
}

// ── Self binding ──────────────────────────────────────────────────────────────

func TestContainer_ResolvesItself(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.Start())
	defer c.Close()

	got, err := container.Resolve[*container.Container](c)
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestContainer_SelfKeyIsReserved(t *testing.T) {
	t.Parallel()

	hijack := container.NewModule("hijack",
		container.Single(func(*container.Injector) (*container.Container, error) {
			return container.New(), nil
		}),
	)

	err := container.New().Start(hijack)
	require.Error(t, err)

	var dup container.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, container.KeyOf[*container.Container](), dup.Key)
}

// ── Registry sealing ──────────────────────────────────────────────────────────

func TestContainer_RegistrySealedAfterStart(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.Start(container.NewModule("app", singleOf(&widget{n: 1}))))
	defer c.Close()

	reg := c.Registry()
	require.NotNil(t, reg)
	assert.True(t, reg.Sealed())

	err := reg.Register(singleOf("late", container.Qualified("late")))
	assert.ErrorIs(t, err, container.ErrRegistrySealed)
}

// ── Logging ───────────────────────────────────────────────────────────────────

func TestContainer_WithLoggerEmitsLifecycleEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := container.New(container.WithLogger(log))
	require.NoError(t, c.Start(container.NewModule("app", singleOf(&widget{n: 1}))))

	_, err := container.Resolve[*widget](c)
	require.NoError(t, err)

	scope, err := c.CreateScope("req")
	require.NoError(t, err)
	require.NoError(t, scope.Close())
	require.NoError(t, c.Close())

	out := buf.String()
	assert.Contains(t, out, "container started")
	assert.Contains(t, out, "instance built")
	assert.Contains(t, out, "scope opened")
	assert.Contains(t, out, "scope closed")
	assert.Contains(t, out, "container closed")
}
