package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomdi/loom/container"
)

type widget struct{ n int }

type Renderer interface{ Render() string }

func TestKeyOf_DerivesPackageQualifiedNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "*container_test.widget", container.KeyOf[*widget]().String())
	assert.Equal(t, "container_test.Renderer", container.KeyOf[Renderer]().String())
	assert.Equal(t, "string", container.KeyOf[string]().String())
}

func TestKey_QualifiedIsADistinctKey(t *testing.T) {
	t.Parallel()

	base := container.KeyOf[*widget]()
	hot := base.Qualified("hot")

	assert.NotEqual(t, base, hot)
	assert.Equal(t, "hot", hot.Qualifier())
	assert.Equal(t, base.Type(), hot.Type())
	assert.Equal(t, "*container_test.widget#hot", hot.String())

	// Qualified copies; the receiver is untouched.
	assert.Equal(t, "", base.Qualifier())
}

func TestKey_IsZero(t *testing.T) {
	t.Parallel()

	var zero container.Key
	assert.True(t, zero.IsZero())
	assert.False(t, container.KeyOf[*widget]().IsZero())
}
