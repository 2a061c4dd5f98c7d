package arenatree

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustGetReturnsKeyNotFound(t *testing.T) {
	tr, _ := New[int, string](4)
	tr.Insert(1, "a")

	v, err := tr.MustGet(1)
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	_, err = tr.MustGet(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestNewInvalidCapacityWraps(t *testing.T) {
	_, err := New[int, int](1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCapacity))
}
