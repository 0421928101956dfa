package bson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSetAppendGet(t *testing.T) {
	doc := NewDocument()
	doc.Set("a", Int32(1))
	doc.Set("b", String("x"))
	require.Equal(t, 2, doc.Len())

	v, ok := doc.Get("a")
	require.True(t, ok)
	assert.Equal(t, Int32(1), v)

	_, ok = doc.Get("missing")
	assert.False(t, ok)
}

func TestDocumentSetOverwritesInPlace(t *testing.T) {
	doc := NewDocument()
	doc.Set("a", Int32(1))
	doc.Set("b", Int32(2))
	doc.Set("a", Int32(99))

	require.Equal(t, 2, doc.Len())
	k, v, ok := doc.At(0)
	require.True(t, ok)
	assert.Equal(t, "a", k)
	assert.Equal(t, Int32(99), v)
}

func TestDocumentDeleteReindexes(t *testing.T) {
	doc := NewDocument()
	doc.Set("a", Int32(1))
	doc.Set("b", Int32(2))
	doc.Set("c", Int32(3))
	doc.Delete("b")

	require.Equal(t, 2, doc.Len())
	assert.False(t, doc.Has("b"))
	v, ok := doc.Get("c")
	require.True(t, ok)
	assert.Equal(t, Int32(3), v)

	k, _, ok := doc.At(1)
	require.True(t, ok)
	assert.Equal(t, "c", k)
}

func TestDocumentKeysPreservesOrder(t *testing.T) {
	doc := NewDocumentFromPairs("z", Int32(1), "a", Int32(2), "m", Int32(3))
	assert.Equal(t, []string{"z", "a", "m"}, doc.Keys())
}

func TestNewDocumentFromPairsPanicsOnOddArgs(t *testing.T) {
	assert.Panics(t, func() {
		NewDocumentFromPairs("a", Int32(1), "b")
	})
}

func TestNewDocumentFromPairsPanicsOnNonStringKey(t *testing.T) {
	assert.Panics(t, func() {
		NewDocumentFromPairs(Int32(1), Int32(2))
	})
}

func TestDocumentEqual(t *testing.T) {
	a := NewDocumentFromPairs("a", Int32(1), "b", String("x"))
	b := NewDocumentFromPairs("a", Int32(1), "b", String("x"))
	c := NewDocumentFromPairs("b", String("x"), "a", Int32(1))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "order matters for Equal")
}

func TestDocumentEqualNested(t *testing.T) {
	a := NewDocumentFromPairs("inner", NewDocumentFromPairs("x", Int32(1)))
	b := NewDocumentFromPairs("inner", NewDocumentFromPairs("x", Int32(1)))
	assert.True(t, a.Equal(b))
}

func TestDocumentEqualArray(t *testing.T) {
	a := NewDocumentFromPairs("arr", Array{Int32(1), String("x")})
	b := NewDocumentFromPairs("arr", Array{Int32(1), String("x")})
	c := NewDocumentFromPairs("arr", Array{Int32(1), String("y")})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
