package bsonbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSpaceOffsetStableAcrossGrowth(t *testing.T) {
	buf := New()
	off, err := buf.SaveSpace(4)
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	// Grow the buffer past its initial capacity many times over.
	for i := 0; i < 10_000; i++ {
		_, err := buf.Write([]byte{byte(i)})
		require.NoError(t, err)
	}

	buf.PatchUint32(off, 0xAABBCCDD)
	assert.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA}, buf.Data()[0:4])
}

func TestPositionTracksLength(t *testing.T) {
	buf := New()
	assert.Equal(t, 0, buf.Position())
	_, _ = buf.Write([]byte("hello"))
	assert.Equal(t, 5, buf.Position())
	off, _ := buf.SaveSpace(4)
	assert.Equal(t, 5, off)
	assert.Equal(t, 9, buf.Position())
}

func TestWriteCString(t *testing.T) {
	buf := New()
	require.NoError(t, buf.WriteCString("admin.$cmd"))
	assert.Equal(t, append([]byte("admin.$cmd"), 0x00), buf.Data())
}

func TestFreeClearsData(t *testing.T) {
	buf := New()
	_, _ = buf.Write([]byte("x"))
	buf.Free()
	assert.Equal(t, 0, buf.Position())
}
