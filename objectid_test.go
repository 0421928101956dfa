package bson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectIDCounterIncreases(t *testing.T) {
	id0 := NewObjectID()
	id1 := NewObjectID()
	assert.NotEqual(t, id0, id1)

	c0 := uint32(id0[9])<<16 | uint32(id0[10])<<8 | uint32(id0[11])
	c1 := uint32(id1[9])<<16 | uint32(id1[10])<<8 | uint32(id1[11])
	assert.Equal(t, (c0+1)&0x00FFFFFF, c1)
}

func TestObjectIDHexRoundTrip(t *testing.T) {
	id := NewObjectID()
	hex := id.Hex()
	assert.Len(t, hex, 24)

	parsed, err := ObjectIDFromHex(hex)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestObjectIDFromHexInvalid(t *testing.T) {
	_, err := ObjectIDFromHex("not-hex")
	assert.Error(t, err)

	_, err = ObjectIDFromHex("aabbcc")
	assert.Error(t, err, "too short")
}

func TestObjectIDString(t *testing.T) {
	id := NewObjectID()
	assert.Equal(t, id.Hex(), id.String())
}
