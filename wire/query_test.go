package wire

import (
	"encoding/binary"
	"testing"

	bson "github.com/blep/gobsonwire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryBasic(t *testing.T) {
	query := bson.NewDocumentFromPairs("status", bson.String("active"))
	reqID, out, maxSize, err := BuildQuery(QueryFlagSlaveOK, "db.c", 0, 100, query, nil, false)
	require.NoError(t, err)
	assert.NotZero(t, reqID)

	assert.Equal(t, []byte{0xd4, 0x07, 0x00, 0x00}, out[12:16])
	gotFlags := binary.LittleEndian.Uint32(out[16:20])
	assert.Equal(t, uint32(QueryFlagSlaveOK), gotFlags)

	encodedQuery, err := bson.Encode(query, false)
	require.NoError(t, err)
	assert.Equal(t, len(encodedQuery), maxSize)
}

func TestBuildQueryWithFieldSelector(t *testing.T) {
	query := bson.NewDocumentFromPairs("a", bson.Int32(1))
	fields := bson.NewDocumentFromPairs("a", bson.Int32(1), "b", bson.Int32(1), "c", bson.Int32(1))

	_, out, maxSize, err := BuildQuery(0, "db.c", 5, 20, query, fields, false)
	require.NoError(t, err)

	fieldsBytes, err := bson.Encode(fields, false)
	require.NoError(t, err)
	assert.Equal(t, len(fieldsBytes), maxSize, "selector doc is larger, so it should set max size")
	assert.Contains(t, string(out), "db.c")
}
