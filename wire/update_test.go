package wire

import (
	"encoding/binary"
	"testing"

	bson "github.com/blep/gobsonwire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateFlags(t *testing.T) {
	selector := bson.NewDocumentFromPairs("_id", bson.Int32(1))
	update := bson.NewDocumentFromPairs("$set", bson.NewDocumentFromPairs("x", bson.Int32(2)))

	_, out, _, err := BuildUpdate("db.c", true, true, selector, update, false, false, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xd1, 0x07, 0x00, 0x00}, out[12:16])

	collEnd := headerLen + 4 + len("db.c") + 1
	gotFlags := binary.LittleEndian.Uint32(out[collEnd : collEnd+4])
	assert.Equal(t, uint32(UpdateFlagUpsert|UpdateFlagMulti), gotFlags)
}

func TestBuildUpdateSafeModeSharesRequestID(t *testing.T) {
	selector := bson.NewDocumentFromPairs("_id", bson.Int32(1))
	update := bson.NewDocumentFromPairs("$set", bson.NewDocumentFromPairs("x", bson.Int32(2)))

	reqID, out, _, err := BuildUpdate("db.c", false, false, selector, update, false, true, nil)
	require.NoError(t, err)

	primaryLen := binary.LittleEndian.Uint32(out[0:4])
	followUp := out[primaryLen:]
	assert.Equal(t, int32(reqID), int32(binary.LittleEndian.Uint32(followUp[4:8])))
}
