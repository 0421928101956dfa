package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGetMoreHeaderAndCursorID(t *testing.T) {
	reqID, out, err := BuildGetMore("db.c", 10, 0x1122334455667788)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(out), headerLen)
	assert.Equal(t, []byte{0xd5, 0x07, 0x00, 0x00}, out[12:16])
	assert.Equal(t, int32(reqID), int32(binary.LittleEndian.Uint32(out[4:8])))

	// reserved(4) + cstring("db.c\0") + numToReturn(4) + cursorID(8)
	collEnd := headerLen + 4 + len("db.c") + 1
	limitOff := collEnd
	cursorOff := limitOff + 4
	assert.Equal(t, int32(10), int32(binary.LittleEndian.Uint32(out[limitOff:limitOff+4])))
	gotCursor := binary.LittleEndian.Uint64(out[cursorOff : cursorOff+8])
	assert.Equal(t, uint64(0x1122334455667788), gotCursor)
	assert.Equal(t, []byte{0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}, out[cursorOff:cursorOff+8])

	msgLen := binary.LittleEndian.Uint32(out[0:4])
	assert.Equal(t, uint32(len(out)), msgLen)
}
