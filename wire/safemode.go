package wire

import (
	"github.com/blep/gobsonwire/internal/bsonbuf"

	bson "github.com/blep/gobsonwire"
)

// appendSafeModeFollowUp writes a second, complete wire message into buf
// right after the caller's primary message: a getLastError QUERY command
// against admin.$cmd, sharing reqID with the message it follows. This is
// the "safe mode" piggyback INSERT and UPDATE use to learn whether their
// write succeeded.
func appendSafeModeFollowUp(buf *bsonbuf.Buffer, reqID RequestID, lastErrorArgs *bson.Document) error {
	lenOffset, err := writeHeader(buf, reqID, 0, OpQuery)
	if err != nil {
		return err
	}
	if err := writeUint32(buf, 0); err != nil { // flags, reserved
		return err
	}
	if err := buf.WriteCString("admin.$cmd"); err != nil {
		return err
	}
	if err := writeInt32(buf, 0); err != nil { // numToSkip
		return err
	}
	if err := writeInt32(buf, -1); err != nil { // numToReturn
		return err
	}

	cmd := bson.NewDocument()
	cmd.Append("getlasterror", bson.Int32(1))
	if lastErrorArgs != nil {
		for i := 0; i < lastErrorArgs.Len(); i++ {
			key, val, _ := lastErrorArgs.At(i)
			if key == "getlasterror" {
				continue
			}
			cmd.Append(key, val)
		}
	}

	cmdBytes, err := bson.Encode(cmd, false)
	if err != nil {
		return err
	}
	if _, err := buf.Write(cmdBytes); err != nil {
		return err
	}

	finishMessage(buf, lenOffset)
	return nil
}
