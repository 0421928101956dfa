package strcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUTF8(t *testing.T) {
	assert.True(t, ValidUTF8("hello"))
	assert.True(t, ValidUTF8("héllo"))
	assert.False(t, ValidUTF8(string([]byte{0xff, 0xfe})))
}

func TestHasNUL(t *testing.T) {
	assert.False(t, HasNUL("hello"))
	assert.True(t, HasNUL("hel\x00lo"))
}
