package str

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMd5Str(t *testing.T) {
	assert.Equal(t, "e10adc3949ba59abbe56e057f20f883e", Md5Str("123456"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Md5Str(""))
}

func TestRandString(t *testing.T) {
	s := RandString(16, Digits)
	assert.Len(t, s, 16)
	for _, r := range s {
		assert.Contains(t, Digits, string(r))
	}

	assert.Len(t, RandString(8, ""), 8)
}

func TestNewUUID(t *testing.T) {
	id := NewUUID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, NewUUID())
}
