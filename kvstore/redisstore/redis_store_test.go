package redisstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOOMErr(t *testing.T) {
	assert.True(t, isOOMErr(errors.New("OOM command not allowed when used memory > 'maxmemory'.")))
	assert.False(t, isOOMErr(errors.New("ERR unknown command")))
	assert.False(t, isOOMErr(nil))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `plain/prefix`, escapeGlob(`plain/prefix`))
	assert.Equal(t, `a\*b\?c`, escapeGlob(`a*b?c`))
	assert.Equal(t, `\[set\]`, escapeGlob(`[set]`))
}

func TestKeyPrefix(t *testing.T) {
	s := &Store{keyPrefix: "poedata:"}
	assert.Equal(t, "poedata:weights/essence", s.key("weights/essence"))
}
