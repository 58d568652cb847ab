package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("stack underflow", From("stack underflow"))
	assert.Equal("pc 0x200", From("pc 0x%03x", 0x200))
}

func TestFprint(t *testing.T) {
	assert := assert.New(t)

	var sb strings.Builder
	n, err := Fprint(&sb, "key %X\n", 0xA)
	assert.NoError(err)
	assert.Equal(6, n)
	assert.Equal("key A\n", sb.String())
}
