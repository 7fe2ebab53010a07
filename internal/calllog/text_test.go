package calllog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello there", PlainText("  Hello \n there "))
	assert.Equal(t, "Your order ships tomorrow.", PlainText(`<speak>Your order <break time="300ms"/> ships <emphasis>tomorrow</emphasis>.</speak>`))
	assert.Equal(t, "a & b", PlainText("a &amp; b"))
	assert.Equal(t, "1 < 2", PlainText("1 &lt; 2"))
}

func TestPlainTextKeepsBareOperators(t *testing.T) {
	assert.Equal(t, "x<y and a < b", PlainText("x<y and a < b"))
	assert.Equal(t, "Tom & Jerry <3", PlainText("Tom  & Jerry <3"))
	assert.Equal(t, "if a<b then ok", PlainText("if a<b then\n ok"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Привет...", Truncate("Привет, мир", 9))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
