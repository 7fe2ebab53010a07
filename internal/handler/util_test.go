package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, "", commandArgs("/calls"))
	assert.Equal(t, "+100", commandArgs("/phones +100"))
	assert.Equal(t, "a | b", commandArgs("/faqadd@calldesk_bot   a | b  "))
	assert.Equal(t, "plain text", commandArgs(" plain text "))
}

func TestSplitPair(t *testing.T) {
	a, b, ok := splitPair(" How late? | Until 9pm ")
	require.True(t, ok)
	assert.Equal(t, "How late?", a)
	assert.Equal(t, "Until 9pm", b)

	_, _, ok = splitPair("no separator")
	assert.False(t, ok)
	_, _, ok = splitPair("question | ")
	assert.False(t, ok)
}

func TestCallbackIndex(t *testing.T) {
	i, ok := callbackIndex("ss:3", cbSession)
	require.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = callbackIndex("ss:x", cbSession)
	assert.False(t, ok)
}

func TestParseChatArgs(t *testing.T) {
	req, ok := parseChatArgs("+15550001 sid=CA42 hello there")
	require.True(t, ok)
	assert.Equal(t, "+15550001", req.PhoneNumber)
	assert.Equal(t, "CA42", req.CallSID)
	assert.Equal(t, "hello there", req.UserText)

	req, ok = parseChatArgs("+15550001 hi")
	require.True(t, ok)
	assert.Empty(t, req.CallSID)
	assert.Equal(t, "hi", req.UserText)

	_, ok = parseChatArgs("+15550001")
	assert.False(t, ok)
	_, ok = parseChatArgs("+15550001 sid=CA42")
	assert.False(t, ok)
}

func TestParseRangeArgs(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)

	from, to, err := parseRangeArgs("", loc)
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())

	from, to, err = parseRangeArgs("2024-01-01T10:00 -", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC), from.UTC())
	assert.True(t, to.IsZero())

	from, to, err = parseRangeArgs("- 2024-01-02T00:00:00Z", loc)
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), to.UTC())

	_, _, err = parseRangeArgs("2024-01-01", loc)
	assert.Error(t, err)
	_, _, err = parseRangeArgs("yesterday today", loc)
	assert.Error(t, err)
}

func TestOperatorLabel(t *testing.T) {
	assert.Equal(t, "?", operatorLabel(0))
	assert.Equal(t, "#7", operatorLabel(7))
}
