package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, tail byte) Address {
	t.Helper()
	raw := make([]byte, Length)
	raw[0] = Prefix
	raw[Length-1] = tail
	a, err := FromBytes(raw)
	require.NoError(t, err)
	return a
}

func TestFromBytes_RejectsWrongLength(t *testing.T) {
	_, err := FromBytes(make([]byte, 20))
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = FromBytes(make([]byte, 22))
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestFromBytes_RejectsWrongPrefix(t *testing.T) {
	raw := make([]byte, Length)
	raw[0] = 0x00
	_, err := FromBytes(raw)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestFromBytes_AcceptsWellFormed(t *testing.T) {
	a := mustAddr(t, 0x01)
	assert.False(t, a.IsZero())
	assert.Equal(t, Prefix, int(a.Bytes()[0]))
}

func TestString_IsStableAndNonEmpty(t *testing.T) {
	a := mustAddr(t, 0x02)
	s1 := a.String()
	s2 := a.String()
	assert.Equal(t, s1, s2)
	assert.NotEmpty(t, s1)
}

func TestZero_IsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
}
