package brcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16(t *testing.T) {
	// Standard CCITT-FALSE check value.
	assert.Equal(t, uint16(0x29B1), crc16("123456789"))
	assert.Equal(t, uint16(0xFFFF), crc16(""))
}

func TestVerifyCRC(t *testing.T) {
	t.Run("ValidPayload", func(t *testing.T) {
		code, err := validPayload().Encode()
		assert.NoError(t, err)
		assert.True(t, VerifyCRC(code))
	})

	t.Run("CorruptedBody", func(t *testing.T) {
		code, err := validPayload().Encode()
		assert.NoError(t, err)
		corrupted := "0102" + code[4:]
		assert.False(t, VerifyCRC(corrupted))
	})

	t.Run("CorruptedChecksum", func(t *testing.T) {
		code, err := validPayload().Encode()
		assert.NoError(t, err)
		bad := "0000"
		if code[len(code)-4:] == bad {
			bad = "FFFF"
		}
		assert.False(t, VerifyCRC(code[:len(code)-4]+bad))
	})

	t.Run("TooShort", func(t *testing.T) {
		assert.False(t, VerifyCRC("6304"))
		assert.False(t, VerifyCRC(""))
	})
}
