package brcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("WalksElementsInOrder", func(t *testing.T) {
		elements, err := Parse("000201" + "5802BR" + "5303986")
		require.NoError(t, err)
		require.Len(t, elements, 3)
		assert.Equal(t, Element{ID: "00", Value: "01"}, elements[0])
		assert.Equal(t, Element{ID: "58", Value: "BR"}, elements[1])
		assert.Equal(t, Element{ID: "53", Value: "986"}, elements[2])
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		elements, err := Parse("")
		require.NoError(t, err)
		assert.Empty(t, elements)
	})

	t.Run("TruncatedHeader", func(t *testing.T) {
		_, err := Parse("580")
		assert.Error(t, err)
	})

	t.Run("NonNumericLength", func(t *testing.T) {
		_, err := Parse("58XXBR")
		assert.Error(t, err)
	})

	t.Run("LengthOverrunsPayload", func(t *testing.T) {
		_, err := Parse("5805BR")
		assert.Error(t, err)
	})
}

func TestFind(t *testing.T) {
	elements := []Element{{ID: "00", Value: "01"}, {ID: "58", Value: "BR"}}

	el, ok := Find(elements, "58")
	assert.True(t, ok)
	assert.Equal(t, "BR", el.Value)

	_, ok = Find(elements, "99")
	assert.False(t, ok)
}

func TestTLV(t *testing.T) {
	assert.Equal(t, "5802BR", tlv("58", "BR"))
	assert.Equal(t, "6200", tlv("62", ""))

	t.Run("CheckedRejectsOversizeValue", func(t *testing.T) {
		big := make([]byte, 100)
		for i := range big {
			big[i] = 'x'
		}
		_, err := tlvChecked("26", string(big))
		assert.ErrorIs(t, err, ErrOversizeValue)

		rendered, err := tlvChecked("26", string(big[:99]))
		require.NoError(t, err)
		assert.Equal(t, "2699"+string(big[:99]), rendered)
	})
}
