package brcode

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrOversizeValue indicates a TLV value that cannot be represented by the
// two-digit decimal length field. Display fields are truncated before
// rendering, so this only surfaces for oversized nested groups.
var ErrOversizeValue = errors.New("tlv value exceeds 99 bytes")

const maxTLVValueLength = 99

// tlv renders an element as ID + two-digit length + value. Callers must
// guarantee the value fits the length field; use tlvChecked otherwise.
func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// tlvChecked is tlv for values whose size is not bounded by truncation,
// such as the nested merchant account group.
func tlvChecked(id, value string) (string, error) {
	if len(value) > maxTLVValueLength {
		return "", fmt.Errorf("%w: element %s has %d bytes", ErrOversizeValue, id, len(value))
	}
	return tlv(id, value), nil
}

// Element is a single tag-length-value entry of a BR Code payload. Nested
// groups (merchant account information, additional data) keep their raw value;
// call Parse on Value to walk them.
type Element struct {
	ID    string
	Value string
}

// Parse walks a BR Code payload and returns its top-level elements in order.
// It fails on truncated elements, non-numeric length fields, or declared
// lengths that overrun the payload.
func Parse(payload string) ([]Element, error) {
	var elements []Element
	for pos := 0; pos < len(payload); {
		if len(payload)-pos < 4 {
			return nil, fmt.Errorf("truncated element at offset %d", pos)
		}
		id := payload[pos : pos+2]
		length, err := strconv.Atoi(payload[pos+2 : pos+4])
		if err != nil || length < 0 {
			return nil, fmt.Errorf("invalid length field for element %s at offset %d", id, pos)
		}
		pos += 4
		if pos+length > len(payload) {
			return nil, fmt.Errorf("element %s declares %d bytes but only %d remain", id, length, len(payload)-pos)
		}
		elements = append(elements, Element{ID: id, Value: payload[pos : pos+length]})
		pos += length
	}
	return elements, nil
}

// Find returns the first element with the given id, or false when absent.
func Find(elements []Element, id string) (Element, bool) {
	for _, el := range elements {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}
