package brcode

import "fmt"

// crc16 computes CRC16/CCITT-FALSE (polynomial 0x1021, initial value 0xFFFF,
// no final XOR) over the payload, as required by element 63 of the EMV-MPM
// specification.
func crc16(payload string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(payload); i++ {
		crc ^= uint16(payload[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// VerifyCRC reports whether the trailing four hex digits of a BR Code match
// the checksum of everything before them (including the 6304 tag and length).
func VerifyCRC(payload string) bool {
	if len(payload) < 8 {
		return false
	}
	body := payload[:len(payload)-4]
	return payload[len(payload)-4:] == fmt.Sprintf("%04X", crc16(body))
}
