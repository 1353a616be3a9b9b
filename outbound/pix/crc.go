package pix

// crc16 computes CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), the checksum
// required by field 63 of an EMV merchant-presented QR code.
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
