package equihash

// Every slot's hash suffix is kept tightly packed, MSB-first, starting at
// bit 0 of word 0 — no leftover offset ever survives a round. That is a
// deliberate simplification of the teacher's C-level byte-offset tracking
// (prevbo/nextbo in §3, the odd/even kernel split in §4.6): instead of
// reusing storage in place and remembering a 0-3 byte sub-alignment, each
// round reshifts the XOR result left by exactly DIGITBITS bits before
// storing it, so every extraction below always starts at offset zero.
// See DESIGN.md for why this is the chosen resolution of §9's "unify via
// a general bit-offset function" note.

func wordAt(words []uint32, idx int) uint32 {
	if idx < 0 || idx >= len(words) {
		return 0
	}
	return words[idx]
}

// extractBits reads nbits (<=32) bits starting at bitOffset (0-based from
// the MSB of words[0]) out of the big-endian bit stream formed by words.
func extractBits(words []uint32, bitOffset, nbits uint32) uint32 {
	if nbits == 0 {
		return 0
	}
	wordIdx := int(bitOffset / 32)
	bitInWord := bitOffset % 32
	hi := uint64(wordAt(words, wordIdx))
	lo := uint64(wordAt(words, wordIdx+1))
	combined := (hi << 32) | lo
	combined <<= bitInWord
	return uint32(combined >> (64 - nbits))
}

// extractDigitXor reads the leading buckBits then the next restBits bits
// of (a XOR b) without materialising the XOR of the full arrays: XOR
// commutes with taking a leading bit window, so extracting each operand
// at the same offset and XORing the two narrow results is equivalent.
func extractDigitXor(a, b []uint32, buckBits, restBits uint32) (bucket, xhash uint32) {
	bucket = extractBits(a, 0, buckBits) ^ extractBits(b, 0, buckBits)
	xhash = extractBits(a, buckBits, restBits) ^ extractBits(b, buckBits, restBits)
	return
}

// shiftLeftXor writes len(dst) words of (a XOR b) shifted left by
// shiftBits, discarding the leading shiftBits bits and zero-padding the
// tail — the §4.6 step-5 XOR, re-expressed with the always-zero local
// offset invariant above.
func shiftLeftXor(dst, a, b []uint32, shiftBits uint32) {
	for i := range dst {
		off := shiftBits + uint32(i)*32
		dst[i] = extractBits(a, off, 32) ^ extractBits(b, off, 32)
	}
}

// shiftLeft is shiftLeftXor's single-operand form, used by the digit-0
// seeder which has one raw hash, not a colliding pair to XOR.
func shiftLeft(dst, a []uint32, shiftBits uint32) {
	for i := range dst {
		off := shiftBits + uint32(i)*32
		dst[i] = extractBits(a, off, 32)
	}
}

// extractWindow copies an nbits window starting at bitOffset out of src
// into dst (len(dst) == ceil(nbits/32)), zero-padding whatever tail of the
// last word falls past nbits. The digest §4.5 feeds this with is a shared
// buffer holding HASHESPERBLAKE back-to-back hashes; without the masking
// step, the last word of a hash narrower than a 32-bit multiple would leak
// the leading bits of the next hash in the buffer.
func extractWindow(src []uint32, bitOffset, nbits uint32, dst []uint32) {
	for i := range dst {
		remaining := int64(nbits) - int64(i)*32
		if remaining <= 0 {
			dst[i] = 0
			continue
		}
		val := extractBits(src, bitOffset+uint32(i)*32, 32)
		if remaining < 32 {
			val &= ^uint32(0) << (32 - uint(remaining))
		}
		dst[i] = val
	}
}
