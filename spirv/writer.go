package spirv

import (
	"encoding/binary"
)

// Encode serializes m to a little-endian SPIR-V binary. The header bound is
// raised to cover every id the module references.
func Encode(m *Module) []byte {
	bound := m.Header.Bound
	if computed := m.ComputeIDBound(); computed > bound {
		bound = computed
	}

	// Calculate total size
	totalWords := 5 // header
	m.ForEachInst(func(inst *Instruction) {
		totalWords += inst.WordCount()
	})

	buffer := make([]byte, totalWords*4)
	offset := 0

	// Write header
	binary.LittleEndian.PutUint32(buffer[offset:], MagicNumber)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], versionToWord(m.Header.Version))
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], m.Header.Generator)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], bound)
	offset += 4
	binary.LittleEndian.PutUint32(buffer[offset:], m.Header.Schema)
	offset += 4

	// Sections in layout order, then functions
	m.ForEachInst(func(inst *Instruction) {
		offset = putInstruction(buffer, offset, inst)
	})

	return buffer
}

// EncodeWords is Encode returning the binary as words.
func EncodeWords(m *Module) []uint32 {
	raw := Encode(m)
	words := make([]uint32, len(raw)/4)
	for k := range words {
		words[k] = binary.LittleEndian.Uint32(raw[k*4:])
	}
	return words
}

// putInstruction writes inst at offset and returns the new offset.
func putInstruction(buffer []byte, offset int, inst *Instruction) int {
	put := func(word uint32) {
		binary.LittleEndian.PutUint32(buffer[offset:], word)
		offset += 4
	}
	put(uint32(inst.WordCount())<<16 | uint32(inst.Opcode))
	if inst.TypeID != 0 {
		put(uint32(inst.TypeID))
	}
	if inst.ResultID != 0 {
		put(uint32(inst.ResultID))
	}
	for _, op := range inst.Operands {
		for _, w := range op.Words {
			put(w)
		}
	}
	return offset
}

// encodeString encodes a null-terminated UTF-8 string padded to a word
// boundary.
func encodeString(s string) []uint32 {
	bytes := []byte(s)
	bytes = append(bytes, 0)

	// Pad to word boundary
	for len(bytes)%4 != 0 {
		bytes = append(bytes, 0)
	}

	words := make([]uint32, 0, len(bytes)/4)
	for i := 0; i < len(bytes); i += 4 {
		word := uint32(bytes[i]) |
			uint32(bytes[i+1])<<8 |
			uint32(bytes[i+2])<<16 |
			uint32(bytes[i+3])<<24
		words = append(words, word)
	}
	return words
}

// decodeString reads a null-terminated string from words and returns it with
// the number of words it occupies. An unterminated string consumes all words.
func decodeString(words []uint32) (string, int) {
	var bytes []byte
	for k, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return string(bytes), k + 1
			}
			bytes = append(bytes, b)
		}
	}
	return string(bytes), len(words)
}
