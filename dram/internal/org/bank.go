package org

// A Bank stores burst data by physical address. The simulator keeps
// real data so that reads observe earlier writes.
type Bank struct {
	data map[uint64][]byte
}

// NewBank creates an empty bank.
func NewBank() *Bank {
	return &Bank{data: make(map[uint64][]byte)}
}

// Write stores one burst.
func (b *Bank) Write(addr uint64, payload []byte) {
	stored := make([]byte, len(payload))
	copy(stored, payload)
	b.data[addr] = stored
}

// Read returns the burst stored at addr. Untouched locations read as
// zeros.
func (b *Bank) Read(addr uint64, size int) []byte {
	stored, ok := b.data[addr]
	if !ok {
		return make([]byte, size)
	}

	out := make([]byte, size)
	copy(out, stored)

	return out
}
