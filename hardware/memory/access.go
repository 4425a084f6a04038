// This file is part of Crocus3DS.
//
// Crocus3DS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Crocus3DS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Crocus3DS.  If not, see <https://www.gnu.org/licenses/>.

package memory

import (
	"encoding/binary"
	"fmt"

	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
	"github.com/crocusemu/crocus3ds/logger"
)

// The typed access functions are the hot path of the emulated machine. Every
// instruction fetch, load and store arrives here. The fast path is a single
// nil check on the page pointer; everything else hangs off the page
// attribute and is reached only for unmapped or rasterizer cached pages.
//
// Multibyte values are little-endian in guest memory. encoding/binary makes
// that true on every host. A single-word access never crosses a page
// boundary; one that would is a programming error. On the fast path it is
// caught by the bounds check on the page sized pointer. On a rasterizer
// cached page the pointer runs to the end of the backing buffer, so such an
// access is not caught and reads or writes the following bytes.

// readPointer resolves a read of the given width against the current page
// table. A nil return means the read produces zero.
func (mem *MemorySystem) readPointer(vaddr uint32, width uint32) []byte {
	p := mem.currentPageTable.Pointers[vaddr>>memorymap.PageBits]
	if p != nil {
		// NOTE: avoid adding any extra logic to this fast-path block
		return p[vaddr&memorymap.PageMask:]
	}

	switch mem.currentPageTable.Attributes[vaddr>>memorymap.PageBits] {
	case pagetable.Unmapped:
		logger.Logf("memory", "unmapped Read%d @ %08x", width*8, vaddr)
		return nil
	case pagetable.Memory:
		panic(fmt.Sprintf("memory: mapped memory page without a pointer @ %08x", vaddr))
	case pagetable.RasterizerCachedMemory:
		mem.RasterizerFlushVirtualRegion(vaddr, width, FlushModeFlush)
		return mem.getPointerForRasterizerCache(vaddr)
	}

	panic(fmt.Sprintf("memory: unknown page attribute @ %08x", vaddr))
}

// writePointer resolves a write of the given width against the current page
// table. A nil return means the write is dropped.
func (mem *MemorySystem) writePointer(vaddr uint32, width uint32, data uint64) []byte {
	p := mem.currentPageTable.Pointers[vaddr>>memorymap.PageBits]
	if p != nil {
		// NOTE: avoid adding any extra logic to this fast-path block
		return p[vaddr&memorymap.PageMask:]
	}

	switch mem.currentPageTable.Attributes[vaddr>>memorymap.PageBits] {
	case pagetable.Unmapped:
		logger.Logf("memory", "unmapped Write%d %08x @ %08x", width*8, data, vaddr)
		return nil
	case pagetable.Memory:
		panic(fmt.Sprintf("memory: mapped memory page without a pointer @ %08x", vaddr))
	case pagetable.RasterizerCachedMemory:
		mem.RasterizerFlushVirtualRegion(vaddr, width, FlushModeInvalidate)
		return mem.getPointerForRasterizerCache(vaddr)
	}

	panic(fmt.Sprintf("memory: unknown page attribute @ %08x", vaddr))
}

// Read8 reads a byte from the current page table.
func (mem *MemorySystem) Read8(vaddr uint32) uint8 {
	if p := mem.readPointer(vaddr, 1); p != nil {
		return p[0]
	}
	return 0
}

// Read16 reads a little-endian 16bit value from the current page table.
func (mem *MemorySystem) Read16(vaddr uint32) uint16 {
	if p := mem.readPointer(vaddr, 2); p != nil {
		return binary.LittleEndian.Uint16(p)
	}
	return 0
}

// Read32 reads a little-endian 32bit value from the current page table.
func (mem *MemorySystem) Read32(vaddr uint32) uint32 {
	if p := mem.readPointer(vaddr, 4); p != nil {
		return binary.LittleEndian.Uint32(p)
	}
	return 0
}

// Read64 reads a little-endian 64bit value from the current page table.
func (mem *MemorySystem) Read64(vaddr uint32) uint64 {
	if p := mem.readPointer(vaddr, 8); p != nil {
		return binary.LittleEndian.Uint64(p)
	}
	return 0
}

// Write8 writes a byte through the current page table.
func (mem *MemorySystem) Write8(vaddr uint32, data uint8) {
	if p := mem.writePointer(vaddr, 1, uint64(data)); p != nil {
		p[0] = data
	}
}

// Write16 writes a 16bit value through the current page table, little-endian
// in guest memory.
func (mem *MemorySystem) Write16(vaddr uint32, data uint16) {
	if p := mem.writePointer(vaddr, 2, uint64(data)); p != nil {
		binary.LittleEndian.PutUint16(p, data)
	}
}

// Write32 writes a 32bit value through the current page table, little-endian
// in guest memory.
func (mem *MemorySystem) Write32(vaddr uint32, data uint32) {
	if p := mem.writePointer(vaddr, 4, uint64(data)); p != nil {
		binary.LittleEndian.PutUint32(p, data)
	}
}

// Write64 writes a 64bit value through the current page table, little-endian
// in guest memory.
func (mem *MemorySystem) Write64(vaddr uint32, data uint64) {
	if p := mem.writePointer(vaddr, 8, data); p != nil {
		binary.LittleEndian.PutUint64(p, data)
	}
}
