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

package memory_test

import (
	"testing"

	"github.com/crocusemu/crocus3ds/hardware/memory"
	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
	"github.com/crocusemu/crocus3ds/test"
)

// a block transfer straddling a page boundary writes contiguous bytes
// across both pages
func TestBlockStraddle(t *testing.T) {
	mem := memory.NewMemorySystem()
	proc := newProcess(mem)

	host := make([]byte, 2*memorymap.PageSize)
	mem.MapMemoryRegion(proc.pt, 0x1000, 2*memorymap.PageSize, host)

	mem.WriteBlock(proc, 0x1ffc, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	// four bytes at the end of the first page, four at the start of the
	// second. observable as two independent word reads
	test.Equate(t, mem.Read32(0x1ffc), uint32(0x04030201))
	test.Equate(t, mem.Read32(0x2000), uint32(0x08070605))

	readback := make([]byte, 8)
	mem.ReadBlock(proc, 0x1ffc, readback)
	test.Equate(t, readback, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
}

func TestBlockUnmapped(t *testing.T) {
	mem := memory.NewMemorySystem()
	proc := newProcess(mem)

	host := make([]byte, memorymap.PageSize)
	mem.MapMemoryRegion(proc.pt, 0x1000, memorymap.PageSize, host)

	// a read spanning a mapped and an unmapped page zero-fills the
	// unmapped part of the destination
	mem.WriteBlock(proc, 0x1ffc, []byte{0xaa, 0xbb, 0xcc, 0xdd})
	readback := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	mem.ReadBlock(proc, 0x1ffc, readback)
	test.Equate(t, readback, []byte{0xaa, 0xbb, 0xcc, 0xdd, 0x00, 0x00, 0x00, 0x00})

	// a write to an unmapped page is discarded without disturbing its
	// neighbours
	mem.WriteBlock(proc, 0x1ffc, []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88})
	test.Equate(t, mem.Read32(0x1ffc), uint32(0x44332211))
}

func TestZeroBlock(t *testing.T) {
	mem := memory.NewMemorySystem()
	proc := newProcess(mem)

	host := make([]byte, memorymap.PageSize)
	for i := range host {
		host[i] = 0xff
	}
	mem.MapMemoryRegion(proc.pt, 0x1000, memorymap.PageSize, host)

	mem.ZeroBlock(proc, 0x1004, 8)
	test.Equate(t, host[:16], []byte{
		0xff, 0xff, 0xff, 0xff,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xff,
	})
}

// the cross process copy reads through one page table and writes through
// another
func TestCrossProcessCopy(t *testing.T) {
	mem := memory.NewMemorySystem()

	procA := &mockProcess{pt: pagetable.NewPageTable()}
	procB := &mockProcess{pt: pagetable.NewPageTable()}
	mem.RegisterPageTable(procA.pt)
	mem.RegisterPageTable(procB.pt)

	// disjoint mappings: A at the bottom of FCRAM, B a page further up
	mem.MapMemoryRegion(procA.pt, 0x1000, memorymap.PageSize, mem.GetFCRAMPointer(0))
	mem.MapMemoryRegion(procB.pt, 0x5000, memorymap.PageSize, mem.GetFCRAMPointer(memorymap.PageSize))

	mem.WriteBlock(procA, 0x1010, []byte("HELLO"))
	mem.CopyBlock(procB, procA, 0x5020, 0x1010, 5)

	readback := make([]byte, 5)
	mem.ReadBlock(procB, 0x5020, readback)
	test.Equate(t, readback, []byte("HELLO"))

	// the source process cannot see the destination's copy
	test.Equate(t, memory.IsValidVirtualAddress(procA, 0x5020), false)
}

// an unmapped source page zeroes the destination range
func TestCopyBlockUnmappedSource(t *testing.T) {
	mem := memory.NewMemorySystem()
	proc := newProcess(mem)

	mem.MapMemoryRegion(proc.pt, 0x1000, memorymap.PageSize, mem.GetFCRAMPointer(0))

	mem.WriteBlock(proc, 0x1000, []byte{0xaa, 0xbb, 0xcc, 0xdd})
	mem.CopyBlockWithin(proc, 0x1000, 0x00400000, 4)

	readback := make([]byte, 4)
	mem.ReadBlock(proc, 0x1000, readback)
	test.Equate(t, readback, []byte{0x00, 0x00, 0x00, 0x00})
}

// block transfers through rasterizer cached pages synchronise each touched
// sub-range
func TestBlockCached(t *testing.T) {
	mem := memory.NewMemorySystem()
	rz := &mockRasterizer{}
	mem.SetRasterizer(rz)
	proc := newProcess(mem)

	mem.MapMemoryRegion(proc.pt, memorymap.LinearHeapVAddr, 2*memorymap.PageSize, mem.GetFCRAMPointer(0))
	rz.expect(t, flushCall{"flushandinvalidate", memorymap.FCRAMPAddr, 2 * memorymap.PageSize})

	// cache only the second page
	mem.RasterizerMarkRegionCached(memorymap.FCRAMPAddr+memorymap.PageSize, memorymap.PageSize, true)

	// a write straddling into the cached page invalidates just the cached
	// sub-range
	src := make([]byte, 16)
	for i := range src {
		src[i] = byte(i + 1)
	}
	mem.WriteBlock(proc, memorymap.LinearHeapVAddr+memorymap.PageSize-8, src)
	rz.expect(t, flushCall{"invalidate", memorymap.FCRAMPAddr + memorymap.PageSize, 8})

	// a read of the same range flushes it
	readback := make([]byte, 16)
	mem.ReadBlock(proc, memorymap.LinearHeapVAddr+memorymap.PageSize-8, readback)
	rz.expect(t, flushCall{"flush", memorymap.FCRAMPAddr + memorymap.PageSize, 8})
	test.Equate(t, readback, src)

	// contents are contiguous in the backing buffer
	test.Equate(t, mem.GetFCRAMPointer(memorymap.PageSize - 8)[:16], src)
}
