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
	"encoding/binary"
	"testing"

	"github.com/crocusemu/crocus3ds/hardware/memory"
	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
	"github.com/crocusemu/crocus3ds/test"
)

// a cache transition switches a page to the slow path and back, with every
// access in between synchronised against the rasterizer
func TestCacheTransition(t *testing.T) {
	mem := memory.NewMemorySystem()
	rz := &mockRasterizer{}
	mem.SetRasterizer(rz)
	proc := newProcess(mem)

	mem.MapMemoryRegion(proc.pt, memorymap.VRAMVAddr, memorymap.PageSize, mem.GetPhysicalPointer(memorymap.VRAMPAddr))
	rz.expect(t, flushCall{"flushandinvalidate", memorymap.VRAMPAddr, memorymap.PageSize})

	// plant a value in the VRAM backing buffer directly
	binary.LittleEndian.PutUint32(mem.GetPhysicalPointer(memorymap.VRAMPAddr), 0xcafe1234)

	mem.RasterizerMarkRegionCached(memorymap.VRAMPAddr, memorymap.PageSize, true)
	test.Equate(t, proc.pt.Attributes[memorymap.VRAMVAddr>>memorymap.PageBits].String(), "RasterizerCachedMemory")
	test.Equate(t, proc.pt.Pointers[memorymap.VRAMVAddr>>memorymap.PageBits] == nil, true)

	// a read flushes exactly the bytes being read and then sees the
	// backing buffer
	test.Equate(t, mem.Read32(memorymap.VRAMVAddr), uint32(0xcafe1234))
	rz.expect(t, flushCall{"flush", memorymap.VRAMPAddr, 4})

	// a write invalidates and lands in the backing buffer
	mem.Write32(memorymap.VRAMVAddr+8, 0x55aa55aa)
	rz.expect(t, flushCall{"invalidate", memorymap.VRAMPAddr + 8, 4})
	test.Equate(t, binary.LittleEndian.Uint32(mem.GetPhysicalPointer(memorymap.VRAMPAddr+8)), uint32(0x55aa55aa))

	// uncaching restores the fast path bit for bit
	mem.RasterizerMarkRegionCached(memorymap.VRAMPAddr, memorymap.PageSize, false)
	test.Equate(t, proc.pt.Attributes[memorymap.VRAMVAddr>>memorymap.PageBits].String(), "Memory")
	test.Equate(t, proc.pt.Pointers[memorymap.VRAMVAddr>>memorymap.PageBits] != nil, true)

	test.Equate(t, mem.Read32(memorymap.VRAMVAddr), uint32(0xcafe1234))
	rz.expect(t)
}

// marking a physical page cached updates every registered table for every
// virtual alias
func TestMarkFanOut(t *testing.T) {
	mem := memory.NewMemorySystem()
	proc1 := &mockProcess{pt: pagetable.NewPageTable()}
	proc2 := &mockProcess{pt: pagetable.NewPageTable()}
	mem.RegisterPageTable(proc1.pt)
	mem.RegisterPageTable(proc2.pt)

	// table 1 maps only the linear heap, table 2 only the new linear heap
	mem.MapMemoryRegion(proc1.pt, memorymap.LinearHeapVAddr, memorymap.PageSize, mem.GetFCRAMPointer(0))
	mem.MapMemoryRegion(proc2.pt, memorymap.NewLinearHeapVAddr, memorymap.PageSize, mem.GetFCRAMPointer(0))

	mem.RasterizerMarkRegionCached(memorymap.FCRAMPAddr, memorymap.PageSize, true)

	test.Equate(t, proc1.pt.Attributes[memorymap.LinearHeapVAddr>>memorymap.PageBits].String(), "RasterizerCachedMemory")
	test.Equate(t, proc2.pt.Attributes[memorymap.NewLinearHeapVAddr>>memorymap.PageBits].String(), "RasterizerCachedMemory")

	// and releasing restores both
	mem.RasterizerMarkRegionCached(memorymap.FCRAMPAddr, memorymap.PageSize, false)
	test.Equate(t, proc1.pt.Attributes[memorymap.LinearHeapVAddr>>memorymap.PageBits].String(), "Memory")
	test.Equate(t, proc2.pt.Attributes[memorymap.NewLinearHeapVAddr>>memorymap.PageBits].String(), "Memory")
}

// an unregistered table no longer receives attribute updates
func TestUnregister(t *testing.T) {
	mem := memory.NewMemorySystem()
	proc := newProcess(mem)

	mem.MapMemoryRegion(proc.pt, memorymap.LinearHeapVAddr, memorymap.PageSize, mem.GetFCRAMPointer(0))
	mem.UnregisterPageTable(proc.pt)

	mem.RasterizerMarkRegionCached(memorymap.FCRAMPAddr, memorymap.PageSize, true)
	test.Equate(t, proc.pt.Attributes[memorymap.LinearHeapVAddr>>memorymap.PageBits].String(), "Memory")

	// releasing with no registered tables only changes the marker
	mem.RasterizerMarkRegionCached(memorymap.FCRAMPAddr, memorymap.PageSize, false)
}

// a page mapped after the rasterizer claimed it inherits the cached state
func TestLateMapInheritance(t *testing.T) {
	mem := memory.NewMemorySystem()
	proc1 := &mockProcess{pt: pagetable.NewPageTable()}
	mem.RegisterPageTable(proc1.pt)
	mem.MapMemoryRegion(proc1.pt, memorymap.LinearHeapVAddr, memorymap.PageSize, mem.GetFCRAMPointer(0))

	mem.RasterizerMarkRegionCached(memorymap.FCRAMPAddr, memorymap.PageSize, true)

	// a fresh table mapped over the same physical page starts cached
	proc2 := &mockProcess{pt: pagetable.NewPageTable()}
	mem.RegisterPageTable(proc2.pt)
	mem.MapMemoryRegion(proc2.pt, memorymap.NewLinearHeapVAddr, memorymap.PageSize, mem.GetFCRAMPointer(0))

	idx := memorymap.NewLinearHeapVAddr >> memorymap.PageBits
	test.Equate(t, proc2.pt.Attributes[idx].String(), "RasterizerCachedMemory")
	test.Equate(t, proc2.pt.Pointers[idx] == nil, true)
}

// a start address of zero is a no-op by convention
func TestMarkZeroStart(t *testing.T) {
	mem := memory.NewMemorySystem()
	proc := newProcess(mem)
	mem.MapMemoryRegion(proc.pt, memorymap.LinearHeapVAddr, memorymap.PageSize, mem.GetFCRAMPointer(0))

	mem.RasterizerMarkRegionCached(0, memorymap.PageSize, true)
	test.Equate(t, proc.pt.Attributes[memorymap.LinearHeapVAddr>>memorymap.PageBits].String(), "Memory")
}

// flush dispatch translates a virtual range to a physical range for every
// window it overlaps
func TestFlushVirtualRegion(t *testing.T) {
	mem := memory.NewMemorySystem()
	rz := &mockRasterizer{}
	mem.SetRasterizer(rz)

	// entirely within the linear heap
	mem.RasterizerFlushVirtualRegion(memorymap.LinearHeapVAddr+0x2000, 0x100, memory.FlushModeFlush)
	rz.expect(t, flushCall{"flush", memorymap.FCRAMPAddr + 0x2000, 0x100})

	// entirely within VRAM
	mem.RasterizerFlushVirtualRegion(memorymap.VRAMVAddr, 0x10, memory.FlushModeInvalidate)
	rz.expect(t, flushCall{"invalidate", memorymap.VRAMPAddr, 0x10})

	// a range spanning everything dispatches for each window
	// independently: linear heap first, then new linear heap, then VRAM
	mem.RasterizerFlushVirtualRegion(memorymap.LinearHeapVAddr,
		memorymap.NewLinearHeapVAddrEnd-memorymap.LinearHeapVAddr, memory.FlushModeFlushAndInvalidate)
	rz.expect(t,
		flushCall{"flushandinvalidate", memorymap.FCRAMPAddr, memorymap.FCRAMSize},
		flushCall{"flushandinvalidate", memorymap.FCRAMPAddr, memorymap.FCRAMN3DSSize},
		flushCall{"flushandinvalidate", memorymap.VRAMPAddr, memorymap.VRAMSize},
	)

	// no overlap, no dispatch
	mem.RasterizerFlushVirtualRegion(0x00400000, 0x1000, memory.FlushModeFlush)
	rz.expect(t)

	// a zero size region never dispatches
	mem.RasterizerFlushVirtualRegion(memorymap.VRAMVAddr, 0, memory.FlushModeFlush)
	rz.expect(t)
}

// the physical entry points forward directly
func TestFlushPhysical(t *testing.T) {
	mem := memory.NewMemorySystem()
	rz := &mockRasterizer{}
	mem.SetRasterizer(rz)

	mem.RasterizerFlushRegion(memorymap.VRAMPAddr, 0x100)
	mem.RasterizerInvalidateRegion(memorymap.VRAMPAddr+0x100, 0x200)
	mem.RasterizerFlushAndInvalidateRegion(memorymap.VRAMPAddr+0x300, 0x300)
	rz.expect(t,
		flushCall{"flush", memorymap.VRAMPAddr, 0x100},
		flushCall{"invalidate", memorymap.VRAMPAddr + 0x100, 0x200},
		flushCall{"flushandinvalidate", memorymap.VRAMPAddr + 0x300, 0x300},
	)
}
