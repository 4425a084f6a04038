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
	"fmt"

	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
	"github.com/crocusemu/crocus3ds/logger"
)

// MapMemoryRegion maps a range of host memory into a page table. Both base
// and size must be page aligned; anything else is a programming error.
// Overlapping maps on the same table overwrite prior entries.
//
// The kernel's VM manager is the expected caller, with target a slice into
// one of the backing buffers (GetFCRAMPointer or GetPhysicalPointer).
func (mem *MemorySystem) MapMemoryRegion(pt *pagetable.PageTable, base uint32, size uint32, target []byte) {
	if size&memorymap.PageMask != 0 {
		panic(fmt.Sprintf("memory: non-page aligned size: %08x", size))
	}
	if base&memorymap.PageMask != 0 {
		panic(fmt.Sprintf("memory: non-page aligned base: %08x", base))
	}
	mem.mapPages(pt, base>>memorymap.PageBits, size>>memorymap.PageBits, target, pagetable.Memory)
}

// UnmapRegion returns a range of a page table to the unmapped state. Both
// base and size must be page aligned.
func (mem *MemorySystem) UnmapRegion(pt *pagetable.PageTable, base uint32, size uint32) {
	if size&memorymap.PageMask != 0 {
		panic(fmt.Sprintf("memory: non-page aligned size: %08x", size))
	}
	if base&memorymap.PageMask != 0 {
		panic(fmt.Sprintf("memory: non-page aligned base: %08x", base))
	}
	mem.mapPages(pt, base>>memorymap.PageBits, size>>memorymap.PageBits, nil, pagetable.Unmapped)
}

// mapPages writes a run of page table entries. base and numPages are page
// counts, not byte addresses. Any rasterizer cached content overlapping the
// range is flushed and invalidated before the entries change. Pages the
// marker reports as cached are written with the RasterizerCachedMemory
// attribute and a nil pointer so the new mapping inherits slow path
// dispatch.
func (mem *MemorySystem) mapPages(pt *pagetable.PageTable, base uint32, numPages uint32, target []byte, attr pagetable.PageType) {
	if numPages == 0 {
		return
	}

	logger.Logf("memory", "mapping %s onto %08x-%08x", attr,
		base<<memorymap.PageBits, (base+numPages)<<memorymap.PageBits)

	mem.RasterizerFlushVirtualRegion(base<<memorymap.PageBits,
		numPages*memorymap.PageSize, FlushModeFlushAndInvalidate)

	end := base + numPages
	for i := base; i != end; i++ {
		if i >= memorymap.PageTableNumEntries {
			panic(fmt.Sprintf("memory: out of range mapping at %08x", i))
		}

		var p []byte
		if target != nil {
			off := (i - base) << memorymap.PageBits
			p = target[off : off+memorymap.PageSize]
		}

		pt.Attributes[i] = attr
		pt.Pointers[i] = p

		// if the page is already rasterizer cached the new entry must take
		// the slow path from its first access
		if attr == pagetable.Memory && mem.cacheMarker.isCached(i<<memorymap.PageBits) {
			pt.Attributes[i] = pagetable.RasterizerCachedMemory
			pt.Pointers[i] = nil
		}
	}
}
