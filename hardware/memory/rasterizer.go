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
)

// FlushMode selects what the rasterizer does with a region during flush
// dispatch.
type FlushMode int

// The valid FlushMode values.
const (
	// write GPU side contents back to backing memory
	FlushModeFlush FlushMode = iota

	// drop GPU side contents, preparing for a CPU write
	FlushModeInvalidate

	// flush then invalidate
	FlushModeFlushAndInvalidate
)

func (m FlushMode) String() string {
	switch m {
	case FlushModeFlush:
		return "Flush"
	case FlushModeInvalidate:
		return "Invalidate"
	case FlushModeFlushAndInvalidate:
		return "FlushAndInvalidate"
	}

	return "undefined"
}

// RasterizerFlushRegion forwards a physical range to the rasterizer's flush
// entry point.
func (mem *MemorySystem) RasterizerFlushRegion(start uint32, size uint32) {
	if mem.rasterizer != nil {
		mem.rasterizer.FlushRegion(start, size)
	}
}

// RasterizerInvalidateRegion forwards a physical range to the rasterizer's
// invalidate entry point.
func (mem *MemorySystem) RasterizerInvalidateRegion(start uint32, size uint32) {
	if mem.rasterizer != nil {
		mem.rasterizer.InvalidateRegion(start, size)
	}
}

// RasterizerFlushAndInvalidateRegion forwards a physical range to the
// rasterizer's combined entry point.
func (mem *MemorySystem) RasterizerFlushAndInvalidateRegion(start uint32, size uint32) {
	if mem.rasterizer != nil {
		mem.rasterizer.FlushAndInvalidateRegion(start, size)
	}
}

// RasterizerFlushVirtualRegion translates a virtual range to physical ranges
// and forwards each to the rasterizer entry point selected by mode. Every
// cacheable window is checked for overlap independently: the two linear heap
// windows map to overlapping physical ranges in FCRAM and a range present in
// both produces two dispatches.
//
// The call blocks until the rasterizer has finished with every overlapping
// range. With no rasterizer attached the call is a no-op.
func (mem *MemorySystem) RasterizerFlushVirtualRegion(start uint32, size uint32, mode FlushMode) {
	if mem.rasterizer == nil || size == 0 {
		return
	}

	end := start + size

	for _, w := range memorymap.CacheableWindows {
		if start >= w.VAddrEnd || end <= w.VAddr {
			// no overlap with this window
			continue
		}

		overlapStart := start
		if w.VAddr > overlapStart {
			overlapStart = w.VAddr
		}
		overlapEnd := end
		if w.VAddrEnd < overlapEnd {
			overlapEnd = w.VAddrEnd
		}

		physicalStart := w.PAddr + (overlapStart - w.VAddr)
		overlapSize := overlapEnd - overlapStart

		switch mode {
		case FlushModeFlush:
			mem.rasterizer.FlushRegion(physicalStart, overlapSize)
		case FlushModeInvalidate:
			mem.rasterizer.InvalidateRegion(physicalStart, overlapSize)
		case FlushModeFlushAndInvalidate:
			mem.rasterizer.FlushAndInvalidateRegion(physicalStart, overlapSize)
		}
	}
}

// RasterizerMarkRegionCached records that the rasterizer has started or
// stopped tracking a physical range. For every page in the range and for
// every virtual alias of that page, the cache marker is updated and every
// registered page table's attribute is switched: Memory becomes
// RasterizerCachedMemory with a nil pointer (forcing the slow path), and
// RasterizerCachedMemory becomes Memory with the pointer restored (resuming
// the fast path). Unmapped aliases are left alone; a process need not have
// every cacheable window in its address space.
//
// Marking a page in the direction it already holds is an invariant
// violation.
//
// May be called from the rasterizer thread. A start address of zero is a
// no-op.
func (mem *MemorySystem) RasterizerMarkRegionCached(start uint32, size uint32, cached bool) {
	if start == 0 {
		return
	}

	mem.crit.Lock()
	defer mem.crit.Unlock()

	numPages := ((start+size-1)>>memorymap.PageBits - start>>memorymap.PageBits) + 1
	paddr := start

	for i := uint32(0); i < numPages; i++ {
		for _, vaddr := range memorymap.PhysicalToVirtualAddressForRasterizer(paddr) {
			mem.cacheMarker.mark(vaddr, cached)

			for _, pt := range mem.pageTableList {
				idx := vaddr >> memorymap.PageBits

				if cached {
					switch pt.Attributes[idx] {
					case pagetable.Unmapped:
						// no mapping of this alias in this process
					case pagetable.Memory:
						pt.Attributes[idx] = pagetable.RasterizerCachedMemory
						pt.Pointers[idx] = nil
					default:
						panic(fmt.Sprintf("memory: caching a %s page @ %08x", pt.Attributes[idx], vaddr))
					}
				} else {
					switch pt.Attributes[idx] {
					case pagetable.Unmapped:
						// no mapping of this alias in this process
					case pagetable.RasterizerCachedMemory:
						pt.Attributes[idx] = pagetable.Memory
						pt.Pointers[idx] = mem.getPointerForRasterizerCache(vaddr &^ memorymap.PageMask)[:memorymap.PageSize]
					default:
						panic(fmt.Sprintf("memory: uncaching a %s page @ %08x", pt.Attributes[idx], vaddr))
					}
				}
			}
		}

		paddr += memorymap.PageSize
	}
}
