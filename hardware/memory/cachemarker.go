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
	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
)

// rasterizerCacheMarker records, one flag per page of each cacheable virtual
// window, whether the page is currently tracked by the rasterizer. The
// marker is what lets a page mapped into a fresh table inherit the cached
// attribute when the rasterizer started tracking the page before the
// mapping existed.
type rasterizerCacheMarker struct {
	vram          []bool
	linearHeap    []bool
	newLinearHeap []bool
}

func newRasterizerCacheMarker() *rasterizerCacheMarker {
	return &rasterizerCacheMarker{
		vram:          make([]bool, memorymap.VRAMSize>>memorymap.PageBits),
		linearHeap:    make([]bool, memorymap.FCRAMSize>>memorymap.PageBits),
		newLinearHeap: make([]bool, memorymap.FCRAMN3DSSize>>memorymap.PageBits),
	}
}

// at returns the window bitmap and page index for a virtual address, or
// false for addresses outside every cacheable window.
func (mk *rasterizerCacheMarker) at(vaddr uint32) ([]bool, uint32, bool) {
	if vaddr >= memorymap.VRAMVAddr && vaddr < memorymap.VRAMVAddrEnd {
		return mk.vram, (vaddr - memorymap.VRAMVAddr) >> memorymap.PageBits, true
	}
	if vaddr >= memorymap.LinearHeapVAddr && vaddr < memorymap.LinearHeapVAddrEnd {
		return mk.linearHeap, (vaddr - memorymap.LinearHeapVAddr) >> memorymap.PageBits, true
	}
	if vaddr >= memorymap.NewLinearHeapVAddr && vaddr < memorymap.NewLinearHeapVAddrEnd {
		return mk.newLinearHeap, (vaddr - memorymap.NewLinearHeapVAddr) >> memorymap.PageBits, true
	}
	return nil, 0, false
}

// mark the page containing vaddr. addresses outside the cacheable windows
// are ignored.
func (mk *rasterizerCacheMarker) mark(vaddr uint32, cached bool) {
	if pages, i, ok := mk.at(vaddr); ok {
		pages[i] = cached
	}
}

// isCached returns true if the page containing vaddr is tracked by the
// rasterizer. addresses outside the cacheable windows are never cached.
func (mk *rasterizerCacheMarker) isCached(vaddr uint32) bool {
	if pages, i, ok := mk.at(vaddr); ok {
		return pages[i]
	}
	return false
}
