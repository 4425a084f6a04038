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

package pagetable

import (
	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
)

// PageType describes what lies behind a page table entry.
type PageType int

// The valid PageType values. The zero value is Unmapped so a freshly
// allocated page table is entirely unmapped.
const (
	// the page is not backed by anything. reads return zero and writes are
	// dropped
	Unmapped PageType = iota

	// the page is backed by host memory and the entry's pointer is valid
	Memory

	// reserved for MMIO style pages. never produced by the current memory
	// system
	Special

	// the page is backed by host memory but is currently tracked by the
	// rasterizer cache. the entry's pointer is nil so that every access
	// takes the slow path and synchronises with the rasterizer
	RasterizerCachedMemory
)

func (p PageType) String() string {
	switch p {
	case Unmapped:
		return "Unmapped"
	case Memory:
		return "Memory"
	case Special:
		return "Special"
	case RasterizerCachedMemory:
		return "RasterizerCachedMemory"
	}

	return "undefined"
}

// PageTable maps every page of a guest process's virtual address space to
// host memory. The two slices are always PageTableNumEntries long and are
// indexed by vaddr >> PageBits.
//
// The entries obey a strict discipline: an entry with the Memory attribute
// has a non-nil pointer of exactly PageSize bytes; an entry with any other
// attribute has a nil pointer. Access routines select the fast path with a
// single nil check on the pointer and trust the attribute only when that
// check fails.
//
// Pointers alias the memory system's backing buffers. The page table does
// not own them and the backing buffers outlive every page table.
type PageTable struct {
	Pointers   [][]byte
	Attributes []PageType
}

// NewPageTable is the preferred method of initialisation for the PageTable
// type. The kernel allocates one for each guest process.
func NewPageTable() *PageTable {
	return &PageTable{
		Pointers:   make([][]byte, memorymap.PageTableNumEntries),
		Attributes: make([]PageType, memorymap.PageTableNumEntries),
	}
}

// Clear returns every entry to the Unmapped state.
func (pt *PageTable) Clear() {
	for i := range pt.Pointers {
		pt.Pointers[i] = nil
		pt.Attributes[i] = Unmapped
	}
}
