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
	"strings"
	"sync"

	"github.com/crocusemu/crocus3ds/hardware/memory/bus"
	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
	"github.com/crocusemu/crocus3ds/logger"
)

// MemorySystem is the guest memory subsystem. It owns the backing buffers
// for every RAM in the machine, tracks which pages the rasterizer cache has
// claimed, and dispatches every CPU side access to the right place.
//
// The memory system is not internally thread-safe. CPU side entry points
// must be externally serialised. The one exception is
// RasterizerMarkRegionCached() which may be called from the rasterizer
// thread and takes the critical section itself.
type MemorySystem struct {
	// protects pageTableList and the page table writes performed by
	// RasterizerMarkRegionCached()
	crit sync.Mutex

	// backing buffers. zero initialised and sized once at construction.
	// fcram is always allocated at the enhanced model size
	fcram        []byte
	vram         []byte
	n3dsExtraRAM []byte

	// the page table of the guest process currently scheduled on the CPU.
	// borrowed from the kernel, may be nil before the first context switch
	currentPageTable *pagetable.PageTable

	// every live page table. registered page tables receive attribute
	// updates when the rasterizer claims or releases pages
	pageTableList []*pagetable.PageTable

	cacheMarker *rasterizerCacheMarker

	// collaborators. both are injected after construction. a nil rasterizer
	// means flush dispatch is a no-op; a nil dsp means DSP physical
	// addresses cannot be resolved
	rasterizer bus.RasterizerBus
	dsp        bus.DSPBus
}

// NewMemorySystem is the preferred method of initialisation for the
// MemorySystem type.
func NewMemorySystem() *MemorySystem {
	return &MemorySystem{
		fcram:        make([]byte, memorymap.FCRAMN3DSSize),
		vram:         make([]byte, memorymap.VRAMSize),
		n3dsExtraRAM: make([]byte, memorymap.N3DSExtraRAMSize),
		cacheMarker:  newRasterizerCacheMarker(),
	}
}

func (mem *MemorySystem) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("FCRAM: %dMB / VRAM: %dMB / extra: %dMB",
		len(mem.fcram)>>20, len(mem.vram)>>20, len(mem.n3dsExtraRAM)>>20))
	s.WriteString(fmt.Sprintf(" / %d registered page tables", len(mem.pageTableList)))
	return s.String()
}

// SetDSP injects the audio DSP. Must be called before any physical address
// in the DSP window is resolved.
func (mem *MemorySystem) SetDSP(dsp bus.DSPBus) {
	mem.dsp = dsp
}

// SetRasterizer injects the rasterizer cache. Until it is called flush
// dispatch does nothing, which is the correct behaviour for headless
// operation and for the period before video starts.
func (mem *MemorySystem) SetRasterizer(rasterizer bus.RasterizerBus) {
	mem.rasterizer = rasterizer
}

// SetCurrentPageTable changes the page table used by the typed access
// functions. Called on every guest process context switch.
func (mem *MemorySystem) SetCurrentPageTable(pt *pagetable.PageTable) {
	mem.currentPageTable = pt
}

// GetCurrentPageTable returns the page table most recently given to
// SetCurrentPageTable().
func (mem *MemorySystem) GetCurrentPageTable() *pagetable.PageTable {
	return mem.currentPageTable
}

// RegisterPageTable adds a page table to the list of tables that receive
// attribute updates from RasterizerMarkRegionCached(). The kernel registers
// a process's table when the process is admitted. Registering the same table
// twice is undefined.
func (mem *MemorySystem) RegisterPageTable(pt *pagetable.PageTable) {
	mem.crit.Lock()
	defer mem.crit.Unlock()
	mem.pageTableList = append(mem.pageTableList, pt)
}

// UnregisterPageTable removes a page table from the registration list. The
// kernel must unregister a table before destroying the process that owns it.
func (mem *MemorySystem) UnregisterPageTable(pt *pagetable.PageTable) {
	mem.crit.Lock()
	defer mem.crit.Unlock()
	for i := range mem.pageTableList {
		if mem.pageTableList[i] == pt {
			mem.pageTableList = append(mem.pageTableList[:i], mem.pageTableList[i+1:]...)
			return
		}
	}
	panic("memory: unregistering a page table that was never registered")
}

// GetPointer returns host memory for the supplied virtual address, resolved
// through the current page table. Rasterizer cached pages resolve to their
// backing buffer without a flush; callers that need coherent contents should
// use the typed or block access functions instead. Returns nil for unmapped
// addresses.
func (mem *MemorySystem) GetPointer(vaddr uint32) []byte {
	p := mem.currentPageTable.Pointers[vaddr>>memorymap.PageBits]
	if p != nil {
		return p[vaddr&memorymap.PageMask:]
	}

	if mem.currentPageTable.Attributes[vaddr>>memorymap.PageBits] == pagetable.RasterizerCachedMemory {
		return mem.getPointerForRasterizerCache(vaddr)
	}

	logger.Logf("memory", "unknown GetPointer @ %08x", vaddr)
	return nil
}

// getPointerForRasterizerCache maps a virtual address inside one of the
// cacheable windows to the backing buffer byte it aliases. The returned
// slice begins at the supplied address and runs to the end of the backing
// buffer.
//
// Calling this with an address outside the cacheable windows is a
// programming error.
func (mem *MemorySystem) getPointerForRasterizerCache(vaddr uint32) []byte {
	if vaddr >= memorymap.LinearHeapVAddr && vaddr < memorymap.LinearHeapVAddrEnd {
		return mem.fcram[vaddr-memorymap.LinearHeapVAddr:]
	}
	if vaddr >= memorymap.NewLinearHeapVAddr && vaddr < memorymap.NewLinearHeapVAddrEnd {
		return mem.fcram[vaddr-memorymap.NewLinearHeapVAddr:]
	}
	if vaddr >= memorymap.VRAMVAddr && vaddr < memorymap.VRAMVAddrEnd {
		return mem.vram[vaddr-memorymap.VRAMVAddr:]
	}
	panic(fmt.Sprintf("memory: rasterizer cache pointer outside cacheable windows @ %08x", vaddr))
}

// GetPhysicalPointer returns host memory for the supplied physical address.
// The returned slice begins at the supplied address and runs to the end of
// the selected backing buffer. Returns nil for addresses outside every
// physical window.
//
// Resolving a DSP window address before SetDSP() has been called is a
// programming error.
func (mem *MemorySystem) GetPhysicalPointer(paddr uint32) []byte {
	if paddr >= memorymap.VRAMPAddr && paddr < memorymap.VRAMPAddrEnd {
		return mem.vram[paddr-memorymap.VRAMPAddr:]
	}
	if paddr >= memorymap.DSPRAMPAddr && paddr < memorymap.DSPRAMPAddrEnd {
		return mem.dsp.DSPMemory()[paddr-memorymap.DSPRAMPAddr:]
	}
	if paddr >= memorymap.FCRAMPAddr && paddr < memorymap.FCRAMN3DSPAddrEnd {
		return mem.fcram[paddr-memorymap.FCRAMPAddr:]
	}
	if paddr >= memorymap.N3DSExtraRAMPAddr && paddr < memorymap.N3DSExtraRAMPAddrEnd {
		return mem.n3dsExtraRAM[paddr-memorymap.N3DSExtraRAMPAddr:]
	}

	logger.Logf("memory", "unknown GetPhysicalPointer @ %08x", paddr)
	return nil
}

// IsValidPhysicalAddress returns true if the physical address falls inside
// one of the physical windows.
func (mem *MemorySystem) IsValidPhysicalAddress(paddr uint32) bool {
	return mem.GetPhysicalPointer(paddr) != nil
}

// IsValidVirtualAddress returns true if the virtual address is backed by
// anything in the process's page table. Rasterizer cached pages count as
// valid even though their table pointer is nil.
func IsValidVirtualAddress(proc bus.ProcessBus, vaddr uint32) bool {
	pt := proc.PageTable()

	if pt.Pointers[vaddr>>memorymap.PageBits] != nil {
		return true
	}

	return pt.Attributes[vaddr>>memorymap.PageBits] == pagetable.RasterizerCachedMemory
}

// GetFCRAMOffset returns the offset into FCRAM of a pointer previously
// obtained from GetFCRAMPointer() or GetPhysicalPointer(). Only slices
// handed out by the memory system are valid arguments; the offset is
// recovered from the slice capacity so a reslice that truncates capacity
// will give the wrong answer.
func (mem *MemorySystem) GetFCRAMOffset(p []byte) uint32 {
	if cap(p) > len(mem.fcram) {
		panic("memory: GetFCRAMOffset with a pointer from outside FCRAM")
	}
	return uint32(len(mem.fcram) - cap(p))
}

// GetFCRAMPointer returns host memory for the supplied offset into FCRAM.
func (mem *MemorySystem) GetFCRAMPointer(offset uint32) []byte {
	if offset > uint32(len(mem.fcram)) {
		panic(fmt.Sprintf("memory: GetFCRAMPointer offset out of range (%08x)", offset))
	}
	return mem.fcram[offset:]
}

// ReadCString reads a NUL terminated string through the current page table.
// Reading stops at the first NUL, after maxLength bytes, or at the first
// page without a direct pointer. Only the fast path is used: an unmapped or
// rasterizer cached page terminates the string.
func (mem *MemorySystem) ReadCString(vaddr uint32, maxLength uint32) string {
	s := strings.Builder{}
	for maxLength > 0 {
		p := mem.currentPageTable.Pointers[vaddr>>memorymap.PageBits]
		if p == nil {
			break
		}
		c := p[vaddr&memorymap.PageMask]
		if c == 0 {
			break
		}
		s.WriteByte(c)
		vaddr++
		maxLength--
	}
	return s.String()
}
