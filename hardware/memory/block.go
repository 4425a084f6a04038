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

	"github.com/crocusemu/crocus3ds/hardware/memory/bus"
	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
	"github.com/crocusemu/crocus3ds/logger"
)

// Block transfers walk the page table one page at a time, clipping each step
// to the end of the page, so a transfer may straddle any number of pages
// with different attributes. They operate on the page table of the named
// process, which need not be the current one.

// ReadBlock copies len(dest) bytes from the process's virtual address space
// into dest. Unmapped pages zero-fill their part of dest; rasterizer cached
// pages are flushed before copying.
func (mem *MemorySystem) ReadBlock(proc bus.ProcessBus, srcAddr uint32, dest []byte) {
	pt := proc.PageTable()

	size := len(dest)
	remaining := size
	pageIndex := srcAddr >> memorymap.PageBits
	pageOffset := srcAddr & memorymap.PageMask

	for remaining > 0 {
		copyAmount := int(memorymap.PageSize - pageOffset)
		if copyAmount > remaining {
			copyAmount = remaining
		}
		currentVAddr := pageIndex<<memorymap.PageBits + pageOffset

		switch pt.Attributes[pageIndex] {
		case pagetable.Unmapped:
			logger.Logf("memory", "unmapped ReadBlock @ %08x (start address = %08x, size = %d)",
				currentVAddr, srcAddr, size)
			zeroFill(dest[:copyAmount])
		case pagetable.Memory:
			p := pt.Pointers[pageIndex]
			if p == nil {
				panic(fmt.Sprintf("memory: mapped memory page without a pointer @ %08x", currentVAddr))
			}
			copy(dest[:copyAmount], p[pageOffset:])
		case pagetable.RasterizerCachedMemory:
			mem.RasterizerFlushVirtualRegion(currentVAddr, uint32(copyAmount), FlushModeFlush)
			copy(dest[:copyAmount], mem.getPointerForRasterizerCache(currentVAddr))
		default:
			panic(fmt.Sprintf("memory: unknown page attribute @ %08x", currentVAddr))
		}

		pageIndex++
		pageOffset = 0
		dest = dest[copyAmount:]
		remaining -= copyAmount
	}
}

// WriteBlock copies len(src) bytes from src into the process's virtual
// address space. Bytes destined for unmapped pages are discarded; rasterizer
// cached pages are invalidated before copying.
func (mem *MemorySystem) WriteBlock(proc bus.ProcessBus, destAddr uint32, src []byte) {
	pt := proc.PageTable()

	size := len(src)
	remaining := size
	pageIndex := destAddr >> memorymap.PageBits
	pageOffset := destAddr & memorymap.PageMask

	for remaining > 0 {
		copyAmount := int(memorymap.PageSize - pageOffset)
		if copyAmount > remaining {
			copyAmount = remaining
		}
		currentVAddr := pageIndex<<memorymap.PageBits + pageOffset

		switch pt.Attributes[pageIndex] {
		case pagetable.Unmapped:
			logger.Logf("memory", "unmapped WriteBlock @ %08x (start address = %08x, size = %d)",
				currentVAddr, destAddr, size)
		case pagetable.Memory:
			p := pt.Pointers[pageIndex]
			if p == nil {
				panic(fmt.Sprintf("memory: mapped memory page without a pointer @ %08x", currentVAddr))
			}
			copy(p[pageOffset:], src[:copyAmount])
		case pagetable.RasterizerCachedMemory:
			mem.RasterizerFlushVirtualRegion(currentVAddr, uint32(copyAmount), FlushModeInvalidate)
			copy(mem.getPointerForRasterizerCache(currentVAddr), src[:copyAmount])
		default:
			panic(fmt.Sprintf("memory: unknown page attribute @ %08x", currentVAddr))
		}

		pageIndex++
		pageOffset = 0
		src = src[copyAmount:]
		remaining -= copyAmount
	}
}

// ZeroBlock writes size zero bytes into the process's virtual address space.
// Equivalent to a WriteBlock of zeros but without the source buffer.
func (mem *MemorySystem) ZeroBlock(proc bus.ProcessBus, destAddr uint32, size int) {
	pt := proc.PageTable()

	remaining := size
	pageIndex := destAddr >> memorymap.PageBits
	pageOffset := destAddr & memorymap.PageMask

	for remaining > 0 {
		copyAmount := int(memorymap.PageSize - pageOffset)
		if copyAmount > remaining {
			copyAmount = remaining
		}
		currentVAddr := pageIndex<<memorymap.PageBits + pageOffset

		switch pt.Attributes[pageIndex] {
		case pagetable.Unmapped:
			logger.Logf("memory", "unmapped ZeroBlock @ %08x (start address = %08x, size = %d)",
				currentVAddr, destAddr, size)
		case pagetable.Memory:
			p := pt.Pointers[pageIndex]
			if p == nil {
				panic(fmt.Sprintf("memory: mapped memory page without a pointer @ %08x", currentVAddr))
			}
			zeroFill(p[int(pageOffset) : int(pageOffset)+copyAmount])
		case pagetable.RasterizerCachedMemory:
			mem.RasterizerFlushVirtualRegion(currentVAddr, uint32(copyAmount), FlushModeInvalidate)
			zeroFill(mem.getPointerForRasterizerCache(currentVAddr)[:copyAmount])
		default:
			panic(fmt.Sprintf("memory: unknown page attribute @ %08x", currentVAddr))
		}

		pageIndex++
		pageOffset = 0
		remaining -= copyAmount
	}
}

// CopyBlock copies size bytes from srcProc's address space to destProc's.
// Each source page is read byte-exact and then written through WriteBlock,
// so a source flush always precedes any destination invalidate for the same
// bytes. Unmapped source pages zero the corresponding destination range.
//
// Behaviour is undefined when source and destination ranges overlap within
// the same process.
func (mem *MemorySystem) CopyBlock(destProc bus.ProcessBus, srcProc bus.ProcessBus, destAddr uint32, srcAddr uint32, size int) {
	pt := srcProc.PageTable()

	remaining := size
	pageIndex := srcAddr >> memorymap.PageBits
	pageOffset := srcAddr & memorymap.PageMask

	for remaining > 0 {
		copyAmount := int(memorymap.PageSize - pageOffset)
		if copyAmount > remaining {
			copyAmount = remaining
		}
		currentVAddr := pageIndex<<memorymap.PageBits + pageOffset

		switch pt.Attributes[pageIndex] {
		case pagetable.Unmapped:
			logger.Logf("memory", "unmapped CopyBlock @ %08x (start address = %08x, size = %d)",
				currentVAddr, srcAddr, size)
			mem.ZeroBlock(destProc, destAddr, copyAmount)
		case pagetable.Memory:
			p := pt.Pointers[pageIndex]
			if p == nil {
				panic(fmt.Sprintf("memory: mapped memory page without a pointer @ %08x", currentVAddr))
			}
			mem.WriteBlock(destProc, destAddr, p[int(pageOffset):int(pageOffset)+copyAmount])
		case pagetable.RasterizerCachedMemory:
			mem.RasterizerFlushVirtualRegion(currentVAddr, uint32(copyAmount), FlushModeFlush)
			mem.WriteBlock(destProc, destAddr, mem.getPointerForRasterizerCache(currentVAddr)[:copyAmount])
		default:
			panic(fmt.Sprintf("memory: unknown page attribute @ %08x", currentVAddr))
		}

		pageIndex++
		pageOffset = 0
		destAddr += uint32(copyAmount)
		srcAddr += uint32(copyAmount)
		remaining -= copyAmount
	}
}

// CopyBlockWithin is the same-process form of CopyBlock.
func (mem *MemorySystem) CopyBlockWithin(proc bus.ProcessBus, destAddr uint32, srcAddr uint32, size int) {
	mem.CopyBlock(proc, proc, destAddr, srcAddr, size)
}

func zeroFill(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
