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

package memorymap_test

import (
	"testing"

	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/test"
)

func TestPageGeometry(t *testing.T) {
	test.Equate(t, memorymap.PageSize, uint32(4096))
	test.Equate(t, memorymap.PageMask, uint32(0xfff))
	test.Equate(t, memorymap.PageTableNumEntries, uint32(1<<20))
}

func TestTranslateVRAM(t *testing.T) {
	// VRAM addresses have exactly one alias
	v := memorymap.PhysicalToVirtualAddressForRasterizer(memorymap.VRAMPAddr)
	test.Equate(t, v, []uint32{memorymap.VRAMVAddr})

	v = memorymap.PhysicalToVirtualAddressForRasterizer(memorymap.VRAMPAddrEnd - 1)
	test.Equate(t, v, []uint32{memorymap.VRAMVAddrEnd - 1})
}

func TestTranslateFCRAM(t *testing.T) {
	// the legacy portion of FCRAM has two aliases: linear heap first, new
	// linear heap second
	v := memorymap.PhysicalToVirtualAddressForRasterizer(memorymap.FCRAMPAddr + 0x1000)
	test.Equate(t, v, []uint32{
		memorymap.LinearHeapVAddr + 0x1000,
		memorymap.NewLinearHeapVAddr + 0x1000,
	})

	// the enhanced model tail has only the new linear heap alias
	v = memorymap.PhysicalToVirtualAddressForRasterizer(memorymap.FCRAMPAddrEnd)
	test.Equate(t, v, []uint32{memorymap.NewLinearHeapVAddr + memorymap.FCRAMSize})

	v = memorymap.PhysicalToVirtualAddressForRasterizer(memorymap.FCRAMN3DSPAddrEnd - 1)
	test.Equate(t, v, []uint32{memorymap.NewLinearHeapVAddrEnd - 1})
}

func TestTranslateInvalid(t *testing.T) {
	// outside the cacheable regions there are no aliases
	test.Equate(t, len(memorymap.PhysicalToVirtualAddressForRasterizer(0)), 0)
	test.Equate(t, len(memorymap.PhysicalToVirtualAddressForRasterizer(memorymap.DSPRAMPAddr)), 0)
	test.Equate(t, len(memorymap.PhysicalToVirtualAddressForRasterizer(memorymap.FCRAMN3DSPAddrEnd)), 0)
	test.Equate(t, len(memorymap.PhysicalToVirtualAddressForRasterizer(memorymap.N3DSExtraRAMPAddr)), 0)
}

func TestCacheableWindows(t *testing.T) {
	// the linear heap windows share a physical base; VRAM has its own
	test.Equate(t, memorymap.CacheableWindows[0].PAddr, memorymap.FCRAMPAddr)
	test.Equate(t, memorymap.CacheableWindows[1].PAddr, memorymap.FCRAMPAddr)
	test.Equate(t, memorymap.CacheableWindows[2].PAddr, memorymap.VRAMPAddr)

	// windows are page aligned and do not overlap each other in virtual
	// space
	for i, w := range memorymap.CacheableWindows {
		test.Equate(t, w.VAddr&memorymap.PageMask, uint32(0))
		test.Equate(t, w.VAddrEnd&memorymap.PageMask, uint32(0))
		for j, x := range memorymap.CacheableWindows {
			if i == j {
				continue
			}
			test.Equate(t, w.VAddr >= x.VAddrEnd || w.VAddrEnd <= x.VAddr, true)
		}
	}
}
