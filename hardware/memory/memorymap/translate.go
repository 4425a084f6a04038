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

package memorymap

import (
	"github.com/crocusemu/crocus3ds/logger"
)

// PhysicalToVirtualAddressForRasterizer returns every virtual address that
// aliases the supplied physical address in a cacheable window.
//
// VRAM addresses have exactly one alias. FCRAM addresses below the legacy
// model boundary have two, returned with the linear heap alias first and the
// new linear heap alias second. The enhanced-model tail of FCRAM is only
// visible through the new linear heap.
//
// A physical address outside VRAM and FCRAM has no alias and an empty list is
// returned. The physical<->virtual mapping is 1:1 for the regions supported
// by the cache but some guest programs use textures that run beyond the end
// of VRAM, so a failed translation is logged rather than treated as fatal.
func PhysicalToVirtualAddressForRasterizer(paddr uint32) []uint32 {
	if paddr >= VRAMPAddr && paddr < VRAMPAddrEnd {
		return []uint32{paddr - VRAMPAddr + VRAMVAddr}
	}
	if paddr >= FCRAMPAddr && paddr < FCRAMPAddrEnd {
		return []uint32{
			paddr - FCRAMPAddr + LinearHeapVAddr,
			paddr - FCRAMPAddr + NewLinearHeapVAddr,
		}
	}
	if paddr >= FCRAMPAddrEnd && paddr < FCRAMN3DSPAddrEnd {
		return []uint32{paddr - FCRAMPAddr + NewLinearHeapVAddr}
	}

	logger.Logf("memory", "invalid physical address for rasterizer: %08x", paddr)
	return nil
}
