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

// Page geometry. Every address in the 32bit guest address space belongs to a
// 4096 byte page and the page table covers the entire space.
const (
	PageBits = 12
	PageSize = uint32(1) << PageBits
	PageMask = PageSize - 1

	// number of entries in a page table. large enough to cover all of the
	// 32bit address space
	PageTableNumEntries = uint32(1) << (32 - PageBits)
)

// The physical windows of the guest memory map. Each window is backed by one
// of the buffers owned by the memory system, except for DSP RAM which is
// owned by the audio DSP and only borrowed.
//
// Note that the N3DS extra RAM physical window and the VRAM virtual window
// share the numeric value 0x1f000000. They are different address spaces and
// the coincidence is harmless.
const (
	VRAMPAddr    = uint32(0x18000000)
	VRAMSize     = uint32(0x00600000)
	VRAMPAddrEnd = VRAMPAddr + VRAMSize

	N3DSExtraRAMPAddr    = uint32(0x1f000000)
	N3DSExtraRAMSize     = uint32(0x00400000)
	N3DSExtraRAMPAddrEnd = N3DSExtraRAMPAddr + N3DSExtraRAMSize

	DSPRAMPAddr    = uint32(0x1ff00000)
	DSPRAMSize     = uint32(0x00080000)
	DSPRAMPAddrEnd = DSPRAMPAddr + DSPRAMSize

	FCRAMPAddr    = uint32(0x20000000)
	FCRAMSize     = uint32(0x08000000)
	FCRAMPAddrEnd = FCRAMPAddr + FCRAMSize

	// the enhanced model doubles the amount of main RAM. the backing buffer
	// is always allocated at the enhanced size
	FCRAMN3DSSize     = uint32(0x10000000)
	FCRAMN3DSPAddrEnd = FCRAMPAddr + FCRAMN3DSSize
)

// The fixed virtual windows known to the memory core. The two linear heap
// windows are aliases of FCRAM; the guest OS uses one or the other depending
// on version but both can be live at once.
const (
	LinearHeapVAddr    = uint32(0x14000000)
	LinearHeapVAddrEnd = LinearHeapVAddr + FCRAMSize

	VRAMVAddr    = uint32(0x1f000000)
	VRAMVAddrEnd = VRAMVAddr + VRAMSize

	DSPRAMVAddr = uint32(0x1ff00000)

	NewLinearHeapVAddr    = uint32(0x30000000)
	NewLinearHeapVAddrEnd = NewLinearHeapVAddr + FCRAMN3DSSize
)

// CacheableWindow describes a virtual window whose contents can be tracked by
// the rasterizer cache, along with the physical address its first byte maps
// to.
type CacheableWindow struct {
	VAddr    uint32
	VAddrEnd uint32
	PAddr    uint32
}

// CacheableWindows is the fixed list of windows visible to the rasterizer
// cache. The order is meaningful: flush dispatch visits the windows in this
// order and tests rely on it.
var CacheableWindows = [3]CacheableWindow{
	{VAddr: LinearHeapVAddr, VAddrEnd: LinearHeapVAddrEnd, PAddr: FCRAMPAddr},
	{VAddr: NewLinearHeapVAddr, VAddrEnd: NewLinearHeapVAddrEnd, PAddr: FCRAMPAddr},
	{VAddr: VRAMVAddr, VAddrEnd: VRAMVAddrEnd, PAddr: VRAMPAddr},
}
