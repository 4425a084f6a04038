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

// Package bus defines the interfaces between the memory system and its
// collaborators. The memory system calls into the rasterizer and the
// rasterizer calls back into the memory system to mark regions cached; the
// narrow interfaces here break that cycle. Concrete implementations are
// injected after construction.
package bus

import (
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
)

// RasterizerBus defines the operations the memory system requires of the
// rasterizer cache. All three functions take a physical range and block
// until the rasterizer has finished with it.
type RasterizerBus interface {
	// write any GPU side contents for the range back to backing memory
	FlushRegion(start uint32, size uint32)

	// drop any GPU side contents for the range in preparation for a CPU
	// side write
	InvalidateRegion(start uint32, size uint32)

	// FlushRegion followed by InvalidateRegion as a single operation
	FlushAndInvalidateRegion(start uint32, size uint32)
}

// DSPBus defines the operations the memory system requires of the audio DSP.
// The DSP owns its own RAM; the memory system only borrows a reference to it
// when resolving physical addresses in the DSP window.
type DSPBus interface {
	DSPMemory() []byte
}

// ProcessBus defines the operations the memory system requires of a kernel
// process. Block transfers operate on the page table of an explicitly named
// process rather than the current one, which is what makes cross-process
// copies possible.
type ProcessBus interface {
	PageTable() *pagetable.PageTable
}
