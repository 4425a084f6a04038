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

// Package memory implements the guest memory subsystem. The MemorySystem
// type owns the byte buffers that back main RAM, video RAM and the enhanced
// model's extra RAM, and translates every guest virtual address to a host
// location through per-process page tables.
//
// Four concerns meet on every access. The fast path must stay cheap because
// every emulated instruction fetch, load and store comes through here. The
// same physical frame can be visible at two virtual windows (the linear heap
// and the new linear heap) so physical state must fan out to every alias.
// Pages claimed by the rasterizer cache are accessed through a flush
// protocol that keeps GPU owned texture memory coherent with what the CPU
// sees. And several page tables can be live at once, one per guest process,
// all of which must agree about cache state.
//
// The page table discipline that makes the fast path work: a page with the
// Memory attribute always has a pointer, and a page needing any special
// handling never does. Selecting the fast path is therefore a single nil
// check and the rasterizer cache machinery costs nothing on pages it does
// not affect.
//
// Concurrency: the CPU side of the interface assumes external
// serialisation. RasterizerMarkRegionCached() may be called from the
// rasterizer thread and locks the critical section itself. Flushes are
// blocking calls into the rasterizer; there is no asynchronous flush.
package memory
