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

// Package memorymap describes the fixed portions of the guest memory map:
// page geometry, the physical windows that select a backing buffer, and the
// virtual windows that the memory core knows about without consulting a page
// table.
//
// Most of the virtual address space is under the control of the guest kernel
// and is described only by page tables. The windows defined here are the
// exception. They are at fixed addresses on every guest and the rasterizer
// cache depends on being able to translate between their virtual and
// physical forms without reference to any process.
//
// The two linear heap windows both alias FCRAM. A byte written through one
// window is immediately visible through the other, a property that follows
// from both windows mapping onto the same backing buffer and not from any
// explicit synchronisation.
package memorymap
