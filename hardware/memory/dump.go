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
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
)

// the page tables themselves are far too large to graph so the dump
// summarises each one. shared identity matters: the current table appears
// as the same node in the graph as its entry in the registered list.
type pageTableDump struct {
	MappedPages int
	CachedPages int
}

type memoryDump struct {
	FCRAM      string
	VRAM       string
	ExtraRAM   string
	Current    *pageTableDump
	Registered []*pageTableDump
}

// Dump writes a graphviz (dot) description of the memory system's current
// shape to the writer: backing buffer sizes, every registered page table
// with mapped/cached page counts, and which of them is current. Intended for
// debugging sessions; render with the dot tool.
func (mem *MemorySystem) Dump(w io.Writer) {
	mem.crit.Lock()
	defer mem.crit.Unlock()

	summaries := make(map[*pagetable.PageTable]*pageTableDump)
	summarise := func(pt *pagetable.PageTable) *pageTableDump {
		if pt == nil {
			return nil
		}
		if d, ok := summaries[pt]; ok {
			return d
		}
		d := &pageTableDump{}
		for i := range pt.Attributes {
			switch pt.Attributes[i] {
			case pagetable.Memory:
				d.MappedPages++
			case pagetable.RasterizerCachedMemory:
				d.CachedPages++
			}
		}
		summaries[pt] = d
		return d
	}

	dump := memoryDump{
		FCRAM:    fmt.Sprintf("%dMB", len(mem.fcram)>>20),
		VRAM:     fmt.Sprintf("%dMB", len(mem.vram)>>20),
		ExtraRAM: fmt.Sprintf("%dMB", len(mem.n3dsExtraRAM)>>20),
		Current:  summarise(mem.currentPageTable),
	}
	for _, pt := range mem.pageTableList {
		dump.Registered = append(dump.Registered, summarise(pt))
	}

	memviz.Map(w, &dump)
}
