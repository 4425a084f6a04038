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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/crocusemu/crocus3ds/curated"
	"github.com/crocusemu/crocus3ds/hardware/memory"
	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
)

// amount of the linear heap the check works over. small enough to stay
// cache friendly on the host, large enough to walk many pages.
const soakSize = uint32(0x00400000)

// block transfer size used by the block phase of each pass.
const soakBlockSize = 0x10000

// soakProcess stands in for a kernel process during measurement.
type soakProcess struct {
	pt *pagetable.PageTable
}

func (p *soakProcess) PageTable() *pagetable.PageTable {
	return p.pt
}

// Check measures the throughput of the memory system's typed and block
// access paths. The measurement runs for the specified duration and the
// results are written to output.
//
// The memory system is built fresh, with no rasterizer attached: this is a
// measurement of the fast path and of page walking, not of flush dispatch.
func Check(output io.Writer, profile Profile, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	mem := memory.NewMemorySystem()

	proc := &soakProcess{pt: pagetable.NewPageTable()}
	mem.RegisterPageTable(proc.pt)
	mem.SetCurrentPageTable(proc.pt)
	mem.MapMemoryRegion(proc.pt, memorymap.LinearHeapVAddr, soakSize, mem.GetFCRAMPointer(0))

	var typedBytes, blockBytes int64
	block := make([]byte, soakBlockSize)

	runner := func() error {
		// expires when the measurement period is over
		timesUp := make(chan bool)
		time.AfterFunc(dur, func() {
			timesUp <- true
		})

		for {
			// typed phase. a write walk followed by a read walk
			for a := memorymap.LinearHeapVAddr; a < memorymap.LinearHeapVAddr+soakSize; a += 4 {
				mem.Write32(a, a)
			}
			for a := memorymap.LinearHeapVAddr; a < memorymap.LinearHeapVAddr+soakSize; a += 4 {
				if v := mem.Read32(a); v != a {
					return curated.Errorf("performance: readback of %08x gave %08x", a, v)
				}
			}
			typedBytes += 2 * int64(soakSize)

			// block phase. write/read straddling many page boundaries
			for a := memorymap.LinearHeapVAddr; a < memorymap.LinearHeapVAddr+soakSize; a += soakBlockSize {
				mem.WriteBlock(proc, a, block)
				mem.ReadBlock(proc, a, block)
			}
			blockBytes += 2 * int64(soakSize)

			select {
			case <-timesUp:
				return nil
			default:
			}
		}
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil {
		return err
	}

	seconds := dur.Seconds()
	output.Write([]byte(fmt.Sprintf("typed access: %.1f MB/s\n", float64(typedBytes)/seconds/(1<<20))))
	output.Write([]byte(fmt.Sprintf("block transfer: %.1f MB/s\n", float64(blockBytes)/seconds/(1<<20))))

	return nil
}
