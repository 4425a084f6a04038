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

package main

import (
	"fmt"
	"os"

	"github.com/crocusemu/crocus3ds/curated"
	"github.com/crocusemu/crocus3ds/hardware/memory"
	"github.com/crocusemu/crocus3ds/hardware/memory/memorymap"
	"github.com/crocusemu/crocus3ds/hardware/memory/pagetable"
	"github.com/crocusemu/crocus3ds/logger"
	"github.com/crocusemu/crocus3ds/modalflag"
	"github.com/crocusemu/crocus3ds/performance"
	"github.com/crocusemu/crocus3ds/statsview"
	"github.com/crocusemu/crocus3ds/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "PERFORMANCE")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "PERFORMANCE":
		err = perform(md)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}
}

// run exercises the memory subsystem with a short self check: two guest
// processes, the linear heap aliases, a cross process copy and a block
// straddle. This is the closest thing the project has to switching the
// machine on.
func run(md *modalflag.Modes) error {
	md.NewMode()
	echoLog := md.AddBool("log", false, "echo log entries to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run statsview server (available: %v)", statsview.Available()))
	dumpFile := md.AddString("dump", "", "write a dot graph of the memory system to the named file")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *echoLog {
		logger.SetEcho(os.Stdout)
	}
	if *stats {
		statsview.Launch(os.Stdout)
	}

	fmt.Printf("%s (%s)\n", version.ApplicationName, version.Version)

	mem := memory.NewMemorySystem()

	// process A sees FCRAM through the linear heap, process B through the
	// new linear heap
	procA := &process{pt: pagetable.NewPageTable()}
	procB := &process{pt: pagetable.NewPageTable()}
	mem.RegisterPageTable(procA.pt)
	mem.RegisterPageTable(procB.pt)
	mem.MapMemoryRegion(procA.pt, memorymap.LinearHeapVAddr, memorymap.PageSize*16, mem.GetFCRAMPointer(0))
	mem.MapMemoryRegion(procB.pt, memorymap.NewLinearHeapVAddr, memorymap.PageSize*16, mem.GetFCRAMPointer(0))

	// typed access through process A
	mem.SetCurrentPageTable(procA.pt)
	mem.Write32(memorymap.LinearHeapVAddr, 0xdeadbeef)
	if v := mem.Read32(memorymap.LinearHeapVAddr); v != 0xdeadbeef {
		return curated.Errorf("run: typed readback gave %08x", v)
	}

	// the same bytes through process B's alias
	mem.SetCurrentPageTable(procB.pt)
	if v := mem.Read32(memorymap.NewLinearHeapVAddr); v != 0xdeadbeef {
		return curated.Errorf("run: alias readback gave %08x", v)
	}

	// a cross process block copy, straddling a page boundary
	greeting := []byte("hello from the linear heap")
	mem.WriteBlock(procA, memorymap.LinearHeapVAddr+memorymap.PageSize-8, greeting)
	mem.CopyBlock(procB, procA, memorymap.NewLinearHeapVAddr+0x100, memorymap.LinearHeapVAddr+memorymap.PageSize-8, len(greeting))
	mem.SetCurrentPageTable(procB.pt)
	if s := mem.ReadCString(memorymap.NewLinearHeapVAddr+0x100, 64); s != string(greeting) {
		return curated.Errorf("run: copied string gave %q", s)
	}

	fmt.Println(mem.String())
	fmt.Println("self check ok")

	if *dumpFile != "" {
		f, err := os.Create(*dumpFile)
		if err != nil {
			return err
		}
		defer f.Close()
		mem.Dump(f)
		fmt.Printf("memory system graph written to %s\n", *dumpFile)
	}

	return nil
}

// perform measures memory system throughput. see the performance package.
func perform(md *modalflag.Modes) error {
	md.NewMode()
	echoLog := md.AddBool("log", false, "echo log entries to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run statsview server (available: %v)", statsview.Available()))
	duration := md.AddString("duration", "5s", "run duration")
	profile := md.AddString("profile", "none", "run through the profiler (none, cpu, mem, all)")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *echoLog {
		logger.SetEcho(os.Stdout)
	}
	if *stats {
		statsview.Launch(os.Stdout)
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	return performance.Check(os.Stdout, prf, *duration)
}

// process is the kernel process stand-in used by the self check.
type process struct {
	pt *pagetable.PageTable
}

func (p *process) PageTable() *pagetable.PageTable {
	return p.pt
}
