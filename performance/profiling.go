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
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/crocusemu/crocus3ds/curated"
)

// Profile says which profiles RunProfiler should gather.
type Profile int

// The valid Profile values.
const (
	ProfileNone Profile = 0x00
	ProfileCPU  Profile = 0x01
	ProfileMem  Profile = 0x02
	ProfileAll  Profile = ProfileCPU | ProfileMem
)

// ParseProfile converts a command line string to a Profile value. Accepted
// strings are NONE, CPU, MEM and ALL (case insensitive).
func ParseProfile(s string) (Profile, error) {
	switch strings.ToUpper(s) {
	case "NONE":
		return ProfileNone, nil
	case "CPU":
		return ProfileCPU, nil
	case "MEM":
		return ProfileMem, nil
	case "ALL":
		return ProfileAll, nil
	}
	return ProfileNone, curated.Errorf("profile: unrecognised profile (%s)", s)
}

// RunProfiler runs the supplied function, gathering the requested profiles
// around it. Profile files are named <tag>_cpu.profile and
// <tag>_mem.profile and are written to the current directory.
func RunProfiler(profile Profile, tag string, run func() error) error {
	if profile&ProfileCPU == ProfileCPU {
		f, err := os.Create(fmt.Sprintf("%s_cpu.profile", tag))
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer f.Close()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	err := run()
	if err != nil {
		return err
	}

	if profile&ProfileMem == ProfileMem {
		f, err := os.Create(fmt.Sprintf("%s_mem.profile", tag))
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
		defer f.Close()

		runtime.GC()
		err = pprof.WriteHeapProfile(f)
		if err != nil {
			return curated.Errorf("profile: %v", err)
		}
	}

	return nil
}
