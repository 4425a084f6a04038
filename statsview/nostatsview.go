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

//go:build !statsview
// +build !statsview

package statsview

import (
	"io"
)

// Address of the statsview HTTP server. Empty when the statsview build
// constraint is not present.
const Address = ""

// Launch starts no server; it only writes a message to output saying that
// statsview is not enabled in this build. Rebuild with the statsview build
// constraint to enable the stats server.
func Launch(output io.Writer) {
	output.Write([]byte("statsview not enabled in this build\n"))
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
