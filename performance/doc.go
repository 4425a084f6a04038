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

// Package performance measures the throughput of the memory subsystem and
// helps find its bottlenecks. The Check() function drives the typed and
// block access paths for a fixed wall clock duration; the RunProfiler()
// function wraps any function with the Go runtime's CPU and heap profilers.
//
// For interactive profiling prefer the statsview package, which serves the
// same information over HTTP while the program runs.
package performance
