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

// Package curated provides the error type used by the error returning
// surfaces of the project. Curated errors keep the creation pattern
// alongside the formatted message so callers can ask precise questions about
// an error chain.
//
// Create an error with Errorf, wrapping any causal error as one of the
// formatting values:
//
//	return curated.Errorf("performance: %v", err)
//
// Sentinel patterns can be declared as constants and matched with Is() or,
// for errors deeper in a chain, Has().
//
// Note that the memory access hot path never returns errors at all; guest
// faults are logged and normalised per the memory package's rules. Curated
// errors appear in the supporting tooling where failures are host side and
// recoverable.
package curated
