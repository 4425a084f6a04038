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

// Package modalflag is a wrapper around the flag package in the Go standard
// library. It provides mode-oriented handling of command line arguments: a
// program mode is a non-flag argument that selects which flags and arguments
// follow. Modes can be nested.
//
// The basic pattern is:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.NewMode()
//	md.AddSubModes("RUN", "PERFORMANCE")
//	p, err := md.Parse()
//	...
//	switch md.Mode() {
//	...
//	}
//
// Sub-mode comparison is case insensitive and the first sub-mode added is
// the default when the user names none.
package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const modeSeparator = "/"

// Modes provides mode-oriented handling of command line arguments. The
// Output field should be specified before calling Parse() or you will not
// see any help messages.
type Modes struct {
	// where to print output (help messages etc). defaults to no output
	Output io.Writer

	// the underlying flagset. recreated on every call to NewMode()
	flags *flag.FlagSet

	// the argument list as specified by NewArgs() and how far into it
	// parsing has progressed
	args    []string
	argsIdx int

	// sub-modes valid for the next call to Parse(). the first entry is the
	// default
	subModes []string

	// the series of modes encountered over successive calls to Parse()
	path []string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the last mode to be encountered.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every mode encountered during parsing, separated by slashes.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs initialises the Modes struct with a list of arguments (from the
// command line for example).
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.NewMode()
}

// NewMode indicates that further arguments should be considered part of a
// new mode.
func (md *Modes) NewMode() {
	md.subModes = md.subModes[:0]
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
}

// AddSubModes adds to the list of sub-modes for the next call to Parse().
// The first sub-mode in the list is the default. Sub-mode comparison is case
// insensitive.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// The valid ParseResult values.
const (
	// continue with command line processing. if sub-modes were specified
	// then the Mode() function says which one was selected
	ParseContinue ParseResult = iota

	// help was requested and has been printed
	ParseHelp

	// an error occurred and is returned as the second return value
	ParseError
)

// Parse the current layer of arguments. Help messages are printed to the
// Output field automatically; the ParseHelp result says that has happened
// and the caller should end quietly.
func (md *Modes) Parse() (ParseResult, error) {
	hw := &helpWriter{}
	md.flags.SetOutput(hw)

	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if err == flag.ErrHelp {
			if md.Output != nil {
				hw.help(md.Output, md.Path(), md.subModes)
			}
			return ParseHelp, nil
		}
		return ParseError, err
	}

	if len(md.subModes) > 0 {
		arg := strings.ToUpper(md.flags.Arg(0))

		// assume the default sub-mode until the first argument proves
		// otherwise
		mode := md.subModes[0]
		for _, m := range md.subModes {
			if m == arg {
				mode = arg
				md.argsIdx++
				break // for loop
			}
		}

		md.path = append(md.path, mode)
	}

	return ParseContinue, nil
}

// RemainingArgs returns the arguments left over after a call to Parse() ie.
// arguments that aren't flags or a listed sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.flags.Args()
}

// GetArg returns the numbered argument that isn't a flag or listed sub-mode.
func (md *Modes) GetArg(i int) string {
	return md.flags.Arg(i)
}

// AddBool flag for next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddDuration flag for next call to Parse().
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

// AddInt flag for next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddString flag for next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// helpWriter buffers the output of the flag package so it can be amended
// before being passed on.
type helpWriter struct {
	buffer []byte
}

func (hw *helpWriter) Write(p []byte) (n int, err error) {
	hw.buffer = append(hw.buffer, p...)
	return len(p), nil
}

func (hw *helpWriter) help(output io.Writer, banner string, subModes []string) {
	s := string(hw.buffer)

	if banner != "" {
		output.Write([]byte(fmt.Sprintf("Usage of %s mode:\n", banner)))
	}

	// the flag package's own help output, minus its default banner line
	helpLines := strings.Split(s, "\n")
	if len(helpLines) > 1 {
		output.Write([]byte(strings.Join(helpLines[1:], "\n")))
	}

	if len(subModes) > 0 {
		output.Write([]byte(fmt.Sprintf("  available sub-modes: %s\n", strings.Join(subModes, ", "))))
		output.Write([]byte(fmt.Sprintf("    default: %s\n", subModes[0])))
	}
}
