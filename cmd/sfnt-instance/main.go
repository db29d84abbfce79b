// seehuhn.de/go/instancer - instantiate variable OpenType fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command sfnt-instance converts a variable font into a static font.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"seehuhn.de/go/instancer"
	"seehuhn.de/go/instancer/internal/buildinfo"
	"seehuhn.de/go/instancer/internal/profile"
	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/varmodel"
)

var (
	outArg     = flag.String("o", "", "write the output to `file`")
	verbose    = flag.Bool("v", false, "show debug messages")
	quiet      = flag.Bool("q", false, "show only errors")
	workers    = flag.Int("workers", 1, "number of goroutines for glyph outlines")
	showVers   = flag.Bool("version", false, "print version information and exit")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
)

// tracer traces with key 'sfnt.instancer'.
func tracer() tracing.Trace {
	return tracing.Select("sfnt.instancer")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sfnt-instance: create a static instance of a variable font\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("sfnt-instance"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  sfnt-instance [options] <font.ttf> [TAG=value ...]\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  font.ttf    the variable font\n")
		fmt.Fprintf(os.Stderr, "  TAG=value   axis location in user space, e.g. wght=700\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nFonts whose GDEF table carries variation data are rejected,\n")
		fmt.Fprintf(os.Stderr, "since the layout tables cannot be instanced by this tool.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sfnt-instance Roboto.ttf wght=700 wdth=87.5\n")
		fmt.Fprintf(os.Stderr, "  sfnt-instance -o Light.ttf Roboto.ttf wght=300\n")
	}
	flag.Parse()

	if *showVers {
		fmt.Println(buildinfo.Short("sfnt-instance"))
		return
	}
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)
	loc, err := parseLocation(flag.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	output := *outArg
	if output == "" {
		output = outputName(input)
	}

	initDisplay()
	err = initTracing()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(input, output, loc)
	if err != nil {
		tracer().Errorf("%v", err)
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(input, output string, loc varmodel.Location) error {
	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer stop()

	start := time.Now()
	f, err := sfnt.ReadFile(input)
	if err != nil {
		return err
	}
	if name := fontName(f); name != "" && !*quiet {
		pterm.Info.Printfln("instancing %s", name)
	}
	err = instancer.Instantiate(f, loc, &instancer.Options{Workers: *workers})
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	err = f.WriteFile(output)
	if err != nil {
		return err
	}
	if !*quiet {
		pterm.Success.Printfln("wrote %s (%v)", output, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// initTracing routes the engine's trace output to the Go standard logger.
func initTracing() error {
	level := "Info"
	switch {
	case *verbose:
		level = "Debug"
	case *quiet:
		level = "Error"
	}

	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.sfnt.instancer": level,
	}
	err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true))
	if err != nil {
		return fmt.Errorf("cannot configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// initDisplay sets up pterm.  Colours are only used when stderr is a
// terminal.
func initDisplay() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		pterm.DisableStyling()
	}
	if *verbose {
		pterm.EnableDebugMessages()
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
