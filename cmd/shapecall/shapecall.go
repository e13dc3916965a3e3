// Command shapecall turns chemical-probing sequencing alignments into
// per-position mutation counts. Run without arguments for a list of
// subcommands.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

const version string = "0.1.0"

type subcommand struct {
	name     string
	function func(args []string)
	blurb    string
}

// subCommands lists every valid shapecall subcommand.
var subCommands = []*subcommand{
	{"parse", runParse, "locate and classify mutations from aligned reads into per-read records"},
	{"count", runCount, "accumulate per-read records into a per-position mutation count table"},
}

func usage() {
	s := new(strings.Builder)
	s.WriteString(
		"Program: shapecall (mutation calling for chemical-probing sequencing)\n" +
			"Version: " + version + "\n" +
			"\nUsage:\tshapecall <command> [options]\n\n" +
			"Commands:\n")

	w := tabwriter.NewWriter(s, 0, 8, 5, '\t', tabwriter.AlignRight)
	for _, c := range subCommands {
		fmt.Fprintf(w, "\t%s\t%s\n", c.name, c.blurb)
	}
	w.Flush()
	fmt.Print(s.String())
}

func commandMap() map[string]func(args []string) {
	m := make(map[string]func(args []string), len(subCommands))
	for _, c := range subCommands {
		m[c.name] = c.function
	}
	return m
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			errExit(fmt.Sprint(r))
		}
	}()
	flag.Usage = usage
	flag.Parse()

	command := commandMap()[flag.Arg(0)]
	if command == nil {
		usage()
		os.Exit(1)
	}
	command(flag.Args()[1:])
}

func errExit(err string) {
	fmt.Fprintln(os.Stderr, "ERROR: "+err)
	os.Exit(1)
}
