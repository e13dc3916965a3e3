package main

import (
	"flag"
	"fmt"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"

	"github.com/dasnellings/shapecall/pipeline"
)

func countUsage(fs *flag.FlagSet) {
	fmt.Print(
		"count - accumulate parsed records into a per-position mutation count table\n\n" +
			"Usage:\n" +
			"  shapecall count [options] -i parsed.txt -o counts.txt\n\n" +
			"Options:\n")
	fs.PrintDefaults()
}

func runCount(args []string) {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	common := registerCommonFlags(fs)
	prof := registerProfileFlags(fs)
	input := fs.String("i", "stdin", "Input intermediate record file, produced by 'shapecall parse'.")
	output := fs.String("o", "stdout", "Output count table.")
	err := fs.Parse(args)
	exception.PanicOnErr(err)
	fs.Usage = func() { countUsage(fs) }
	defer prof.start()()

	cfg, err := common.buildConfig()
	if err != nil {
		errExit(err.Error())
	}

	acc := pipeline.NewAccumulator(cfg)
	out := fileio.EasyCreate(*output)
	if !cfg.VariantMode {
		fmt.Fprintln(out, cfg.ColumnLayout.Header())
	}

	in := fileio.EasyOpen(*input)
	for line, done := fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		r, perr := pipeline.ParseRecord(line)
		if perr != nil {
			errExit(perr.Error())
		}
		acc.ExtendRight(r.Right)
		acc.Update(r)
		if werr := acc.AdvanceLeft(r.Left, out); werr != nil {
			errExit(werr.Error())
		}
	}
	exception.PanicOnErr(in.Close())

	if cfg.ReferenceLength > 0 {
		acc.ExtendRight(cfg.ReferenceLength - 1)
	}
	if werr := acc.AdvanceLeft(1<<62, out); werr != nil {
		errExit(werr.Error())
	}
	exception.PanicOnErr(out.Close())
}
