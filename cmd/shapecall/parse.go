package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/sam"

	"github.com/dasnellings/shapecall/pipeline"
	"github.com/dasnellings/shapecall/read"
)

func parseUsage(fs *flag.FlagSet) {
	fmt.Print(
		"parse - locate and classify mutations in aligned reads, writing one record per read (or merged pair)\n\n" +
			"Usage:\n" +
			"  shapecall parse [options] -i input.bam -o output.txt\n\n" +
			"Options:\n")
	fs.PrintDefaults()
}

func runParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	common := registerCommonFlags(fs)
	prof := registerProfileFlags(fs)
	input := fs.String("i", "stdin", "Input SAM/BAM file, coordinate sorted.")
	output := fs.String("o", "stdout", "Output intermediate record file.")
	err := fs.Parse(args)
	exception.PanicOnErr(err)
	fs.Usage = func() { parseUsage(fs) }
	defer prof.start()()

	cfg, err := common.buildConfig()
	if err != nil {
		errExit(err.Error())
	}

	reads, header := sam.GoReadToChan(*input)
	if len(header.Metadata.SortOrder) == 0 || header.Metadata.SortOrder[0] != sam.Coordinate {
		log.Fatal("ERROR: input must be coordinate sorted.")
	}
	pipeline.WarnUnknownTarget(header, cfg.TargetName)
	out := fileio.EasyCreate(*output)

	proc := pipeline.NewProcessor(cfg)
	emit := func(r read.Record) {
		fmt.Fprintln(out, pipeline.SerializeRecord(r))
	}
	for s := range reads {
		if err := proc.Process(s, emit); err != nil {
			errExit(err.Error())
		}
	}
	proc.Flush(emit)
	exception.PanicOnErr(out.Close())
}
