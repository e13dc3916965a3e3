package main

import (
	"flag"
	"log"

	"github.com/pkg/profile"
)

// profileFlags registers the -cpuprofile/-memprofile pair both
// subcommands accept, matching cmd/mcsCallVariants's use of
// github.com/pkg/profile.
type profileFlags struct {
	cpuprofile *bool
	memprofile *bool
}

func registerProfileFlags(fs *flag.FlagSet) *profileFlags {
	return &profileFlags{
		cpuprofile: fs.Bool("cpuprofile", false, "write a CPU profile to a pprof-format file in the working directory"),
		memprofile: fs.Bool("memprofile", false, "write a memory profile to a pprof-format file in the working directory"),
	}
}

// start begins profiling if requested, returning a stop func the caller
// must invoke before returning.
func (p *profileFlags) start() func() {
	if *p.memprofile && *p.cpuprofile {
		log.Fatal("ERROR: -memprofile and -cpuprofile are mutually exclusive.")
	}
	if *p.memprofile {
		return profile.Start(profile.MemProfile).Stop
	}
	if *p.cpuprofile {
		return profile.Start(profile.CPUProfile).Stop
	}
	return func() {}
}
