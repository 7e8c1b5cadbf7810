package lispy

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// configure a lispy repl
type Config struct {
	CpuProfile     string
	MemProfile     string
	ExitOnFailure  bool
	CountFuncCalls bool
	Flags          *flag.FlagSet
	Command        string
	Quiet          bool
	Trace          bool
	Verbose        bool

	// 0 means no limit beyond the Go stack.
	MaxDepth int

	// print results as JSON instead of s-expressions.
	Json bool

	// image to load before the first prompt, and image to write at exit.
	LoadImage string
	SaveImage string

	// liner bombs under emacs, avoid it with this flag.
	NoLiner bool
	Prompt  string // default "lispy> "
}

func NewConfig(cmdname string) *Config {
	return &Config{
		Flags: flag.NewFlagSet(cmdname, flag.ExitOnError),
	}
}

// call DefineFlags before myflags.Parse()
func (c *Config) DefineFlags() {
	c.Flags.StringVar(&c.CpuProfile, "cpuprofile", "", "write cpu profile to file")
	c.Flags.StringVar(&c.MemProfile, "memprofile", "", "write mem profile to file")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit on failure instead of starting repl")
	c.Flags.BoolVar(&c.CountFuncCalls, "countcalls", false, "count how many times each builtin is run")
	c.Flags.StringVar(&c.Command, "c", "", "expressions to evaluate")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the banner")
	c.Flags.BoolVar(&c.Trace, "trace", false, "trace special forms and applications (very verbose)")
	c.Flags.BoolVar(&c.Verbose, "verbose", false, "time-stamped debug logging")
	c.Flags.IntVar(&c.MaxDepth, "maxdepth", 0, "fail evaluation when calls nest deeper than this (0: no limit)")
	c.Flags.BoolVar(&c.Json, "json", false, "print results as JSON")
	c.Flags.StringVar(&c.LoadImage, "image", "", "load definitions from this image file at startup")
	c.Flags.StringVar(&c.SaveImage, "save", "", "save definitions to this image file on exit")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "read lines without line editing")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *Config) ValidateConfig() error {
	if c.Prompt == "" {
		c.Prompt = "lispy> "
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("-maxdepth must be >= 0, got %d", c.MaxDepth)
	}
	if c.LoadImage != "" && c.LoadImage == c.SaveImage {
		return fmt.Errorf("-image and -save name the same file '%s'; images are never overwritten", c.SaveImage)
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		c.NoLiner = true
	}
	return nil
}
