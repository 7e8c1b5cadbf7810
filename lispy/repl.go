package lispy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/shurcooL/go-goon"
)

const Version = "1.0.0"

var replCommands = []string{".quit", ":q", ".ls", ".dump", ".json", ".unjson ", ".save ", ".load ", ".trace", ".untrace", ".verb"}

var precounts map[string]int

func CountPreHook(rt *Runtime, name string, args Seq) {
	precounts[name] += 1
}

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

var continuationPrompt = "... "

// getExpression reads one line, then more while the input so far only
// lacks closing parens. liner reads Stdin only; if noLiner, then we
// read from reader.
func (pr *Prompter) getExpression(reader *bufio.Reader, out io.Writer, noLiner bool) (string, error) {
	var line string
	var err error
	if noLiner {
		fmt.Fprint(out, pr.prompt)
		line, err = getLine(reader)
	} else {
		line, err = pr.Getline(nil)
	}
	if err != nil {
		return "", err
	}

	for IsIncomplete(line) {
		var nextline string
		if noLiner {
			fmt.Fprint(out, continuationPrompt)
			nextline, err = getLine(reader)
		} else {
			nextline, err = pr.Getline(&continuationPrompt)
		}
		if err != nil {
			return "", err
		}
		line += "\n" + nextline
	}
	return line, nil
}

// replState is what a REPL remembers between lines.
type replState struct {
	rt   *Runtime
	cfg  *Config
	out  io.Writer
	last Sexp
}

func (s *replState) show(x Sexp) {
	if s.cfg.Json {
		fmt.Fprintln(s.out, JsonString(x))
		return
	}
	fmt.Fprintln(s.out, Print(x))
}

// command runs a dot command. It reports whether line was one, and
// whether the REPL should stop.
func (s *replState) command(line string) (handled bool, quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, false
	}
	first := parts[0]
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), first))

	switch first {
	case ".quit", ":q":
		return true, true

	case ".ls":
		fmt.Fprint(s.out, s.rt.cls.Show())
		defs := s.rt.UserDefinitions()
		sort.Strings(defs)
		fmt.Fprintf(s.out, "user definitions: %s\n", strings.Join(defs, " "))

	case ".dump":
		if s.last == nil {
			fmt.Fprintln(s.out, "no result yet.")
		} else {
			fmt.Fprint(s.out, goon.Sdump(s.last))
		}

	case ".json":
		if s.last == nil {
			fmt.Fprintln(s.out, "no result yet.")
		} else {
			fmt.Fprintln(s.out, JsonString(s.last))
		}

	case ".unjson":
		x, err := JsonToSexp([]byte(arg))
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		} else {
			s.last = x
			fmt.Fprintln(s.out, Print(x))
		}

	case ".save":
		if arg == "" {
			fmt.Fprintln(s.out, "provide a file path to save the image to.")
		} else if err := s.rt.SaveImage(arg); err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
		} else {
			fmt.Fprintf(s.out, "saved %d definition(s) to '%s'\n", len(s.rt.userdefs), arg)
		}

	case ".load":
		if arg == "" {
			fmt.Fprintln(s.out, "provide a file path to load the image from.")
		} else if err := s.rt.LoadImage(arg); err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
		} else {
			fmt.Fprintf(s.out, "loaded '%s'\n", arg)
		}

	case ".trace":
		s.rt.Trace = true
		fmt.Fprintln(s.out, "tracing on.")

	case ".untrace":
		s.rt.Trace = false
		fmt.Fprintln(s.out, "tracing off.")

	case ".verb":
		Verbose = !Verbose
		fmt.Fprintf(s.out, "verbose: %v.\n", Verbose)

	default:
		return false, false
	}
	return true, false
}

// evalLine evaluates every expression on line and prints each result.
// Errors are printed, never returned: the REPL carries on.
func (s *replState) evalLine(line string) error {
	results, err := s.rt.EvalStrings(line)
	for _, v := range results {
		s.last = v
		s.show(v)
	}
	if err != nil {
		fmt.Fprintf(s.out, "%v\n", err)
		s.rt.Clear()
	}
	return err
}

func Repl(rt *Runtime, cfg *Config) {
	ReplLoop(rt, cfg, os.Stdin, OurStdout)
}

// ReplLoop runs the read-eval-print loop until in is exhausted or a
// quit command is read.
func ReplLoop(rt *Runtime, cfg *Config, in io.Reader, out io.Writer) {
	var reader *bufio.Reader
	if cfg.NoLiner {
		// reader is used if one wishes to drop the liner library.
		// Useful for not full terminal env, like under test.
		reader = bufio.NewReader(in)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "lispy version %s\n", Version)
		fmt.Fprintf(out, "press tab (repeatedly) to get completion suggestions. Ctrl-d or .quit to exit.\n")
	}
	var pr *Prompter
	if !cfg.NoLiner {
		pr = NewPrompter(cfg.Prompt, rt)
		defer pr.Close()
	} else {
		pr = &Prompter{prompt: cfg.Prompt}
	}

	s := &replState{rt: rt, cfg: cfg, out: out}
	for {
		line, err := pr.getExpression(reader, out, cfg.NoLiner)
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(out)
				return
			}
			fmt.Fprintln(out, err)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		handled, quit := s.command(line)
		if quit {
			return
		}
		if handled {
			continue
		}
		s.evalLine(line)
	}
}

func runScript(rt *Runtime, fname string, cfg *Config) error {
	by, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	s := &replState{rt: rt, cfg: cfg, out: OurStdout}
	return s.evalLine(string(by))
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *Config) {
	if code := replMain(cfg); code != 0 {
		os.Exit(code)
	}
}

// replMain does the work of ReplMain and returns the exit code. Every
// failure path returns rather than exits, so the -save image, the
// profiles and the call counts are still written.
func replMain(cfg *Config) (exitCode int) {
	Verbose = cfg.Verbose
	rt := NewRuntimeWithConfig(cfg)

	if cfg.CpuProfile != "" {
		f, err := os.Create(cfg.CpuProfile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		err = pprof.StartCPUProfile(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	precounts = make(map[string]int)
	if cfg.CountFuncCalls {
		rt.AddPreHook(CountPreHook)
		defer func() {
			names := make([]string, 0, len(precounts))
			for name := range precounts {
				names = append(names, name)
			}
			sort.Strings(names)
			Printf("Builtin calls:\n")
			for _, name := range names {
				Printf("\t%s: %d\n", name, precounts[name])
			}
		}()
	}

	if cfg.LoadImage != "" {
		if err := rt.LoadImage(cfg.LoadImage); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
	}
	if cfg.SaveImage != "" {
		defer func() {
			if err := rt.SaveImage(cfg.SaveImage); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				if exitCode == 0 {
					exitCode = 1
				}
			}
		}()
	}
	if cfg.MemProfile != "" {
		defer func() {
			if err := writeMemProfile(cfg.MemProfile); err != nil {
				fmt.Fprintln(os.Stderr, err)
				if exitCode == 0 {
					exitCode = 1
				}
			}
		}()
	}

	args := cfg.Flags.Args()
	switch {
	case cfg.Command != "":
		s := &replState{rt: rt, cfg: cfg, out: OurStdout}
		if err := s.evalLine(cfg.Command); err != nil {
			return 1
		}

	case len(args) > 0:
		if err := runScript(rt, args[0], cfg); err != nil {
			if cfg.ExitOnFailure {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				return 1
			}
			Repl(rt, cfg)
		}

	default:
		Repl(rt, cfg)
	}
	return 0
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pprof.Lookup("heap").WriteTo(f, 1)
}
