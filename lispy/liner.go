package lispy

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/glycerine/liner"
)

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lispyhist"
	}
	return filepath.Join(home, ".lispyhist")
}

// completionKeywords offers "(name " for every special form and
// builtin, plus the REPL's dot commands.
func completionKeywords(rt *Runtime) []string {
	kw := []string{`(`}
	for _, n := range SpecialFormNames {
		kw = append(kw, "("+n+" ")
	}
	for _, n := range rt.BuiltinNames() {
		kw = append(kw, "("+n+" ")
	}
	return append(kw, replCommands...)
}

type Prompter struct {
	prompt   string
	prompter *liner.State
	history  string
}

func NewPrompter(prompt string, rt *Runtime) *Prompter {
	p := &Prompter{
		prompt:   prompt,
		prompter: liner.NewLiner(),
		history:  historyFile(),
	}

	p.prompter.SetCtrlCAborts(false)

	keywords := completionKeywords(rt)
	p.prompter.SetCompleter(func(line string) (c []string) {
		for _, n := range keywords {
			if strings.HasPrefix(n, strings.ToLower(line)) {
				c = append(c, n)
			}
		}
		return
	})

	if f, err := os.Open(p.history); err == nil {
		p.prompter.ReadHistory(f)
		f.Close()
	}

	return p
}

func (p *Prompter) Close() {
	if p.prompter == nil {
		return
	}
	defer p.prompter.Close()
	if f, err := os.Create(p.history); err != nil {
		log.Print("Error writing history file: ", err)
	} else {
		p.prompter.WriteHistory(f)
		f.Close()
	}
}

func (p *Prompter) Getline(prompt *string) (line string, err error) {
	if prompt == nil {
		line, err = p.prompter.Prompt(p.prompt)
	} else {
		line, err = p.prompter.Prompt(*prompt)
	}
	if err == nil {
		p.prompter.AppendHistory(line)
		return line, nil
	}
	return "", err
}
