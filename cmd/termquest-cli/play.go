package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"termquest/content"
	"termquest/interpreter"
	"termquest/terminal"
)

var (
	errorColor    = color.New(color.FgRed)
	hintColor     = color.New(color.FgYellow)
	treasureColor = color.New(color.FgGreen, color.Bold)
	locationColor = color.New(color.FgCyan)
	promptColor   = color.New(color.FgBlue, color.Bold)
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "play [sandbox|quest]",
		Short:     "Start an interactive terminal",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(terminal.VariantSandbox), string(terminal.VariantQuest)},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			variant, err := terminal.ParseVariant(name)
			if err != nil {
				return err
			}

			path := contentPath
			if path == "" {
				path = content.EnvPath()
			}
			c, err := content.Load(path)
			if err != nil {
				return err
			}
			return play(c, variant)
		},
	}
}

type player struct {
	term *terminal.Terminal
	user string
}

func newPlayer(c *content.Content, variant terminal.Variant) (*player, error) {
	manager := terminal.NewManager(c, terminal.Options{Logger: zap.NewNop()})
	t, err := manager.Create(variant)
	if err != nil {
		return nil, err
	}
	user := c.Sandbox.User
	if variant == terminal.VariantQuest {
		user = c.Quest.User
	}
	return &player{term: t, user: user}, nil
}

func (p *player) prompt() string {
	return promptColor.Sprintf("%s@termquest:%s$ ", p.user, p.term.State().Path)
}

// completions turns the completion of line into whole replacement lines,
// which is what readline's prefix completer matches against.
func (p *player) completions(line string) []string {
	completion := p.term.Complete(line)
	base := strings.TrimSuffix(line, completion.Prefix)
	names := make([]string, 0, len(completion.Candidates))
	for _, c := range completion.Candidates {
		names = append(names, base+c)
	}
	return names
}

func play(c *content.Content, variant terminal.Variant) error {
	p, err := newPlayer(c, variant)
	if err != nil {
		return err
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:          p.prompt(),
		AutoComplete:    readline.NewPrefixCompleter(readline.PcItemDynamic(p.completions)),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer l.Close()

	fmt.Fprintf(l.Stdout(), "Welcome to the %s terminal. Type 'help' to begin, 'exit' to leave.\n", variant)
	for {
		l.SetPrompt(p.prompt())
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "exit" {
			return nil
		}
		render(l.Stdout(), p.term.Execute(line))
	}
}

func render(w io.Writer, res interpreter.Result) {
	if res.Cleared() {
		fmt.Fprint(w, "\033[H\033[2J")
		return
	}
	for _, line := range res.Output {
		fmt.Fprintln(w, line)
	}
	if res.Error != "" {
		errorColor.Fprintln(w, res.Error)
	}
	if res.Suggestion != "" {
		hintColor.Fprintln(w, res.Suggestion)
	}
	if res.LocationChanged != "" {
		locationColor.Fprintf(w, "[you arrive at %s]\n", res.LocationChanged)
	}
	switch res.TreasureUnlocked {
	case "":
	case interpreter.MasterUnlock:
		treasureColor.Fprintln(w, "*** Every command is unlocked. Quest complete! ***")
	default:
		treasureColor.Fprintf(w, "*** Unlocked: %s ***\n", res.TreasureUnlocked)
	}
}
