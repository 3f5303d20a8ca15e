package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"termquest/content"
	"termquest/vfs"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a content file and print its quest world",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := contentPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = content.EnvPath()
			}
			return check(cmd.OutOrStdout(), path)
		},
	}
}

func check(w io.Writer, path string) error {
	c, err := content.Load(path)
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "invalid content: %v\n", err)
		return err
	}

	name := path
	if name == "" {
		name = "built-in content"
	}
	color.New(color.FgGreen).Fprintf(w, "%s is valid\n", name)
	fmt.Fprintf(w, "sandbox: user %s, home %s, %d nodes\n", c.Sandbox.User, c.Sandbox.Home, vfs.CountNodes(c.Sandbox.Root))
	fmt.Fprintf(w, "quest: user %s, start %s, unlocked %d\n\n", c.Quest.User, c.Quest.Start, len(c.Quest.Unlocked))

	t := table.New("Location", "Name", "Files", "Dirs", "Chest", "Grants").WithWriter(w)
	for _, row := range c.Summarize() {
		t.AddRow(row.ID, row.Name, strconv.Itoa(row.Files), strconv.Itoa(row.Directories), row.Chest, row.Grants)
	}
	t.Print()
	return nil
}
