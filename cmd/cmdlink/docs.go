package main

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ehuff700/cmdlink/pkg/errors"
)

//go:embed topics/*.md
var topicFiles embed.FS

func topicNames() []string {
	entries, err := fs.ReadDir(topicFiles, "topics")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// renderTopic converts the topic's markdown for the terminal, falling back
// to the raw text when no TTY styling is possible.
func renderTopic(content string, plain bool) string {
	if plain {
		return content
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "docs [topic]",
		Short:   MsgDocsShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return topicNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Available topics:")
				for _, name := range topicNames() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
				}
				return nil
			}

			content, err := topicFiles.ReadFile("topics/" + args[0] + ".md")
			if err != nil {
				return errors.Newf(errors.ErrNotFound, "no documentation topic %q", args[0])
			}

			fmt.Fprint(cmd.OutOrStdout(), renderTopic(string(content), persistentBool(cmd, "plain")))
			return nil
		},
	}
}
