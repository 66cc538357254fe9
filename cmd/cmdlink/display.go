package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/ehuff700/cmdlink/pkg/commands/list"
)

var (
	staleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func colorEnabled(plain bool, mode string) bool {
	if plain || mode == "never" {
		return false
	}
	if mode == "always" {
		return true
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func renderList(w io.Writer, result *list.Result, plain bool) {
	if len(result.Entries) == 0 {
		fmt.Fprintln(w, MsgNoAliases)
		return
	}

	color := colorEnabled(plain, result.ColorMode)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Command", "Description", "Status"})
	table.SetBorder(!plain)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, entry := range result.Entries {
		status := "ok"
		if entry.Stale {
			status = "stale"
		}
		if color {
			if entry.Stale {
				status = staleStyle.Render(status)
			} else {
				status = okStyle.Render(status)
			}
		}
		table.Append([]string{
			entry.Def.Name,
			entry.Def.CommandLine(),
			entry.Def.Description,
			status,
		})
	}
	table.Render()

	footer := fmt.Sprintf("Shims: %s", result.BinDir)
	if color {
		footer = dimStyle.Render(footer)
	}
	fmt.Fprintln(w, footer)

	if !result.PathInstalled {
		printWarning(w, result.BinDir+" is not on your PATH; run 'cmdlink setup'", plain)
	}
	if hasStale(result.Entries) {
		printWarning(w, "some shims are stale; run 'cmdlink refresh'", plain)
	}
}

func hasStale(entries []list.Entry) bool {
	for _, entry := range entries {
		if entry.Stale {
			return true
		}
	}
	return false
}

func printWarning(w io.Writer, message string, plain bool) {
	line := "Warning: " + message
	if colorEnabled(plain, "auto") {
		line = warningStyle.Render(line)
	}
	fmt.Fprintln(w, line)
}
