package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehuff700/cmdlink/pkg/commands/add"
	"github.com/ehuff700/cmdlink/pkg/commands/importcmd"
	"github.com/ehuff700/cmdlink/pkg/commands/list"
	"github.com/ehuff700/cmdlink/pkg/commands/refresh"
	"github.com/ehuff700/cmdlink/pkg/commands/remove"
	"github.com/ehuff700/cmdlink/pkg/commands/rename"
	"github.com/ehuff700/cmdlink/pkg/commands/setup"
	"github.com/ehuff700/cmdlink/pkg/commands/update"
	"github.com/ehuff700/cmdlink/pkg/errors"
)

func persistentBool(cmd *cobra.Command, name string) bool {
	value, _ := cmd.Root().PersistentFlags().GetBool(name)
	return value
}

// parseEnvFlags turns repeated KEY=VALUE flags into a map.
func parseEnvFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"environment entry %q is not KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}

// aliasNamesCompletion provides shell completion for alias names
func aliasNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	result, err := list.List(list.Options{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, entry := range result.Entries {
		if strings.HasPrefix(entry.Def.Name, toComplete) {
			names = append(names, entry.Def.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newAddCmd() *cobra.Command {
	var (
		dir         string
		envPairs    []string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add [flags] <name> <exec> [args...]",
		Short: MsgAddShort,
		Example: `  cmdlink add ll ls -la
  cmdlink add --dir ~/www serve python3 -m http.server`,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := parseEnvFlags(envPairs)
			if err != nil {
				return err
			}

			result, err := add.Add(cmd.Context(), add.Options{
				Name:        args[0],
				Exec:        args[1],
				Args:        args[2:],
				Dir:         dir,
				Env:         env,
				Description: description,
				DryRun:      persistentBool(cmd, "dry-run"),
			})
			if result != nil {
				fmt.Printf(MsgAliasAdded, result.Alias, result.ShimPath)
				reportOutcome(cmd, result.Warning, result.Elevated)
			}
			return err
		},
	}

	// Everything after the positionals belongs to the alias, so dash-prefixed
	// tokens like "ls -la" must not be parsed as add's own flags.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&dir, "dir", "", MsgFlagDir)
	cmd.Flags().StringArrayVarP(&envPairs, "env", "e", nil, MsgFlagEnv)
	cmd.Flags().StringVarP(&description, "description", "d", "", MsgFlagDescription)
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <name>",
		Aliases:           []string{"rm"},
		Short:             MsgRemoveShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: aliasNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := remove.Remove(cmd.Context(), remove.Options{
				Name:   args[0],
				DryRun: persistentBool(cmd, "dry-run"),
			})
			if result != nil {
				fmt.Printf(MsgAliasRemoved, result.Alias)
				reportOutcome(cmd, "", false)
			}
			return err
		},
	}
}

func newUpdateCmd() *cobra.Command {
	var (
		execName    string
		argList     []string
		dir         string
		envPairs    []string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: MsgUpdateShort,
		Example: `  cmdlink update ll --exec eza
  cmdlink update serve --dir ~/public --arg=-m --arg=http.server`,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: aliasNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := update.Options{
				Name:   args[0],
				DryRun: persistentBool(cmd, "dry-run"),
			}

			// Only flags the user actually set become overrides.
			if cmd.Flags().Changed("exec") {
				opts.Exec = &execName
			}
			if cmd.Flags().Changed("arg") {
				opts.Args = &argList
			}
			if cmd.Flags().Changed("dir") {
				opts.Dir = &dir
			}
			if cmd.Flags().Changed("env") {
				env, err := parseEnvFlags(envPairs)
				if err != nil {
					return err
				}
				if env == nil {
					env = map[string]string{}
				}
				opts.Env = &env
			}
			if cmd.Flags().Changed("description") {
				opts.Description = &description
			}

			result, err := update.Update(cmd.Context(), opts)
			if result != nil {
				fmt.Printf(MsgAliasUpdated, result.Alias)
				reportOutcome(cmd, result.Warning, result.Elevated)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&execName, "exec", "", MsgFlagExec)
	cmd.Flags().StringArrayVar(&argList, "arg", nil, MsgFlagArgs)
	cmd.Flags().StringVar(&dir, "dir", "", MsgFlagDir)
	cmd.Flags().StringArrayVarP(&envPairs, "env", "e", nil, MsgFlagEnv)
	cmd.Flags().StringVarP(&description, "description", "d", "", MsgFlagDescription)
	return cmd
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <from> <to>",
		Aliases:           []string{"mv"},
		Short:             MsgRenameShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: aliasNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rename.Rename(cmd.Context(), rename.Options{
				From:   args[0],
				To:     args[1],
				DryRun: persistentBool(cmd, "dry-run"),
			})
			if result != nil {
				fmt.Printf(MsgAliasRenamed, result.From, result.To)
				reportOutcome(cmd, result.Warning, result.Elevated)
			}
			return err
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := list.List(list.Options{})
			if err != nil {
				return err
			}
			renderList(cmd.OutOrStdout(), result, persistentBool(cmd, "plain"))
			return nil
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "refresh",
		Short:   MsgRefreshShort,
		Long:    MsgRefreshLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := refresh.Refresh(cmd.Context(), refresh.Options{
				DryRun: persistentBool(cmd, "dry-run"),
			})
			if err != nil {
				return err
			}

			if len(result.Materialized) == 0 && len(result.Removed) == 0 && !result.PathChanged {
				fmt.Println(MsgRefreshNoop)
			} else {
				fmt.Printf(MsgRefreshSummary, len(result.Materialized), len(result.Removed))
			}
			reportOutcome(cmd, "", result.Elevated)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "import <manifest.yaml>",
		Short:   MsgImportShort,
		Long:    MsgImportLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := importcmd.Import(cmd.Context(), importcmd.Options{
				Path:   args[0],
				DryRun: persistentBool(cmd, "dry-run"),
			})
			if result != nil {
				fmt.Printf(MsgImportSummary, len(result.Added), len(result.Skipped))
				reportOutcome(cmd, result.Warning, false)
			}
			return err
		},
	}
}

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "setup",
		Short:   MsgSetupShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := setup.Setup(cmd.Context(), setup.Options{
				DryRun: persistentBool(cmd, "dry-run"),
			})
			if result != nil {
				if result.ConfigCreated {
					fmt.Printf(MsgSetupConfig, result.ConfigFile)
				}
				fmt.Printf(MsgSetupDone, result.BinDir)
				if result.PathChanged {
					fmt.Println(MsgRestartShell)
				}
				reportOutcome(cmd, "", result.Elevated)
			}
			return err
		},
	}
}

// reportOutcome prints the shared post-command notices: warnings that must
// reach the user, elevation notes, and the dry-run banner.
func reportOutcome(cmd *cobra.Command, warning string, elevated bool) {
	plain := persistentBool(cmd, "plain")
	if warning != "" {
		printWarning(cmd.ErrOrStderr(), warning, plain)
	}
	if elevated {
		fmt.Fprintln(cmd.ErrOrStderr(), MsgPathElevated)
	}
	if persistentBool(cmd, "dry-run") {
		fmt.Println(MsgDryRunNotice)
	}
}
