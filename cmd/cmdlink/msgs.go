package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Register command aliases as real executables"
	MsgAddShort     = "Register a new alias"
	MsgRemoveShort  = "Remove an alias and its shim"
	MsgUpdateShort  = "Change an existing alias"
	MsgRenameShort  = "Move an alias to a new name"
	MsgListShort    = "List registered aliases"
	MsgRefreshShort = "Regenerate shims and repair the search path"
	MsgImportShort  = "Register aliases from a YAML manifest"
	MsgSetupShort   = "Prepare directories, settings, and the search path"
	MsgDocsShort    = "Display a documentation topic"
	MsgVersionShort = "Print version information"

	// Status messages
	MsgDryRunNotice   = "\nDRY RUN MODE - No changes were made"
	MsgAliasAdded     = "Registered alias '%s' -> %s\n"
	MsgAliasRemoved   = "Removed alias '%s'\n"
	MsgAliasUpdated   = "Updated alias '%s'\n"
	MsgAliasRenamed   = "Renamed alias '%s' to '%s'\n"
	MsgNoAliases      = "No aliases registered. Try 'cmdlink add'."
	MsgRefreshSummary = "Refreshed %d shim(s), removed %d orphan(s)\n"
	MsgRefreshNoop    = "Everything up to date."
	MsgImportSummary  = "Imported %d alias(es), skipped %d existing\n"
	MsgSetupDone      = "cmdlink is ready. Shims live in %s\n"
	MsgSetupConfig    = "Wrote default settings to %s\n"
	MsgPathElevated   = "The search-path change required elevation."
	MsgRestartShell   = "Open a new shell for the PATH change to take effect."

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagQuiet       = "Only log errors to the console"
	MsgFlagDryRun      = "Preview changes without executing them"
	MsgFlagPlain       = "Disable colors and table borders"
	MsgFlagExec        = "Target executable the alias runs"
	MsgFlagArgs        = "Arguments placed before the user's own"
	MsgFlagDir         = "Working directory for the target"
	MsgFlagEnv         = "Environment variable for the target (KEY=VALUE, repeatable)"
	MsgFlagDescription = "Free-form description shown by list"
)

// Long messages (multi-line)
const (
	MsgRootLong = `cmdlink turns shell aliases into real executables. Every registered alias
gets a small shim on your PATH, so it works from any shell, scripts, and
tools that spawn commands directly.`

	MsgListLong = `List shows every registered alias, its target command line, and whether
its shim on disk still matches the stored definition. Stale shims are
fixed with 'cmdlink refresh'.`

	MsgRefreshLong = `Refresh rewrites every shim from the stored definitions, deletes shims
whose alias no longer exists, and re-adds the shim directory to the
search path if it went missing. Run it after a partially applied
operation or a denied elevation prompt.`

	MsgImportLong = `Import reads a YAML manifest of aliases and registers every entry that
does not exist yet. Entries are either full definitions or a shorthand
command line:

  ll:
    exec: ls
    args: ["-la"]
    description: long listing
  gs: git status`
)
