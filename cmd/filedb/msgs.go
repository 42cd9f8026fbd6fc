package filedb

// Short messages (one-liners)
const (
	MsgRootShort = "File ingestion into a rule-driven, searchable archive"
	MsgRootLong  = `filedb classifies files against named rules, moves each one into a
structured archive and records searchable metadata (event time, path, tags)
in a per-rule store.

Rules are read from the configuration file before every file, so edits apply
to the next file added.`

	MsgAddShort        = "Add files to the archive"
	MsgSearchShort     = "Search the metadata of a rule"
	MsgRulesShort      = "List the configured rules"
	MsgInitShort       = "Write a starter configuration"
	MsgWatchShort      = "Add files as they appear in a directory"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig       = "Configuration file (default $XDG_CONFIG_HOME/filedb/config.toml, or $FILEDB_CONFIG)"
	MsgFlagRootOverride = "Archive root for this run, overriding the configuration"
	MsgFlagOutput       = "Output format: auto, table, text, json, yaml"
	MsgFlagTags         = "Tag to attach; repeat or separate with commas"
	MsgFlagStart        = "Earliest event time, inclusive (e.g. 2022-01-01)"
	MsgFlagEnd          = "Latest event time, inclusive"
	MsgFlagSearchT      = "Comma-separated tags; rows with any of them match"
	MsgFlagParam        = "Column to return; repeat for several (default all)"
	MsgFlagQuery        = "Query document in JSON or YAML (parameter, starttime, endtime, tags)"
	MsgFlagForce        = "Overwrite an existing configuration file"
	MsgFlagManDir       = "Directory to write man pages to"

	MsgConfigWritten = "Configuration written to %s"
	MsgWatchStopped  = "Stopped watching %s"
	MsgAddSummary    = "%d added, %d skipped, %d already in the archive"

	MsgErrConfigExists = "configuration %s already exists (use --force to overwrite)"
)

const MsgCompletionLong = `To load completions:

Bash:
  $ source <(filedb completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ filedb completion zsh > "${fpath[1]}/_filedb"

Fish:
  $ filedb completion fish | source

PowerShell:
  PS> filedb completion powershell | Out-String | Invoke-Expression
`

const MsgSearchExample = `  filedb search general --start 2022-01-01 --end 2022-03-03
  filedb search general --tags count=0 --param path --param tags -o json
  filedb search general --query '{"starttime": "2022-01-01", "tags": [1, 2]}'`
