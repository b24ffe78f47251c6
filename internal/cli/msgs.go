package cli

// Command descriptions
const (
	MsgRootShort = "Relocate and copy interlinked markdown without breaking links"
	MsgRootLong  = `docsync copies and moves files and folders inside a markdown dataset and
rewrites every relative link that the change would otherwise break.

All paths are relative to the dataset root, which is taken from --root,
then DOCSYNC_ROOT, then the enclosing git repository, then the current
directory.`

	MsgCopyShort       = "Copy a file or folder and fix the links in the copy"
	MsgMoveShort       = "Move a file or folder and fix every link that pointed at it"
	MsgDistributeShort = "Copy a folder into every configured target"
	MsgDownloadShort   = "Download a dataset bundle, resuming partial downloads"
	MsgRelinkShort     = "Rewrite root-style links into relative ones"
	MsgConfigShort     = "Inspect or create configuration"
	MsgConfigShowShort = "Print the effective configuration"
	MsgConfigInitShort = "Write a starter .docsync.toml into the dataset root"
	MsgVersionShort    = "Print version information"
)

// Output
const (
	MsgDryRunNotice     = "\nDRY RUN MODE - No changes were made"
	MsgCopiedFormat     = "%s %d file(s) into %s\n"
	MsgSkippedFormat    = "Skipped %d existing file(s)\n"
	MsgDeletedFormat    = "Deleted %d file(s) not present in the source\n"
	MsgLinksFormat      = "Rewrote %d link(s) in %d file(s)\n"
	MsgUnresolvedFormat = "  ! %d link(s) could not be resolved\n"
	MsgLinkErrorFormat  = "  ! %s\n"
	MsgSymlinkFormat    = "Symlink planned: %s -> %s\n"
	MsgDownloadedFormat = "Downloaded %s to %s%s\n"
	MsgResumedNotice    = " (resumed)"
	MsgExtractedFormat  = "Extracted %d file(s) into %s\n"
	MsgConfigWritten    = "Wrote %s\n"
	MsgConfigExists     = "%s already exists; use --force to overwrite\n"
	MsgFallbackRoot     = "Warning: no --root, DOCSYNC_ROOT or git repository; using current directory %s\n"
)

// Flag descriptions
const (
	MsgFlagVerbose           = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun            = "Preview changes without executing them"
	MsgFlagRoot              = "Dataset root directory"
	MsgFlagConfig            = "Additional config file layered over the dataset config"
	MsgFlagBehavior          = "Default behavior: overwrite, add, mirror or skip"
	MsgFlagFolderBehavior    = "Per-folder behavior as path=behavior (repeatable)"
	MsgFlagConcurrency       = "Maximum files processed at once by the link pass"
	MsgFlagFlatten           = "Flatten nested folders into hyphen-joined names"
	MsgFlagPrefix            = "Prefix added to the first path segment"
	MsgFlagSourceContentRoot = "Folder whose links are re-rooted under the target"
	MsgFlagRetries           = "Retries after the first attempt for transient failures"
	MsgFlagExtract           = "Extract the downloaded archive into this folder"
	MsgFlagDocs              = "Docs folder whose name may start a root-style link (repeatable)"
	MsgFlagExclude           = "Glob of files to leave alone (repeatable)"
	MsgFlagFormat            = "Output format: yaml or toml"
	MsgFlagForce             = "Overwrite an existing file"
)
