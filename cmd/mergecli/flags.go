package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Merge    *string // Comma-separated list of files to merge
	Validate *string // Comma-separated list of files to validate
	Summary  *bool   // Print merge statistics without writing the output file

	// Preprocessing
	Clean        *bool
	Deduplicate  *bool
	SourceColumn *string

	// Export Options
	Columns       *string // Comma-separated list of columns to export
	Output        *string
	Sheet         *string
	Compress      *bool
	CompressLevel *int

	// Config
	Config       *string
	CreateConfig *bool

	// Misc
	Version *bool
	Help    *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Merge = flag.String("merge", "", "Merge tabular files into one XLSX (comma-separated file paths)")
	f.Validate = flag.String("validate", "", "Validate files without merging (comma-separated file paths)")
	f.Summary = flag.Bool("summary", false, "Print merge statistics instead of writing the output file")

	// Preprocessing
	f.Clean = flag.Bool("clean", false, "Remove all-null rows and trim text values")
	f.Deduplicate = flag.Bool("dedupe", false, "Remove exact duplicate rows")
	f.SourceColumn = flag.String("source-column", "", "Tag each row with the name of its source table")

	// Export Options
	f.Columns = flag.String("columns", "", "Columns to export (comma-separated, default: all)")
	f.Output = flag.String("output", "", "Output file path (default: auto-generated)")
	f.Sheet = flag.String("sheet", "", "Excel sheet name for the output file")
	f.Compress = flag.Bool("compress", false, "Enable zstd compression for the output file")
	f.CompressLevel = flag.Int("compress-level", 0, "Compression level: 1 (fastest) - 22 (best)")

	// Config
	f.Config = flag.String("config", "", "Configuration file path (default: built-in defaults)")
	f.CreateConfig = flag.Bool("create-config", false, "Create a sample configuration file")

	// Misc
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show help information")

	flag.Parse()
	return f
}

// commandWasSpecified checks if any command was specified
func commandWasSpecified(flags *Flags) bool {
	return *flags.Merge != "" ||
		*flags.Validate != "" ||
		*flags.CreateConfig
}
