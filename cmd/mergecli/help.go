package main

import "fmt"

const version = "1.0.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("mergecli version %s\n", version)
	fmt.Println("DataMerge - Tabular File Merge Toolkit")
	fmt.Println("https://github.com/lijianqiao/datamerge")
}

// PrintHelp prints comprehensive help information
func PrintHelp() {
	fmt.Println("DataMerge CLI - Merge CSV, Excel and SQLite files into one XLSX")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  mergecli [command] [options]")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println("    --merge <files>            Merge files into one XLSX (comma-separated paths)")
	fmt.Println("    --validate <files>         Validate files without merging")
	fmt.Println("    --summary                  Print merge statistics instead of writing output")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println()

	fmt.Println("  Preprocessing:")
	fmt.Println("    --clean                    Remove all-null rows and trim text values")
	fmt.Println("    --dedupe                   Remove exact duplicate rows")
	fmt.Println("    --source-column <name>     Tag each row with its source table name")
	fmt.Println()

	fmt.Println("  Export:")
	fmt.Println("    --columns <list>           Columns to export (comma-separated, default: all)")
	fmt.Println("    --output <file>            Output file path (default: auto-generated)")
	fmt.Println("    --sheet <name>             Excel sheet name (default: Sheet1)")
	fmt.Println("    --compress                 Enable zstd compression for the output file")
	fmt.Println("    --compress-level <n>       Compression level: 1 (fastest) - 22 (best)")
	fmt.Println()

	fmt.Println("  Config:")
	fmt.Println("    --config <file>            Configuration file path")
	fmt.Println("    --create-config            Create a sample configuration file")
	fmt.Println()

	fmt.Println("  Misc:")
	fmt.Println("    --version                  Show version information")
	fmt.Println("    --help                     Show this help")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println("  # Merge two CSV files")
	fmt.Println("  mergecli --merge january.csv,february.csv --output q1.xlsx")
	fmt.Println()
	fmt.Println("  # Merge with cleaning and deduplication, tag source rows")
	fmt.Println("  mergecli --merge a.csv,b.xlsx --clean --dedupe --source-column origin")
	fmt.Println()
	fmt.Println("  # Preview the merge without writing anything")
	fmt.Println("  mergecli --merge a.csv,b.csv --summary")
	fmt.Println()
	fmt.Println("  # Export only selected columns")
	fmt.Println("  mergecli --merge a.csv,b.csv --columns name,email --output contacts.xlsx")
}
