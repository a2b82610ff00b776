package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lijianqiao/datamerge/pkg/readers"
	"github.com/lijianqiao/datamerge/pkg/workbench"
)

func main() {
	ctx := context.Background()

	// Parse flags
	flags := ParseFlags()

	// Handle version
	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	// Handle help
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}

	// Handle config creation
	if *flags.CreateConfig {
		createConfigTemplate()
		return
	}

	// Load configuration
	config := workbench.DefaultConfig()
	if *flags.Config != "" {
		loaded, err := workbench.LoadConfig(*flags.Config)
		if err != nil {
			fatal("Failed to load config: %v", err)
		}
		config = *loaded
	}
	applyFlagOverrides(&config, flags)

	// Build audit logger
	logger, err := config.Audit.NewLogger()
	if err != nil {
		fatal("Failed to open audit log: %v", err)
	}
	defer logger.Close()

	w := workbench.New(config, logger)

	// Route commands
	var cmdErr error

	if *flags.Validate != "" {
		cmdErr = runValidate(w, &config, *flags.Validate)
	} else if *flags.Merge != "" {
		cmdErr = runMerge(ctx, w, &config, flags)
	}

	// Handle errors
	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}

	// If no command was specified, show help
	if !commandWasSpecified(flags) {
		PrintHelp()
		os.Exit(1)
	}
}

// runValidate validates files and prints the results
func runValidate(w *workbench.Workbench, config *workbench.Config, paths string) error {
	files, err := loadFiles(paths)
	if err != nil {
		return err
	}

	session := config.NewSession(files...)
	failed := false

	for _, result := range w.Validate(session) {
		status := "OK"
		if !result.Valid {
			status = "FAIL"
			failed = true
		}
		fmt.Printf("%-4s %s (%.2f MB)\n", status, result.Info.Name,
			float64(result.Info.SizeBytes)/1024/1024)
		for _, e := range result.Errors {
			fmt.Printf("     error: %s\n", e)
		}
		for _, warning := range result.Warnings {
			fmt.Printf("     warning: %s\n", warning)
		}
	}

	if failed {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// runMerge merges files and writes (or summarizes) the result
func runMerge(ctx context.Context, w *workbench.Workbench, config *workbench.Config, flags *Flags) error {
	files, err := loadFiles(*flags.Merge)
	if err != nil {
		return err
	}

	session := config.NewSession(files...)
	if *flags.Clean {
		session.Clean = true
	}
	if *flags.Deduplicate {
		session.Deduplicate = true
	}
	if *flags.SourceColumn != "" {
		session.SourceColumn = *flags.SourceColumn
	}
	if *flags.Columns != "" {
		session.SelectedColumns = splitList(*flags.Columns)
	}

	progress := func(fraction float64, message string) {
		fmt.Fprintf(os.Stderr, "  [%3.0f%%] %s\n", fraction*100, message)
	}

	result, err := w.Process(ctx, session, progress)
	if err != nil {
		return err
	}

	if *flags.Summary {
		printSummary(result)
		return nil
	}

	exported, err := w.Export(session, result.Table)
	if err != nil {
		return err
	}

	output := *flags.Output
	if output == "" {
		output = exported.Filename
	}
	if err := os.WriteFile(output, exported.Data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("✓ Merged %d table(s), %d rows → %s (%s)\n",
		result.MergeStats.TablesIn, result.Table.RowCount(), output, exported.Summary.FormatSize())
	return nil
}

// printSummary prints merge statistics and the export preview
func printSummary(result *workbench.ProcessResult) {
	fmt.Println("=== Merge Statistics ===")
	fmt.Printf("Tables merged:  %d\n", result.MergeStats.TablesIn)
	fmt.Printf("Total rows in:  %d\n", result.MergeStats.RowsIn)
	fmt.Printf("Total rows out: %d\n", result.Table.RowCount())
	fmt.Printf("Columns out:    %d\n", result.Table.ColumnCount())
	if result.FromCache {
		fmt.Println("Result served from cache")
	}

	if len(result.MergeStats.DroppedColumns) > 0 {
		fmt.Println("\n=== Dropped Columns ===")
		for tableName, columns := range result.MergeStats.DroppedColumns {
			fmt.Printf("%s: %s\n", tableName, strings.Join(columns, ", "))
		}
	}

	if len(result.PipelineStats.Steps) > 0 {
		fmt.Println("\n=== Preprocessing ===")
		for _, step := range result.PipelineStats.Steps {
			fmt.Printf("%s: %d rows (%s)\n", step.Name, step.OutputRows, step.Duration)
		}
	}
}

// loadFiles reads the comma-separated file list from disk
func loadFiles(paths string) ([]readers.File, error) {
	var files []readers.File
	for _, path := range splitList(paths) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, readers.File{
			Name: path,
			Size: int64(len(data)),
			Data: data,
		})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	return files, nil
}

// splitList splits a comma-separated list, trimming whitespace
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// applyFlagOverrides lets export flags override the loaded config
func applyFlagOverrides(config *workbench.Config, flags *Flags) {
	if *flags.Sheet != "" {
		config.Output.Sheet = *flags.Sheet
	}
	if *flags.Compress {
		config.Output.Compression = true
	}
	if *flags.CompressLevel > 0 {
		config.Output.CompressionLevel = *flags.CompressLevel
	}
}

// createConfigTemplate creates a sample configuration file
func createConfigTemplate() {
	const sample = `# DataMerge configuration
max_file_size_mb: 100

# Values read as null (empty list keeps the defaults: "", NULL, null, NA, na)
null_markers: []

# Preprocessing steps applied to every merge: clean, deduplicate
steps: []

merge:
  # Tag each row with the name of its source table ("" disables)
  source_column: ""

output:
  sheet: Sheet1
  compression: false
  compression_level: 3

cache:
  capacity: 16

audit:
  enabled: false
  # Empty path logs to stderr
  path: ""
  format: text
`

	if err := os.WriteFile("config.yaml", []byte(sample), 0644); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Println("✓ Created sample config: config.yaml")
	fmt.Println("Edit the file and run:")
	fmt.Println("  mergecli --merge a.csv,b.csv --config config.yaml")
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
