package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dyuri/mapinfo/internal/binary"
	"github.com/dyuri/mapinfo/internal/grp"
	"github.com/dyuri/mapinfo/internal/text"
	"github.com/dyuri/mapinfo/pkg/mapinfo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var log = logrus.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mapinfo [files...]",
	Short: "Display information about Build engine MAP files",
	Long: `mapinfo is a tool for displaying information about Build games maps (.map).

It decodes each MAP file, prints its header and record counts, and
reports which game modes the level supports and whether it fits in
the limits of the original engine. GRP containers are searched for
MAP files.

Running mapinfo with files and no command is the same as "mapinfo info".`,
	Example:           "  mapinfo e1l1.map myhouse.map\n  mapinfo --format json duke3d.grp",
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runInfo(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warning", "Log level: debug, info, warning, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text, json")
	addInfoFlags(rootCmd)

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	switch format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}

	binary.SetLogger(log)
	return nil
}

// logFailure reports a failed file with whatever position information we have
func logFailure(t target, err error) {
	fields := logrus.Fields{"file": t.name}
	var e *mapinfo.Error
	if errors.As(err, &e) {
		fields["code"] = e.Code
		if e.Field != "" {
			fields["field"] = e.Field
			fields["offset"] = e.Offset
		}
	}
	log.WithFields(fields).Error(err)
}

// info command
var infoCmd = &cobra.Command{
	Use:   "info <files...>",
	Short: "Display MAP file information",
	Long: `Display header, record counts and classification of MAP files.

For each map this shows single-player support (the kind of exit button),
the cooperative and deathmatch player counts (player starts plus the
host), and whether the map fits in the original Build engine limits of
1024 sectors, 8192 walls and 4096 sprites.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	addInfoFlags(infoCmd)
}

func addInfoFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "text", "Output format: text, brief, json, yaml")
	cmd.Flags().IntP("jobs", "j", 1, "Number of files decoded in parallel")
	cmd.Flags().BoolP("keep-going", "k", false, "Continue with the next file after an error")
}

func runInfo(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	jobs, _ := cmd.Flags().GetInt("jobs")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")

	switch format {
	case "text", "brief", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	targets, err := expandTargets(args)
	if err != nil {
		return err
	}

	results := decodeAll(targets, jobs)

	// Collect reports in argument order, stopping at the first failure
	// unless asked to keep going
	var reports []text.Report
	failed := 0
	for _, res := range results {
		if res.err != nil {
			logFailure(res.target, res.err)
			failed++
			if !keepGoing {
				break
			}
			continue
		}
		reports = append(reports, text.NewReport(res.target.name, res.m, mapinfo.Classify(res.m)))
	}

	if err := writeReports(os.Stdout, format, reports); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be decoded", failed, len(targets))
	}
	return nil
}

func writeReports(out *os.File, format string, reports []text.Report) error {
	switch format {
	case "json":
		return text.WriteJSON(out, reports)
	case "yaml":
		return text.WriteYAML(out, reports)
	}

	w := text.NewWriter(out)
	for _, r := range reports {
		var err error
		if format == "brief" {
			err = w.WriteBrief(r)
		} else {
			err = w.Write(r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// validate command
var validateCmd = &cobra.Command{
	Use:   "validate <files...>",
	Short: "Validate MAP file cross references",
	Long: `Validate the indices linking sectors, walls and sprites.

Checks that sector wall ranges, wall links and sprite sectors point
inside their arrays.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Fail on warnings")
	validateCmd.Flags().IntP("jobs", "j", 1, "Number of files decoded in parallel")
}

func runValidate(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	jobs, _ := cmd.Flags().GetInt("jobs")

	targets, err := expandTargets(args)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range decodeAll(targets, jobs) {
		if res.err != nil {
			logFailure(res.target, res.err)
			failed++
			continue
		}

		issues := mapinfo.Validate(res.m)
		printIssues(res.target.name, issues, strict)
		if mapinfo.HasErrors(issues) || (strict && len(issues) > 0) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d file(s)", failed, len(targets))
	}
	return nil
}

func printIssues(name string, issues []mapinfo.ValidationError, strict bool) {
	fmt.Printf("Validating: %s\n", name)
	fmt.Println(strings.Repeat("=", 50))

	if len(issues) == 0 {
		fmt.Println("✓ Valid MAP file - no issues found")
		fmt.Println()
		return
	}

	var errs, warnings []mapinfo.ValidationError
	for _, i := range issues {
		if i.Level == mapinfo.LevelError {
			errs = append(errs, i)
		} else {
			warnings = append(warnings, i)
		}
	}

	if len(errs) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  ✗ %s\n", e)
		}
	}
	if len(warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	}

	fmt.Println()
	if len(errs) > 0 {
		fmt.Printf("Validation failed: %d error(s), %d warning(s)\n", len(errs), len(warnings))
	} else {
		fmt.Printf("Validation passed with %d warning(s)\n", len(warnings))
		if strict {
			fmt.Println("(use without --strict to ignore warnings)")
		}
	}
	fmt.Println()
}

// extract command
var extractCmd = &cobra.Command{
	Use:   "extract <input.grp>",
	Short: "Extract MAP files from a GRP container",
	Long: `Extract the MAP files stored in a Build engine GRP container.

Other files in the container are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("output", "o", ".", "Output directory")
	extractCmd.Flags().BoolP("list", "l", false, "List MAP files without extracting")
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	list, _ := cmd.Flags().GetBool("list")

	if list {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input file: %w", err)
		}
		defer f.Close()

		stat, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat input file: %w", err)
		}

		archive, err := grp.Open(f, stat.Size())
		if err != nil {
			return fmt.Errorf("read GRP file: %w", err)
		}

		maps := archive.Maps()
		fmt.Printf("Found %d MAP file(s) in %s:\n", len(maps), filepath.Base(inputPath))
		for _, e := range maps {
			fmt.Printf("  - %s (%d bytes)\n", e.Name, e.Size)
		}
		return nil
	}

	extractedFiles, err := grp.ExtractMaps(inputPath, outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Extracted %d MAP file(s) to %s:\n", len(extractedFiles), outputPath)
	for _, file := range extractedFiles {
		stat, err := os.Stat(file)
		if err != nil {
			fmt.Printf("  - %s (error reading: %v)\n", filepath.Base(file), err)
			continue
		}
		fmt.Printf("  - %s (%d bytes)\n", filepath.Base(file), stat.Size())
	}
	return nil
}

// version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mapinfo version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
	},
}
