package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"gradescribe/internal/config"
	"gradescribe/internal/rubric"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file")
		rubricPath := flags.String("rubric", "", "Path to rubric file")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if *configPath == "" && *rubricPath == "" {
			fmt.Fprintln(stderr, "nothing to validate: pass --config and/or --rubric")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		if *configPath != "" {
			if _, err := config.Load(*configPath); err != nil {
				fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
				return ExitError
			}
			fmt.Fprintln(stdout, "Config OK")
		}
		if *rubricPath != "" {
			loaded, err := rubric.Load(*rubricPath)
			if err != nil {
				fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
				return ExitError
			}
			fmt.Fprintf(stdout, "Rubric OK (%d questions)\n", len(loaded.Questions))
		}
		return ExitOK
	}
}
