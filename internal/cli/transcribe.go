package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"gradescribe/internal/answers"
	"gradescribe/internal/config"
	"gradescribe/internal/export"
	"gradescribe/internal/rubric"
	"gradescribe/internal/session"
	"gradescribe/internal/stream"
	"gradescribe/internal/ui/live"
	"gradescribe/internal/vision"
)

// defaultConfigPath is searched when --config is not given.
const defaultConfigPath = ".gradescribe.yml"

// runTranscribe builds the handler for the transcribe command.
func runTranscribe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file")
		rubricPath := flags.String("rubric", "", "Path to rubric file")
		firstPage := flags.Int("first-page", 0, "Index of the first scanned page")
		uiMode := flags.String("ui", "", "UI mode: auto|live|plain")
		outPath := flags.String("out", "", "Override export database path")
		noColor := flags.Bool("no-color", false, "Disable colored output")
		noExport := flags.Bool("no-export", false, "Skip writing answers to the export database")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			return ExitUsage
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "expected exactly one scan file argument")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		scanPath := flags.Arg(0)

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		if *rubricPath == "" {
			fmt.Fprintln(stderr, "missing required --rubric flag")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		rubricDoc, err := rubric.Load(*rubricPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load rubric: %v\n", err)
			return ExitError
		}

		mode := *uiMode
		if mode == "" {
			mode = cfg.UI
		}
		decision, err := resolveUIMode(mode, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		scanFile, err := os.Open(scanPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open scan: %v\n", err)
			return ExitError
		}
		defer scanFile.Close()

		client := vision.NewClient(cfg.Service.BaseURL, os.Getenv(cfg.Service.APIKeyEnv), &http.Client{})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if cfg.Service.TimeoutSeconds > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Service.TimeoutSeconds)*time.Second)
			defer cancel()
		}

		var uiController *live.Controller
		var observer session.Observer
		if decision.useLive {
			uiController = live.Start(stdout, live.Options{NoColor: *noColor})
			observer = uiController
		} else {
			observer = newPlainObserver(stdout)
		}

		controller := session.New(session.OpenerFunc(client.Open), observer)
		handle, err := controller.Start(ctx, session.Request{
			RubricID: rubricDoc.ID,
			Filename: filepath.Base(scanPath),
			File:     scanFile,
			Options: session.Options{
				FirstPageIndex:    *firstPage,
				AnsweredQuestions: rubricDoc.QuestionNumbers(),
			},
		})
		if err != nil {
			uiController.Close()
			fmt.Fprintf(stderr, "Failed to start session: %v\n", err)
			return ExitError
		}

		aborted := false
		select {
		case <-handle.Done():
		case <-ctx.Done():
			handle.Abort()
			aborted = true
		}
		uiController.Close()
		uiController.Wait()

		state := controller.State()
		if aborted {
			fmt.Fprintln(stderr, "Session aborted.")
			return ExitError
		}
		if state.Error != "" {
			fmt.Fprintf(stderr, "Session failed: %s\n", state.Error)
			return ExitError
		}

		merged := answers.Materialize(state)
		printAnswers(stdout, merged)

		if !*noExport {
			path := *outPath
			if path == "" {
				path = cfg.Export.Path
			}
			if err := exportAnswers(state, merged, path); err != nil {
				fmt.Fprintf(stderr, "Export failed: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Answers recorded in %s\n", path)
		}
		return ExitOK
	}
}

// loadConfig loads the config at path, falling back to the default path
// and then to built-in defaults when no file exists.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load(defaultConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Config{Version: 1}
		config.Normalize(&cfg)
		return cfg, nil
	}
	return cfg, err
}

// printAnswers writes the merged answer sheet as plain text.
func printAnswers(stdout io.Writer, merged []answers.Merged) {
	if len(merged) == 0 {
		fmt.Fprintln(stdout, "No answers were produced.")
		return
	}
	for _, answer := range merged {
		label := fmt.Sprintf("Question %d", answer.Question)
		if answer.SubQuestion != "" {
			label += answer.SubQuestion
		}
		fmt.Fprintf(stdout, "\n%s (confidence %.2f, pages %s)\n", label, answer.Confidence, formatPages(answer.PageIndexes))
		fmt.Fprintln(stdout, answer.Text)
	}
}

// formatPages renders a page index list for display.
func formatPages(indexes []int) string {
	if len(indexes) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(indexes))
	for _, index := range indexes {
		parts = append(parts, fmt.Sprintf("%d", index))
	}
	return strings.Join(parts, ",")
}

// exportAnswers persists the session result in the DuckDB export store.
func exportAnswers(state stream.State, merged []answers.Merged, path string) error {
	store, err := export.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = store.SaveSession(ctx, state.Metadata, merged)
	return err
}
