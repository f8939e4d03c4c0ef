package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"texnumber/internal/config"
	"texnumber/internal/logging"
	"texnumber/internal/model"
	"texnumber/internal/renumber"
	"texnumber/internal/report"
	"texnumber/internal/textenc"
	"texnumber/internal/tui"
	"texnumber/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "vsoftco",
		Repository: "texnumber",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("A new version is available: %s (you have %s)\n", res.Current, currentVer)
	} else {
		fmt.Printf("You are using the latest version: %s\n", currentVer)
	}
}

// flags collects the command line; only flags the user set override the config.
type flags struct {
	input, output, log, configPath, encoding, addr string
	keywords                                       []string
	ignoreComments, noIgnoreComments               bool
	report, json, tui, web, verbose                bool
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: texnumber [options] <pattern> <replacement>\n\n")
		fmt.Fprintf(os.Stderr, "texnumber renumbers LaTeX labels. Every \\label{<pattern>...} gets a sequential\n")
		fmt.Fprintf(os.Stderr, "number, and every \\label, \\ref, \\eqref and \\pageref using it is rewritten\n")
		fmt.Fprintf(os.Stderr, "to {<replacement><n>}. Reads standard input and writes standard output.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  texnumber eqn Eqn < in.tex > out.tex        # Stream mode\n")
		fmt.Fprintf(os.Stderr, "  texnumber -i in.tex -o out.tex eqn Eqn      # Batch mode with full report\n")
		fmt.Fprintf(os.Stderr, "  texnumber --log map.txt fig Fig < a.tex     # Also write the label mapping\n")
		fmt.Fprintf(os.Stderr, "  texnumber -t -i in.tex -o out.tex eqn Eqn   # Review interactively\n")
	}

	var f flags
	pflag.StringVarP(&f.input, "input", "i", "", "Read the document from this file instead of standard input")
	pflag.StringVarP(&f.output, "output", "o", "", "Write the document to this file instead of standard output")
	pflag.StringVar(&f.log, "log", "", "Write the label mapping to this file")
	pflag.StringVarP(&f.configPath, "config", "c", "", "Load settings from a YAML or TOML file")
	pflag.StringVarP(&f.encoding, "encoding", "e", "", "Character encoding of input and output: "+strings.Join(textenc.Names(), ", "))
	pflag.StringSliceVarP(&f.keywords, "keyword", "k", nil, "Additional reference command to rewrite (repeatable)")
	pflag.BoolVar(&f.ignoreComments, "ignore-comments", false, "Leave text after % untouched (default)")
	pflag.BoolVar(&f.noIgnoreComments, "no-ignore-comments", false, "Rewrite references inside comments too")
	pflag.BoolVarP(&f.report, "report", "r", false, "Print the detailed replacement report")
	pflag.BoolVarP(&f.json, "json", "j", false, "Print the run result as JSON instead of the document")
	pflag.BoolVarP(&f.tui, "tui", "t", false, "Review the renumbering interactively (requires --input)")
	pflag.BoolVarP(&f.web, "web", "w", false, "Start the HTTP API")
	pflag.StringVar(&f.addr, "addr", "", "Address for --web (default localhost:8080)")
	pflag.BoolVarP(&f.verbose, "verbose", "v", false, "Log progress to standard error")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for a newer release")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("texnumber version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := buildConfig(f, pflag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if f.verbose {
		level = "debug"
	}
	log := logging.New(os.Stderr, level)

	if f.web {
		if err := web.NewServer(cfg, log).ListenAndServe(cfg.Addr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		pflag.Usage()
		os.Exit(1)
	}

	if f.tui {
		runTuiMode(cfg)
		return
	}

	if err := runDocumentMode(cfg, f, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig layers defaults, the config file and the command line.
func buildConfig(f flags, args []string) (config.Config, error) {
	cfg := config.Defaults()
	if f.configPath != "" {
		fileCfg, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = config.Merge(cfg, fileCfg)
	}
	if len(args) > 2 {
		return cfg, errors.Errorf("unexpected arguments %q", args[2:])
	}

	over := config.Config{
		Input:    f.input,
		Output:   f.output,
		Log:      f.log,
		Encoding: f.encoding,
		Addr:     f.addr,
	}
	if len(args) > 0 {
		over.Pattern = args[0]
	}
	if len(args) > 1 {
		over.Replacement = args[1]
	}
	switch {
	case f.noIgnoreComments:
		off := false
		over.IgnoreComments = &off
	case f.ignoreComments:
		on := true
		over.IgnoreComments = &on
	}
	cfg = config.Merge(cfg, over)
	cfg.AddKeywords(f.keywords...)
	return cfg, nil
}

func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// runDocumentMode handles stream mode (stdin to stdout, terse warnings) and
// batch mode (file to file, full report).
func runDocumentMode(cfg config.Config, f flags, log logrus.FieldLogger) (err error) {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Logger = log

	var in io.Reader = os.Stdin
	if cfg.Input != "" {
		file, err := os.Open(cfg.Input)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer file.Close()
		in = file
	}

	var out io.Writer = os.Stdout
	if f.json && cfg.Output == "" {
		out = io.Discard
	}
	if cfg.Output != "" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "close output")
			}
		}()
		out = file
	}

	res, err := renumber.Run(context.Background(), in, out, opts)
	if err != nil {
		return err
	}

	if cfg.Log != "" {
		if err := writeMappingLog(cfg.Log, res); err != nil {
			return err
		}
	}

	batch := f.report || (cfg.Input != "" && cfg.Output != "")
	switch {
	case f.json:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case batch:
		w := os.Stdout
		if cfg.Output == "" {
			// the document already went to stdout
			w = os.Stderr
		}
		return report.WriteBatch(w, res, time.Now(), report.NewStyles(isTerminal(w)))
	default:
		return report.WriteWarnings(os.Stderr, res.Warnings)
	}
}

func writeMappingLog(path string, res *model.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create log")
	}
	if err := report.WriteMappingLog(file, res); err != nil {
		file.Close()
		return errors.Wrap(err, "write log")
	}
	return errors.Wrap(file.Close(), "close log")
}

func runTuiMode(cfg config.Config) {
	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "Error: --tui needs --input; standard input is the terminal")
		os.Exit(1)
	}
	if !isTerminal(os.Stdout) {
		fmt.Fprintln(os.Stderr, "Error: --tui needs a terminal")
		os.Exit(1)
	}
	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := tui.InitialModel(tui.Job{
		InputPath:  cfg.Input,
		OutputPath: cfg.Output,
		Options:    opts,
	})
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
