// Package scan implements the scan subcommand: it walks a workspace and
// reports the functions each PHP file declares.
package scan

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shinyvision/phpscope/internal/config"
	"github.com/shinyvision/phpscope/internal/php"
	"github.com/shinyvision/phpscope/internal/token"
	"github.com/shinyvision/phpscope/internal/tracker"
	"github.com/tliron/commonlog"
)

var (
	ErrHelpRequested = errors.New("help requested")
	ErrUnknownFormat = errors.New("unknown format")
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, value)
	}
}

// Options are the parsed scan arguments.
type Options struct {
	Root       string
	ConfigPath string
	Format     Format
}

// ParseArgs parses the arguments following the subcommand name.
func ParseArgs(args []string) (Options, error) {
	opts := Options{Root: ".", Format: FormatText}

	flags := flag.NewFlagSet("scan", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	formatFlag := flags.String("format", string(opts.Format), "output format (text or json)")
	configPath := flags.String("config", "", "config file path")

	// flag stops at the first positional argument; flags may follow the
	// directory, so parsing resumes after each one.
	var remaining []string
	for {
		if err := flags.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return opts, ErrHelpRequested
			}
			return opts, err
		}
		rest := flags.Args()
		if len(rest) == 0 {
			break
		}
		remaining = append(remaining, rest[0])
		args = rest[1:]
	}

	format, err := ParseFormat(*formatFlag)
	if err != nil {
		return opts, err
	}
	opts.Format = format
	opts.ConfigPath = strings.TrimSpace(*configPath)

	if len(remaining) > 1 {
		return opts, fmt.Errorf("too many arguments for scan")
	}
	if len(remaining) == 1 {
		opts.Root = remaining[0]
	}
	return opts, nil
}

// Function is one declared function.
type Function struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// FileReport lists the functions of one file, or why it could not be read.
type FileReport struct {
	Path      string     `json:"path"`
	Functions []Function `json:"functions"`
	Error     string     `json:"error,omitempty"`
}

// Run walks opts.Root and reports every file selected by the configuration,
// in walk order.
func Run(opts Options) ([]FileReport, error) {
	logger := commonlog.GetLoggerf("phpscope.scan")

	cfg := config.NewConfig()
	if opts.ConfigPath != "" {
		if err := cfg.Load(opts.ConfigPath); err != nil {
			return nil, err
		}
		cfg.WorkspaceRoot = opts.Root
	} else {
		cfg.LoadWorkspace(opts.Root)
	}

	// One session for the whole walk; each new file resets it.
	tr := tracker.New()
	reports := []FileReport{}
	err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(opts.Root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && cfg.SkipDir(rel) {
				logger.Debugf("skipping %s", rel)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !cfg.Matches(rel) {
			return nil
		}
		reports = append(reports, scanFile(tr, path, filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("scanned %d files under %s", len(reports), opts.Root)
	return reports, nil
}

func scanFile(tr *tracker.Tracker, path, rel string) FileReport {
	report := FileReport{Path: rel, Functions: []Function{}}

	src, err := os.ReadFile(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	file, err := token.Parse(path, src)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	php.Advance(tr, file, file.Last())
	for name, ptr := range tr.Functions(file) {
		report.Functions = append(report.Functions, Function{Name: name, Line: file.Token(ptr).Line})
	}
	sort.Slice(report.Functions, func(i, j int) bool {
		a, b := report.Functions[i], report.Functions[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Name < b.Name
	})
	return report
}

// Write prints reports in the given format.
func Write(w io.Writer, format Format, reports []FileReport) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		if r.Error != "" {
			if _, err := fmt.Fprintf(w, "%s: error: %s\n", r.Path, r.Error); err != nil {
				return err
			}
			continue
		}
		for _, fn := range r.Functions {
			if _, err := fmt.Fprintf(w, "%s:%d: %s\n", r.Path, fn.Line, fn.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

const usage = `usage: phpscope scan [-format text|json] [-config file] [dir]
`

// Main runs the subcommand and returns the process exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	opts, err := ParseArgs(args)
	if errors.Is(err, ErrHelpRequested) {
		fmt.Fprint(stdout, usage)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "scan: %v\n%s", err, usage)
		return 2
	}

	reports, err := Run(opts)
	if err != nil {
		fmt.Fprintf(stderr, "scan: %v\n", err)
		return 1
	}
	if err := Write(stdout, opts.Format, reports); err != nil {
		fmt.Fprintf(stderr, "scan: %v\n", err)
		return 1
	}
	return 0
}
