package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/agents"
	"github.com/justsurfingit/careerkit/internal/app"
	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/logging"
	"github.com/justsurfingit/careerkit/internal/output"
)

// errReported means the command already wrote its error and only the exit
// status is left.
var errReported = errors.New("error already reported")

type cli struct {
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	// Global flags
	verbose    bool
	configPath string
	format     string

	loadConfig func(path string) (*config.Config, error)
	newApp     func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app.App, error)

	cfg     *config.Config
	log     *zap.Logger
	printer *output.Printer
	app     *app.App
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{
		stdin:      bufio.NewReader(stdin),
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.Load,
		newApp:     app.New,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "careerkit",
		Short: "Career analysis pipelines for students and job seekers",
		Long: `careerkit runs the career-analysis pipelines from the command line.

Every command prints one JSON document on stdout; logs go to stderr.
Pipeline failures are reported as {"error": "..."} documents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML file with per-pipeline model overrides")
	root.PersistentFlags().StringVar(&c.format, "format", output.FormatJSON, "Output format: json or markdown")

	root.AddCommand(
		c.certificateCmd(),
		c.githubCmd(),
		c.careerRolesCmd(),
		c.jobDemandCmd(),
		c.personalityCmd(),
		c.coursesCmd(),
		c.portfolioCmd(),
		c.imageReportCmd("resume", "Extract and review a resume image", "image.png"),
		c.imageReportCmd("transcript", "Extract and review an academic transcript image", "transcript.png"),
		c.skillPathwayCmd(),
		c.workerCmd(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := c.loadConfig(c.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(c.verbose)
	if err != nil {
		return err
	}
	printer, err := output.NewPrinter(c.stdout, c.format)
	if err != nil {
		return err
	}
	c.cfg, c.log, c.printer = cfg, log, printer
	return nil
}

// application builds the model client and pipelines on first use, so
// commands that need neither work without an API key.
func (c *cli) application(ctx context.Context) (*app.App, error) {
	if c.app == nil {
		a, err := c.newApp(ctx, c.cfg, c.log)
		if err != nil {
			return nil, err
		}
		c.app = a
	}
	return c.app, nil
}

func (c *cli) pipelines(ctx context.Context) (*agents.Suite, error) {
	a, err := c.application(ctx)
	if err != nil {
		return nil, err
	}
	return a.Suite, nil
}

// emit prints v, or an error document when err is set.
func (c *cli) emit(v any, err error) error {
	if err != nil {
		return c.printer.Error(err.Error())
	}
	return c.printer.Print(v)
}

// fail writes an error document to stderr and makes the command exit 1.
func (c *cli) fail(msg string) error {
	_ = output.WriteJSON(c.stderr, map[string]string{"error": msg})
	return errReported
}

// prompt asks on stderr and reads one line from stdin.
func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.stderr, label)
	line, err := c.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func argOr(args []string, i int, def string) string {
	if len(args) > i && strings.TrimSpace(args[i]) != "" {
		return strings.TrimSpace(args[i])
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
