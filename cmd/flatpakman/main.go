package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/flatpakman/internal/config"
	"github.com/quantmind-br/flatpakman/internal/utils"
	"github.com/quantmind-br/flatpakman/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errReported means the failure was already printed
var errReported = errors.New("failures reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

// cli holds the state shared by the commands of one invocation
type cli struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     *utils.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "flatpakman",
		Short: "Inspect, validate and convert Flatpak manifests",
		Long: `flatpakman reads Flatpak application, module and source manifests in
YAML, JSON (with comments) or TOML. It validates them, lists the URLs and
modules they build, and converts them between formats.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ~/.flatpakman/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")
	root.PersistentFlags().IntP("concurrency", "j", config.DefaultWorkers, "Number of concurrent workers")
	root.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (pretty or json)")

	_ = viper.BindPFlag("concurrency.workers", root.PersistentFlags().Lookup("concurrency"))
	_ = viper.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		c.newLintCmd(),
		c.newDumpCmd(),
		c.newConvertCmd(),
		c.newURLsCmd(),
		c.newInfoCmd(),
		c.newModulesCmd(),
		c.newFindCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and creates the logger
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if c.cfgFile != "" {
		viper.SetConfigFile(c.cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.cfg = cfg

	c.log = utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cmd.ErrOrStderr(),
		Verbose: c.verbose,
	})
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
