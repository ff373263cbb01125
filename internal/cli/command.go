package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirtree/internal/dirtree"
)

// EnvPrefix is the prefix of environment variables overriding flags.
const EnvPrefix = "DIRTREE"

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"grid", "plain", "json"}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirtree [flags] [path]",
		Short: "Report disk usage per directory, level by level",
		Long: heredoc.Doc(`
			dirtree reports how much space each directory of a tree consumes.

			Directories are listed level by level down to --max-level, each with the
			total size of all regular files beneath it. Directories smaller than
			--min-size are hidden together with everything below them; disable the
			filter with --filter=false to see the full tree.

			Inaccessible files and directories count as zero bytes and are reported
			on stderr.

			Every flag can also be set through a DIRTREE_<FLAG> environment variable
			(e.g. DIRTREE_MAX_LEVEL=2) or a configuration file passed with --config.
		`),
		Args:          cobra.MaximumNArgs(1),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := load(cmd, args)
			if err != nil {
				return err
			}

			return logic(cmd.Context(), options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.IntP("max-level", "l", dirtree.DefaultMaxLevel, "Number of directory levels to display")
	flags.StringP("min-size", "s", "1GiB", "Minimum directory size to display (e.g., 500MB)")
	flags.BoolP("filter", "f", true, "Hide directories smaller than --min-size")
	flags.StringP("output", "o", "grid", "Output format: grid, plain or json")
	flags.Bool("binary", false, "Use binary units (KiB, MiB) instead of decimal ones")
	flags.BoolP("follow", "L", false, "Follow symbolic links to directories")
	flags.Bool("abs", false, "Display the root directory as an absolute path")
	flags.String("config", "", "Configuration file (yaml, toml or json)")
	flags.Bool("debug", false, "Enable debug output")

	return cmd
}

// load resolves the options from flags, environment and configuration file,
// in that order of precedence.
func load(cmd *cobra.Command, args []string) (dirtree.Options, error) {
	var options dirtree.Options

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return options, fmt.Errorf("binding flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return options, fmt.Errorf("reading config file %q: %w", file, err)
		}
	}

	options.Config = v.GetString("config")
	options.MaxLevel = v.GetInt("max-level")
	options.ThresholdEnabled = v.GetBool("filter")
	options.Output = strings.ToLower(v.GetString("output"))
	options.Binary = v.GetBool("binary")
	options.Follow = v.GetBool("follow")
	options.Absolute = v.GetBool("abs")
	options.Debug = v.GetBool("debug")

	if !slices.Contains(allowedOutputs, options.Output) {
		return options, fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
	}

	if options.MaxLevel < 1 {
		return options, fmt.Errorf("max level must be at least 1, got %d", options.MaxLevel)
	}

	size, err := humanize.ParseBytes(v.GetString("min-size"))
	if err != nil {
		return options, fmt.Errorf("invalid min-size: %w", err)
	}

	options.Threshold = int64(size) //nolint:gosec // Size conversion from humanize is safe

	if len(args) == 0 {
		options.Path = "."
	} else {
		options.Path = args[0]
	}

	return options, nil
}
