// Package cmd wires the CLI commands together.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jsondb/jsondb/internal/pipeline"
	"github.com/jsondb/jsondb/internal/source"
)

const longHelp = `
Query JSON tables with a relational pipeline.

Tables are read from the file arguments, or from stdin when no files are given. The pipeline
operates on the last table loaded. Filter and extension expressions are jq programs evaluated
against each row as an object of column name to value.

Each CLI argument has a corresponding environment variable in the form of the CLI argument prefixed
with JSONDB. If both the flag and environment variable form are specified, the flag form takes
precedence.

Examples
  --restrict     JSONDB_RESTRICT
  --order-by     JSONDB_ORDER_BY
`

// EnvNamePrefix defines the environment variable prefix required for all environment configuration.
const EnvNamePrefix = "JSONDB"

// RootCommandOptions encompasses all the configurability of the RootCommand.
type RootCommandOptions struct {
	Restrict     string   `mapstructure:"restrict"`
	Project      []string `mapstructure:"project"`
	Extend       string   `mapstructure:"extend"`
	Distinct     bool     `mapstructure:"distinct"`
	SummarizePer []string `mapstructure:"summarize-per"`
	SummarizeAdd string   `mapstructure:"summarize-add"`
	OrderBy      []string `mapstructure:"order-by"`
	Limit        int      `mapstructure:"limit"`
	Count        bool     `mapstructure:"count"`

	Name    string `mapstructure:"name"`
	Comment string `mapstructure:"comment"`

	CSV              bool     `mapstructure:"csv"`
	InputCSV         bool     `mapstructure:"input-csv"`
	InputHasColumns  bool     `mapstructure:"input-has-columns"`
	InputColumnNames []string `mapstructure:"input-column-names"`

	NoExecute bool `mapstructure:"no-execute"`
	Verbose   bool `mapstructure:"verbose"`
}

// RootCommand is the root command that represents the entrypoint to the CLI.
type RootCommand struct {
	*cobra.Command
	vpr  *viper.Viper
	Opts RootCommandOptions
}

// NewRootCommand creates new RootCommand instance.
func NewRootCommand() (*RootCommand, error) {
	rootCmd := &RootCommand{
		Command: &cobra.Command{
			Use:          fmt.Sprintf("%s [flags] [table file...]", os.Args[0]),
			Long:         longHelp,
			Args:         cobra.ArbitraryArgs,
			SilenceUsage: true,
		},
	}

	rootCmd.PreRunE = rootCmd.PreRun
	rootCmd.RunE = rootCmd.Run
	rootCmd.Flags().SortFlags = false // Print flag help in the order they're specified.

	// Ensure keys with `-` use `_` for env keys else Viper won't match them.
	rootCmd.vpr = viper.NewWithOptions(viper.EnvKeyReplacer(strings.NewReplacer("-", "_")))
	rootCmd.vpr.SetEnvPrefix(EnvNamePrefix)

	if err := rootCmd.configureFlags(); err != nil {
		return nil, err
	}

	serveCmd, err := NewServeCommand()
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(serveCmd.Command)

	return rootCmd, nil
}

// PreRun satisfies cobra.Command.PreRunE and unmarshalls. Its responsible for populating c.Opts.
func (c *RootCommand) PreRun(*cobra.Command, []string) error {
	return c.vpr.Unmarshal(&c.Opts)
}

// Run executes the query pipeline against the loaded tables.
func (c *RootCommand) Run(cmd *cobra.Command, args []string) error {
	catalog, err := c.loadTables(cmd, args)
	if err != nil {
		return err
	}

	t := catalog.Last()
	if t == nil {
		return errors.New("no input tables")
	}

	var trace io.Writer
	if c.Opts.Verbose || c.Opts.NoExecute {
		trace = cmd.ErrOrStderr()
	}

	result, err := pipeline.Run(cmd.Context(), t, pipeline.Options{
		Restrict:     c.Opts.Restrict,
		Project:      c.Opts.Project,
		Extend:       c.Opts.Extend,
		Distinct:     c.Opts.Distinct,
		Summarize:    len(c.Opts.SummarizePer) > 0 || c.Flags().Changed("summarize-per"),
		SummarizePer: c.Opts.SummarizePer,
		SummarizeAdd: c.Opts.SummarizeAdd,
		OrderBy:      c.Opts.OrderBy,
		Limit:        c.Opts.Limit,
		Count:        c.Opts.Count,
		Name:         c.Opts.Name,
		Comment:      c.Opts.Comment,
		Trace:        trace,
		NoExecute:    c.Opts.NoExecute,
	})
	if err != nil {
		return err
	}

	// No table comes back in no-execute mode.
	if result == nil {
		return nil
	}

	out := cmd.OutOrStdout()
	if c.Opts.CSV {
		return result.WriteCSV(out)
	}

	_, err = fmt.Fprintln(out, result)
	return errors.WithStack(err)
}

// loadTables builds a catalog from the file arguments, falling back to stdin.
func (c *RootCommand) loadTables(cmd *cobra.Command, args []string) (*source.Catalog, error) {
	opts := source.Options{
		CSVHasHeader: c.Opts.InputHasColumns,
		CSVColumns:   c.Opts.InputColumnNames,
	}
	if c.Opts.InputCSV {
		opts.Format = source.FormatCSV
	}

	if len(args) > 0 {
		return source.Load(args, opts)
	}

	t, err := source.FromReader(cmd.InOrStdin(), opts.Format, opts)
	if err != nil {
		return nil, errors.Wrap(err, "load stdin")
	}
	if t.Name() == "" {
		t = t.WithName("stdin")
	}

	catalog := source.NewCatalog()
	catalog.Add(t)
	return catalog, nil
}

func (c *RootCommand) configureFlags() error {
	c.Flags().StringP("restrict", "r", "", "jq predicate that keeps matching rows")
	c.Flags().StringSliceP("project", "p", nil, "Columns to keep, in order")
	c.Flags().StringP("extend", "e", "", "jq program producing an object of new column values per row")
	c.Flags().BoolP("distinct", "d", false, "Drop duplicate rows")
	c.Flags().StringSliceP("summarize-per", "s", nil, "Columns to group by")
	c.Flags().StringP("summarize-add", "S", "", "jq program producing aggregate columns per group")
	c.Flags().StringSliceP("order-by", "o", nil, "Columns to sort by; prefix with - for descending")
	c.Flags().IntP("limit", "l", 0, "Maximum rows to keep; 0 keeps all")
	c.Flags().BoolP("count", "c", false, "Reduce the result to a single row count")

	c.Flags().String("name", "", "Name for the result table")
	c.Flags().String("comment", "", "Comment for the result table")

	c.Flags().Bool("csv", false, "Write the result as CSV instead of JSON")
	c.Flags().BoolP("input-csv", "C", false, "Read input as CSV regardless of file extension")
	c.Flags().Bool("input-has-columns", false, "First CSV record holds column names")
	c.Flags().StringSlice("input-column-names", nil, "Column names for headerless CSV input")

	c.Flags().BoolP("no-execute", "n", false, "Echo the pipeline without running it")
	c.Flags().BoolP("verbose", "v", false, "Echo each pipeline stage to stderr as it runs")

	if err := c.vpr.BindPFlags(c.Flags()); err != nil {
		return err
	}

	var err error
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = c.vpr.BindEnv(f.Name)
	})

	return err
}
