package cmd

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/equinix-labs/otel-init-go/otelinit"
	"github.com/gin-gonic/gin"
	"github.com/go-logr/zapr"
	"github.com/oklog/run"
	"github.com/packethost/pkg/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jsondb/jsondb/internal/frontend/rest"
	"github.com/jsondb/jsondb/internal/healthcheck"
	jsondbhttp "github.com/jsondb/jsondb/internal/http"
	"github.com/jsondb/jsondb/internal/logger"
	"github.com/jsondb/jsondb/internal/metrics"
	"github.com/jsondb/jsondb/internal/requestid"
	"github.com/jsondb/jsondb/internal/source"
	"github.com/jsondb/jsondb/internal/xff"
)

const serveHelp = `
Serve the loaded tables over HTTP.

Tables given with --table register in a catalog under their embedded name, falling back to the
file basename. The API exposes the catalog on /v0/tables and the query pipeline on
/v0/tables/:name/query.

Each CLI argument has a corresponding environment variable in the form of the CLI argument prefixed
with JSONDB. If both the flag and environment variable form are specified, the flag form takes
precedence.

Examples
  --http-port        JSONDB_HTTP_PORT
  --trusted-proxies  JSONDB_TRUSTED_PROXIES
`

// ServeCommandOptions encompasses all the configurability of the ServeCommand.
type ServeCommandOptions struct {
	HTTPPort       int      `mapstructure:"http-port"`
	Tables         []string `mapstructure:"table"`
	TrustedProxies string   `mapstructure:"trusted-proxies"`

	CSVHasHeader   bool     `mapstructure:"csv-has-header"`
	CSVColumnNames []string `mapstructure:"csv-column-names"`
}

// ServeCommand runs the HTTP API server.
type ServeCommand struct {
	*cobra.Command
	vpr  *viper.Viper
	Opts ServeCommandOptions
}

// NewServeCommand creates a new ServeCommand instance.
func NewServeCommand() (*ServeCommand, error) {
	serveCmd := &ServeCommand{
		Command: &cobra.Command{
			Use:          "serve",
			Short:        "Serve tables over HTTP",
			Long:         serveHelp,
			SilenceUsage: true,
		},
	}

	serveCmd.PreRunE = serveCmd.PreRun
	serveCmd.RunE = serveCmd.Run
	serveCmd.Flags().SortFlags = false // Print flag help in the order they're specified.

	// Ensure keys with `-` use `_` for env keys else Viper won't match them.
	serveCmd.vpr = viper.NewWithOptions(viper.EnvKeyReplacer(strings.NewReplacer("-", "_")))
	serveCmd.vpr.SetEnvPrefix(EnvNamePrefix)

	if err := serveCmd.configureFlags(); err != nil {
		return nil, err
	}

	return serveCmd, nil
}

// PreRun satisfies cobra.Command.PreRunE and unmarshalls. Its responsible for populating c.Opts.
func (c *ServeCommand) PreRun(*cobra.Command, []string) error {
	return c.vpr.Unmarshal(&c.Opts)
}

// Run executes the server.
func (c *ServeCommand) Run(cmd *cobra.Command, _ []string) error {
	l, err := log.Init("github.com/jsondb/jsondb")
	if err != nil {
		return errors.Errorf("initialize logger: %v", err)
	}
	defer l.Close()

	l.Package("serve").With("opts", fmt.Sprintf("%+v", c.Opts)).Info("Serve command options")

	ctx, otelShutdown := otelinit.InitOpenTelemetry(cmd.Context(), "jsondb")
	defer otelShutdown(ctx)

	catalog, err := source.Load(c.Opts.Tables, source.Options{
		CSVHasHeader: c.Opts.CSVHasHeader,
		CSVColumns:   c.Opts.CSVColumnNames,
	})
	if err != nil {
		return errors.Errorf("load tables: %v", err)
	}

	l.With("tables", strings.Join(catalog.TableNames(ctx), ", ")).Info("Loaded table catalog")

	xffmw, err := xff.MiddlewareFromUnparsed(c.Opts.TrustedProxies)
	if err != nil {
		return err
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		return errors.Errorf("initialize request logger: %v", err)
	}
	requestLogger := zapr.NewLogger(zlog)

	registry := prometheus.NewRegistry()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		xffmw,
		requestid.Middleware(),
		logger.Middleware(requestLogger),
		metrics.InstrumentRequestCount(registry),
		metrics.InstrumentRequestDuration(registry),
	)

	healthcheck.Configure(router, catalog)
	metrics.Configure(router, registry)
	rest.New(l, catalog).Configure(router)

	var routines run.Group

	routines.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	serverCtx, serverCancel := context.WithCancel(ctx)
	routines.Add(
		func() error {
			return jsondbhttp.Serve(serverCtx, requestLogger, fmt.Sprintf(":%v", c.Opts.HTTPPort), router)
		},
		func(error) { serverCancel() },
	)

	err = routines.Run()

	// A signal is the expected way to stop the server.
	var sig run.SignalError
	if errors.As(err, &sig) {
		l.With("signal", sig.Signal.String()).Info("Shutting down")
		return nil
	}

	return err
}

func (c *ServeCommand) configureFlags() error {
	c.Flags().Int("http-port", 50061, "Port to listen on for HTTP requests")

	c.Flags().StringSlice("table", nil, "Path to a table file; repeatable")

	c.Flags().Bool("csv-has-header", true, "First record of CSV tables holds column names")
	c.Flags().StringSlice("csv-column-names", nil, "Column names for headerless CSV tables")

	c.Flags().String(
		"trusted-proxies",
		"",
		"A comma separated list of allowed peer IPs and/or CIDR blocks to replace with X-Forwarded-For",
	)

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
