// Package rest is the HTTP API frontend. It exposes the loaded table
// catalog and the query pipeline over a gin router.
package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/packethost/pkg/log"

	"github.com/jsondb/jsondb/internal/ginutil"
	"github.com/jsondb/jsondb/internal/http/httperror"
	"github.com/jsondb/jsondb/internal/pipeline"
	"github.com/jsondb/jsondb/table"
)

// ErrTableNotFound indicates no table is registered under the requested
// name.
var ErrTableNotFound = errors.New("table not found")

// Client is a backend for retrieving tables. Catalog implementations
// should return ErrTableNotFound when name is unknown.
type Client interface {
	GetTable(ctx context.Context, name string) (*table.Table, error)
	TableNames(ctx context.Context) []string
}

// Frontend configures routers with handlers for the table API.
type Frontend struct {
	log    log.Logger
	client Client
}

// New creates a new Frontend.
func New(logger log.Logger, client Client) Frontend {
	return Frontend{
		log:    logger,
		client: client,
	}
}

// Configure configures router with the table API endpoints.
func (f Frontend) Configure(router gin.IRouter) {
	v0 := ginutil.TrailingSlashRouteHelper{IRouter: router.Group("/v0")}
	v0.GET("/tables", f.listTables)
	v0.GET("/tables/:name", f.getTable)
	v0.GET("/tables/:name/query", f.queryTable)
}

func (f Frontend) listTables(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"tables": f.client.TableNames(ctx)})
}

func (f Frontend) getTable(ctx *gin.Context) {
	t, err := f.client.GetTable(ctx, ctx.Param("name"))
	if err != nil {
		abort(ctx, err)
		return
	}
	render(ctx, t, ctx.Query("format"))
}

func (f Frontend) queryTable(ctx *gin.Context) {
	t, err := f.client.GetTable(ctx, ctx.Param("name"))
	if err != nil {
		abort(ctx, err)
		return
	}

	opts, err := pipelineOptions(ctx)
	if err != nil {
		abort(ctx, err)
		return
	}

	result, err := pipeline.Run(ctx, t, opts)
	if err != nil {
		f.log.Info("Query failed", "table", ctx.Param("name"), "err", err)
		abort(ctx, httperror.Wrap(http.StatusBadRequest, err))
		return
	}

	render(ctx, result, ctx.Query("format"))
}

// pipelineOptions builds pipeline options from the request query string.
func pipelineOptions(ctx *gin.Context) (pipeline.Options, error) {
	opts := pipeline.Options{
		Restrict:     ctx.Query("restrict"),
		Project:      splitParam(ctx.Query("project")),
		Extend:       ctx.Query("extend"),
		SummarizeAdd: ctx.Query("summarize_add"),
		OrderBy:      splitParam(ctx.Query("order_by")),
		Name:         ctx.Query("name"),
		Comment:      ctx.Query("comment"),
	}

	if v, ok := ctx.GetQuery("summarize_per"); ok {
		opts.Summarize = true
		opts.SummarizePer = splitParam(v)
	}

	if v, ok := ctx.GetQuery("distinct"); ok && v != "false" {
		opts.Distinct = true
	}
	if v, ok := ctx.GetQuery("count"); ok && v != "false" {
		opts.Count = true
	}

	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pipeline.Options{}, httperror.Newf(http.StatusBadRequest, "invalid limit %q", v)
		}
		opts.Limit = n
	}

	return opts, nil
}

func render(ctx *gin.Context, t *table.Table, format string) {
	switch format {
	case "csv":
		ctx.Header("Content-Type", "text/csv")
		ctx.Status(http.StatusOK)
		if err := t.WriteCSV(ctx.Writer); err != nil {
			_ = ctx.Error(err)
		}

	default:
		body, err := t.Compact()
		if err != nil {
			abort(ctx, err)
			return
		}
		ctx.Data(http.StatusOK, "application/json", body)
	}
}

// abort maps err onto an HTTP status. Errors carrying an explicit status
// code keep it, ErrTableNotFound becomes a 404 and anything else is an
// internal server error.
func abort(ctx *gin.Context, err error) {
	var httpErr *httperror.E
	switch {
	case errors.As(err, &httpErr):
		_ = ctx.AbortWithError(httpErr.StatusCode, err)
	case errors.Is(err, ErrTableNotFound):
		_ = ctx.AbortWithError(http.StatusNotFound, err)
	default:
		_ = ctx.AbortWithError(http.StatusInternalServerError, err)
	}
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
