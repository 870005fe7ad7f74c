// Package commands implements the orgctl command tree.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"orgconfig/application/ports"
	"orgconfig/application/services"
	"orgconfig/infrastructure/config"
	"orgconfig/infrastructure/di"
	apperrors "orgconfig/pkg/errors"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// tableCreator is implemented by stores that can create their own table.
type tableCreator interface {
	CreateTable(ctx context.Context, wait time.Duration) error
}

// app is what the commands operate on.
type app struct {
	Store         ports.ConfigStore
	Configs       *services.ConfigurationService
	Organizations *services.OrganizationService
}

type cliCtx struct {
	context.Context
	out io.Writer

	app     *app
	cleanup func()
}

// App builds the application graph on first use.
func (c *cliCtx) App() (*app, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	container, cleanup, err := di.InitializeContainer(c.Context, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	c.cleanup = cleanup
	c.app = &app{
		Store:         container.Store,
		Configs:       container.Configs,
		Organizations: container.Organizations,
	}
	return c.app, nil
}

// Close releases what App acquired
func (c *cliCtx) Close() {
	if c.cleanup != nil {
		c.cleanup()
	}
}

func (c *cliCtx) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type cli struct {
	Table  TableCmd  `cmd:"" help:"Manage the configuration table"`
	Orgs   OrgsCmd   `cmd:"" help:"List and create organizations"`
	Config ConfigCmd `cmd:"" help:"Read and update configuration records"`
}

func Execute() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	var cli cli
	ctx := kong.Parse(&cli,
		kong.UsageOnError(),
		kong.Name("orgctl"),
		kong.Description("orgctl administers organization configuration records"),
	)

	cctx := &cliCtx{Context: context.Background(), out: os.Stdout}
	defer cctx.Close()

	err := ctx.Run(cctx)
	ctx.FatalIfErrorf(describe(err))
}

// describe spells out per-field violations, which AppError.Error omits.
func describe(err error) error {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return err
	}
	fields := appErr.ValidationErrors()
	if len(fields) == 0 {
		return err
	}
	var b strings.Builder
	b.WriteString(appErr.Message)
	for _, f := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", f.Field, f.Message)
	}
	return errors.New(b.String())
}
