package commands

import (
	"fmt"
	"time"
)

type TableCmd struct {
	Create TableCreateCmd `cmd:"" help:"Create the configuration table and its SSO provider index"`
}

type TableCreateCmd struct {
	Wait time.Duration `help:"How long to wait for the table to become active" default:"2m"`
}

func (c *TableCreateCmd) Run(ctx *cliCtx) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	creator, ok := a.Store.(tableCreator)
	if !ok {
		return fmt.Errorf("the configured store does not manage a table (STORE_DRIVER=dynamodb required)")
	}
	if err := creator.CreateTable(ctx, c.Wait); err != nil {
		return err
	}
	fmt.Fprintln(ctx.out, "Table ready")
	return nil
}
