package commands

import (
	"fmt"

	"orgconfig/application/services"
)

type OrgsCmd struct {
	List   OrgsListCmd   `cmd:"" help:"List organizations sorted by name"`
	Create OrgsCreateCmd `cmd:"" help:"Create an organization with its four default configuration records"`
}

type OrgsListCmd struct {
	Name string `help:"Only organizations whose name contains this term" short:"n"`
}

func (c *OrgsListCmd) Run(ctx *cliCtx) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	var orgs []services.Organization
	if c.Name != "" {
		orgs, err = a.Organizations.GetOrganizationsByName(ctx, c.Name)
	} else {
		orgs, err = a.Organizations.GetOrganizations(ctx)
	}
	if err != nil {
		return err
	}
	return ctx.printJSON(orgs)
}

type OrgsCreateCmd struct {
	ID    string `arg:"" name:"id" help:"Organization ID (letters, digits, hyphens and underscores)"`
	Name  string `arg:"" name:"name" help:"Display name"`
	Actor string `help:"Recorded as __updatedBy" default:"orgctl" env:"ORGCTL_ACTOR"`
}

func (c *OrgsCreateCmd) Run(ctx *cliCtx) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	org, err := a.Organizations.CreateOrganization(ctx, c.ID, c.Name, c.Actor)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.out, "Created organization %s (%s)\n", org.OrganizationID, org.Name)
	return nil
}
