package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"orgconfig/application/services"
	"orgconfig/domain/config"
)

type ConfigCmd struct {
	Get ConfigGetCmd `cmd:"" help:"Print one configuration record"`
	Set ConfigSetCmd `cmd:"" help:"Apply a JSON patch file to an existing configuration record"`
}

type ConfigGetCmd struct {
	ID   string `arg:"" name:"id" help:"Organization ID"`
	Type string `arg:"" name:"type" help:"Configuration type"`
}

func (c *ConfigGetCmd) Run(ctx *cliCtx) error {
	configType, err := parseType(c.Type)
	if err != nil {
		return err
	}
	a, err := ctx.App()
	if err != nil {
		return err
	}
	item, err := a.Configs.GetConfigurationByType(ctx, c.ID, configType)
	if err != nil {
		return err
	}
	return ctx.printJSON(item)
}

type ConfigSetCmd struct {
	ID    string `arg:"" name:"id" help:"Organization ID"`
	Type  string `arg:"" name:"type" help:"Configuration type"`
	File  string `help:"JSON file holding the attributes to set" required:"" type:"existingfile" short:"f"`
	Actor string `help:"Recorded as __updatedBy" default:"orgctl" env:"ORGCTL_ACTOR"`
}

func (c *ConfigSetCmd) Run(ctx *cliCtx) error {
	configType, err := parseType(c.Type)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	var patch map[string]interface{}
	if err := json.Unmarshal(data, &patch); err != nil {
		return fmt.Errorf("%s must hold a JSON object: %w", c.File, err)
	}

	a, err := ctx.App()
	if err != nil {
		return err
	}
	if _, err := a.Configs.GetConfigurationByType(ctx, c.ID, configType); err != nil {
		return err
	}
	updated, err := a.Configs.UpdateConfiguration(ctx, c.ID, configType, patch, c.Actor)
	if err != nil {
		return err
	}
	return ctx.printJSON(updated)
}

func parseType(raw string) (config.ConfigType, error) {
	configType, ok := config.ParseConfigType(raw)
	if !ok {
		return "", services.InvalidConfigTypeError(raw)
	}
	return configType, nil
}
