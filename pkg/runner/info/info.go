// Package info reports where curate keeps its data.
package info

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/curate/pkg/store"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
}

func (n *Info) Do(ctx context.Context) error {
	if override := os.Getenv("CURATE_CONFIG_PATH"); override != "" {
		fmt.Println("CURATE_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("CURATE_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Config.path:", n.Config.BasePath())
	tbl.AddRow("Config.maxColumns:", n.Config.MaxColumns())
	tbl.AddRow("Config.defaultColumns:", n.Config.DefaultColumns())
	tbl.AddRow("Config.columnsPerRow:", n.Config.ColumnsPerRow())
	tbl.AddRow("Config.minSections:", n.Config.MinSections())
	_, _ = fmt.Fprintln(color.Output, tbl)

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	tokens, err := n.Persistence.Tokens(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Tokens: %d\n", len(tokens))

	fmt.Printf("Collections:\n")
	found := 0
	for _, id := range n.Persistence.Collections(ctx) {
		draft := ""
		if _, err := n.Persistence.Draft(ctx, id); err == nil {
			draft = color.New(color.FgYellow).Sprint(" (draft)")
		}
		fmt.Printf("  %s%s\n", id, draft)
		found++
	}

	if found == 0 {
		fmt.Printf("  %s\n", "no collections")
	}

	return nil
}
