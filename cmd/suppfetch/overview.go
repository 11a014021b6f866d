package main

import (
	"fmt"

	"github.com/fwojciec/suppfetch"
)

// Run executes the overview command.
func (c *OverviewCmd) Run(deps *Dependencies) error {
	o, err := deps.Service.Overview(deps.Ctx, &suppfetch.Query{Text: c.Query})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", suppfetch.ErrorMessage(err))
		return err
	}

	if deps.Writer == nil {
		fmt.Fprintln(deps.Stdout, o.Markdown)
		return nil
	}

	path, err := deps.Writer.WriteOverview(deps.Ctx, o)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", suppfetch.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved %s to %s\n", o.Query, path)
	return nil
}
