package main

import (
	"fmt"

	"github.com/fwojciec/suppfetch"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	o, err := deps.Service.Overview(deps.Ctx, &suppfetch.Query{Text: c.Query})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", suppfetch.ErrorMessage(err))
		return err
	}

	answer, err := deps.Asker.Ask(deps.Ctx, o, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", suppfetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	fmt.Fprintf(deps.Stdout, "\nSource: %s\n", o.URL)
	return nil
}
