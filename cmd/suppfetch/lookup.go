package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/suppfetch"
)

// Run executes the lookup command.
func (c *LookupCmd) Run(deps *Dependencies) error {
	q := &suppfetch.Query{
		Text:       c.Query,
		Fields:     c.Fields,
		Summarize:  c.Summary,
		MaxResults: c.MaxResults,
		Mode:       suppfetch.Mode(c.Mode),
	}

	result, err := deps.Service.Lookup(deps.Ctx, q)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", suppfetch.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
