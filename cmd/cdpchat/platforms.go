package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/fwojciec/cdpchat"
)

// Run executes the platforms command.
func (c *PlatformsCmd) Run(deps *Dependencies) error {
	if deps.Store.Len() == 0 {
		fmt.Fprintln(deps.Stdout, "No platforms loaded.")
	} else {
		w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
		header := "PLATFORM\tLOCATION\tBYTES\tHASH"
		if deps.TokenCounter != nil {
			header += "\tTOKENS"
		}
		fmt.Fprintln(w, header)

		for _, corpus := range deps.Store.Corpora() {
			row := fmt.Sprintf("%s\t%s\t%d\t%s", corpus.Platform, corpus.Location, len(corpus.Text), corpus.Hash)
			if deps.TokenCounter != nil {
				tokens, err := deps.TokenCounter.CountTokens(deps.Ctx, corpus.Text)
				if err != nil {
					return err
				}
				row += "\t" + strconv.Itoa(tokens)
			}
			fmt.Fprintln(w, row)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(deps.Failures) > 0 {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Unavailable:")
		for _, f := range deps.Failures {
			fmt.Fprintf(deps.Stdout, "  %s (%s): %s\n", f.Platform, f.Location, cdpchat.ErrorMessage(f.Err))
		}
	}
	return nil
}
