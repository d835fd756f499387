package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/cdpchat"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	question := strings.TrimSpace(strings.Join(c.Question, " "))
	if question == "" {
		return cdpchat.Errorf(cdpchat.EINVALID, "question required")
	}

	fmt.Fprintln(deps.Stdout, deps.Responder.Respond(deps.Ctx, question))
	return nil
}
