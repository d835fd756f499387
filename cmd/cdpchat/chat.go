package main

import "github.com/fwojciec/cdpchat/assist"

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	session := assist.NewSession(deps.Responder, deps.Store.Platforms(), deps.Logger)
	return session.Run(deps.Ctx, deps.Stdin, deps.Stdout)
}
