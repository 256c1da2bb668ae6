package cli

import "github.com/jyang234/aef/primer/internal/bootstrap"

func bootstrapInput(sessionID string) bootstrap.HookInput {
	return bootstrap.HookInput{SessionID: sessionID}
}
