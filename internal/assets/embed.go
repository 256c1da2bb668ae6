package assets

import "embed"

// SessionTemplate is the blank session file written at session end. Its
// "[Session context goes here]" line marks a file nobody has filled in.
//
//go:embed templates/session.tmp
var SessionTemplate string

//go:embed commands/*.md
var Commands embed.FS
