// Package bootstrap runs the SessionStart sequence.
//
// A run is a fixed list of steps: self-update, directory setup, session
// discovery, summary injection, learned skills, aliases and package manager
// resolution. Steps never stop the run. A failing or panicking step becomes
// a single advisory line and the next step starts.
//
// Two channels leave the process. The output channel (stdout) carries at
// most one injected session summary, which Claude Code adds to the new
// session's context. The advisory channel (stderr) carries short
// "[SessionStart]" notices for the user.
package bootstrap
