// Package briefing decides what a new Claude Code session learns about the
// previous one.
//
// # Session Files
//
// Sessions are summarised into plain files under ~/.claude/sessions:
//
//	2025-01-24-session.tmp           (legacy, one per day)
//	2025-01-25-ab12cd34-session.tmp  (one per day and session)
//
// A file starts life as a blank template written at session end (see
// [Writer]). The template carries the line
//
//	[Session context goes here]
//
// which stays there until the session's summary is actually written.
//
// # Injection Rule
//
// [Selector.SelectForInjection] looks at the single most recent session file
// modified within the age window (7 days by default). Its content is
// injected only when it is non-blank and no longer contains the template
// placeholder. Older files in the window are counted, never read.
//
// # Usage
//
//	sel := briefing.NewSelector(fs, finder, cfg.Sessions)
//	if content, ok := sel.SelectForInjection(cfg.Sessions.Dir); ok {
//	    fmt.Printf("%s\n%s\n", cfg.Sessions.SummaryPrefix, content)
//	}
//
//	w := briefing.NewWriter(fs)
//	path, created, err := w.Touch(cfg.Sessions.Dir, briefing.ShortID(sessionID))
package briefing
