// Package aliases maps human-chosen names to session files.
//
// The [Registry] is the only entry point. Listing is read-only and ordered
// most recently created first, using the same ordering as session
// discovery. Writes (set, rename, delete, cleanup) exist for the CLI; the
// SessionStart hook only ever lists.
//
// # Stores
//
// Two [Store] implementations are available, selected by aliases.backend:
//
//   - json: ~/.claude/session-aliases.json, shared with other Claude Code
//     tooling. Writes go to a temporary file that is renamed into place,
//     keeping the previous version as .bak.
//   - sqlite: a single aliases table in a SQLite database.
//
// A store that does not exist yet lists as empty. [OpenReadOnly] is the
// listing path used by the hook, doctor and sessions commands: it never
// creates a directory, a file or a schema.
package aliases
