package bootstrap

import (
	"encoding/json"
	"io"
	"os"
)

// HookInput is the JSON Claude Code writes to a hook's stdin
type HookInput struct {
	SessionID      string `json:"session_id"`
	Cwd            string `json:"cwd"`
	TranscriptPath string `json:"transcript_path"`
	HookEventName  string `json:"hook_event_name"`
	Source         string `json:"source"`
}

// ReadHookInput decodes hook input from r. Missing or malformed input
// yields a zero HookInput; a terminal is never read.
func ReadHookInput(r io.Reader) HookInput {
	var in HookInput
	if r == nil {
		return in
	}
	if f, ok := r.(*os.File); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return in
		}
	}

	data, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil || len(data) == 0 {
		return in
	}
	_ = json.Unmarshal(data, &in)
	return in
}
