package briefing

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/jyang234/aef/primer/internal/assets"
)

var (
	sessionTemplate = template.Must(template.New("session").Parse(assets.SessionTemplate))
	lastUpdatedRe   = regexp.MustCompile(`(?m)^\*\*Last Updated:\*\*.*$`)
)

// Writer creates and refreshes today's session file
type Writer struct {
	fs  afero.Fs
	now func() time.Time
}

// NewWriter creates a Writer on fs
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs, now: time.Now}
}

// WithClock returns a copy of the Writer that uses now for timestamps
func (w *Writer) WithClock(now func() time.Time) *Writer {
	return &Writer{fs: w.fs, now: now}
}

// SessionFileName returns the session file name for a day and short id.
// An empty short id gives the legacy name.
func SessionFileName(day time.Time, shortID string) string {
	if shortID == "" {
		return fmt.Sprintf("%s-session.tmp", day.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s-%s-session.tmp", day.Format("2006-01-02"), shortID)
}

// Touch writes today's session file from the blank template when it does
// not exist yet, otherwise it refreshes the "Last Updated" line. It reports
// the path and whether the file was created.
func (w *Writer) Touch(sessionsDir, shortID string) (string, bool, error) {
	now := w.now()
	if err := w.fs.MkdirAll(sessionsDir, 0755); err != nil {
		return "", false, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	path := filepath.Join(sessionsDir, SessionFileName(now, shortID))

	existing, err := afero.ReadFile(w.fs, path)
	switch {
	case err == nil:
		stamp := []byte("**Last Updated:** " + now.Format("15:04"))
		updated := lastUpdatedRe.ReplaceAllLiteral(existing, stamp)
		if err := afero.WriteFile(w.fs, path, updated, 0644); err != nil {
			return "", false, fmt.Errorf("failed to update session file: %w", err)
		}
		return path, false, nil
	case !os.IsNotExist(err):
		return "", false, fmt.Errorf("failed to read session file: %w", err)
	}

	var buf bytes.Buffer
	data := struct{ Date, Time string }{now.Format("2006-01-02"), now.Format("15:04")}
	if err := sessionTemplate.Execute(&buf, data); err != nil {
		return "", false, fmt.Errorf("failed to render session template: %w", err)
	}
	if err := afero.WriteFile(w.fs, path, buf.Bytes(), 0644); err != nil {
		return "", false, fmt.Errorf("failed to write session file: %w", err)
	}
	return path, true, nil
}

// ShortID derives the file short id from a Claude session id: its last eight
// name-safe characters. Without a usable id a random one is generated.
func ShortID(sessionID string) string {
	var safe []rune
	for _, r := range sessionID {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			safe = append(safe, r)
		}
	}
	if len(safe) == 0 {
		return uuid.New().String()[:8]
	}
	if len(safe) > 8 {
		safe = safe[len(safe)-8:]
	}
	return string(safe)
}
