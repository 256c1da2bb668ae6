package selfupdate

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers rev-parse from heads and records every call
type fakeRunner struct {
	heads   []string
	pullErr error
	block   bool
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))
	switch args[0] {
	case "rev-parse":
		head := f.heads[0]
		if len(f.heads) > 1 {
			f.heads = f.heads[1:]
		}
		return []byte(head + "\n"), nil
	case "pull":
		if f.block {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return nil, f.pullErr
	}
	return nil, errors.New("unexpected command")
}

func gitRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	return root
}

func TestUpdateWithoutCheckout(t *testing.T) {
	runner := &fakeRunner{}
	u := &GitUpdater{Root: t.TempDir(), Runner: runner}

	res, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res)
	assert.Empty(t, runner.calls)
}

func TestUpdateHeadMoved(t *testing.T) {
	runner := &fakeRunner{heads: []string{"aaa", "bbb"}}
	u := &GitUpdater{Root: gitRoot(t), Runner: runner}

	res, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Updated, res)
	assert.Equal(t, []string{"git rev-parse HEAD", "git pull --quiet", "git rev-parse HEAD"}, runner.calls)
}

func TestUpdateHeadSame(t *testing.T) {
	u := &GitUpdater{Root: gitRoot(t), Runner: &fakeRunner{heads: []string{"aaa"}}}

	res, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res)
}

func TestUpdatePullFails(t *testing.T) {
	u := &GitUpdater{Root: gitRoot(t), Runner: &fakeRunner{heads: []string{"aaa"}, pullErr: errors.New("offline")}}

	res, err := u.Update(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Failed, res)
}

func TestUpdateTimeout(t *testing.T) {
	u := &GitUpdater{
		Root:    gitRoot(t),
		Timeout: 20 * time.Millisecond,
		Runner:  &fakeRunner{heads: []string{"aaa"}, block: true},
	}

	start := time.Now()
	res, err := u.Update(context.Background())
	assert.Equal(t, Failed, res)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExecRunnerStopsWhenChildHoldsStdout(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// the backgrounded sleep inherits stdout and outlives the killed shell
	start := time.Now()
	_, err := ExecRunner{WaitDelay: 100 * time.Millisecond}.Run(ctx, t.TempDir(), "sh", "-c", "sleep 10 & sleep 10")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "failed", Failed.String())
}
