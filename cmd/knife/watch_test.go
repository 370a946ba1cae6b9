// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/knife-sh/knife/internal/config"
	"github.com/knife-sh/knife/internal/issue"
	"github.com/knife-sh/knife/pkg/types"
)

func TestWatchDebounce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		cfg     string
		want    time.Duration
		wantErr bool
	}{
		{"config value", "", "250ms", 250 * time.Millisecond, false},
		{"flag wins", "2s", "250ms", 2 * time.Second, false},
		{"neither", "", "", 0, false},
		{"bad flag", "soon", "250ms", 0, true},
		{"negative", "-1s", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := watchDebounce(tt.flag, config.WatchConfig{Debounce: tt.cfg})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, config.ErrInvalidDebounce) {
				t.Errorf("err = %v, want ErrInvalidDebounce", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatchCommand_UnknownUtility(t *testing.T) {
	app, _, _ := newTestApp(t, &stubProvider{}, "", &recordingCommand{name: "ls"})

	err := executeRoot(t, app, "watch", "--", "frobnicate")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitCommandNotFound {
		t.Fatalf("err = %v, want exit status 127", err)
	}
	if issue.IssueOf(err) != issue.UtilityNotFoundId {
		t.Errorf("issue = %d, want UtilityNotFoundId", issue.IssueOf(err))
	}
}

func TestWatchCommand_RunsOnStartUntilCanceled(t *testing.T) {
	rec := &recordingCommand{name: "ls", output: "listed\n"}
	app, stdout, _ := newTestApp(t, &stubProvider{}, "", rec)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		root := NewRootCommand(app)
		root.SetArgs([]string{"watch", "--debounce", "10ms", "--", "ls", "-l"})
		root.SilenceErrors = true
		done <- root.ExecuteContext(ctx)
	}()

	// The initial run happens before any file changes.
	deadline := time.After(5 * time.Second)
	for {
		if rec.callCount() > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("utility did not run on start")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	if stdout.String() == "" {
		t.Error("utility output missing")
	}
}
