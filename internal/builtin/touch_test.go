// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTouchCommand_CreatesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res := runIn(t, newTouchCommand(), dir, "", "new.txt")
	if res.err != nil {
		t.Fatalf("Run() returned error: %v (stderr %q)", res.err, res.stderr)
	}

	info, err := os.Stat(filepath.Join(dir, "new.txt"))
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("created file size = %d, want 0", info.Size())
	}
}

func TestTouchCommand_NoCreate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res := runIn(t, newTouchCommand(), dir, "", "-c", "absent.txt")
	if res.err != nil {
		t.Fatalf("Run() returned error: %v", res.err)
	}
	if _, err := os.Stat(filepath.Join(dir, "absent.txt")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("-c created the file (stat err %v)", err)
	}
}

func TestTouchCommand_KeepsContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "keep.txt", "data")

	res := runIn(t, newTouchCommand(), dir, "", "keep.txt")
	if res.err != nil {
		t.Fatalf("Run() returned error: %v", res.err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "data" {
		t.Errorf("content = %q, want %q", data, "data")
	}
}

func TestTouchCommand_SetsTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want time.Time
	}{
		{
			name: "date",
			args: []string{"-d", "2020-05-06 07:08:09"},
			want: time.Date(2020, 5, 6, 7, 8, 9, 0, time.Local),
		},
		{
			name: "date only",
			args: []string{"-d", "2019-12-31"},
			want: time.Date(2019, 12, 31, 0, 0, 0, 0, time.Local),
		},
		{
			name: "stamp with century and seconds",
			args: []string{"-t", "202001021304.05"},
			want: time.Date(2020, 1, 2, 13, 4, 5, 0, time.Local),
		},
		{
			name: "modification time only",
			args: []string{"-m", "-t", "199901010000"},
			want: time.Date(1999, 1, 1, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeFile(t, dir, "f.txt", "")

			res := runIn(t, newTouchCommand(), dir, "", append(tt.args, "f.txt")...)
			if res.err != nil {
				t.Fatalf("Run() returned error: %v (stderr %q)", res.err, res.stderr)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if !info.ModTime().Equal(tt.want) {
				t.Errorf("mtime = %v, want %v", info.ModTime(), tt.want)
			}
		})
	}
}

func TestTouchCommand_AccessOnlyKeepsModTime(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "f.txt", "")
	old := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	res := runIn(t, newTouchCommand(), dir, "", "-a", "f.txt")
	if res.err != nil {
		t.Fatalf("Run() returned error: %v", res.err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Errorf("-a changed mtime to %v", info.ModTime())
	}
}

func TestTouchCommand_Reference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.txt", "")
	target := writeFile(t, dir, "target.txt", "")
	stamp := time.Date(2010, 10, 10, 10, 10, 10, 0, time.UTC)
	if err := os.Chtimes(ref, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	res := runIn(t, newTouchCommand(), dir, "", "-r", "ref.txt", "target.txt")
	if res.err != nil {
		t.Fatalf("Run() returned error: %v (stderr %q)", res.err, res.stderr)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), stamp)
	}
}

func TestTouchCommand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	res := runIn(t, newTouchCommand(), dir, "")
	wantExitCode(t, res.err, 2)

	res = runIn(t, newTouchCommand(), dir, "", "-d", "someday", "f.txt")
	wantExitCode(t, res.err, 2)

	res = runIn(t, newTouchCommand(), dir, "", "nodir/f.txt")
	wantExitCode(t, res.err, 1)
	if res.stderr != "touch: cannot touch 'nodir/f.txt': No such file or directory\n" {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestParseStamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "01021304", want: time.Date(2024, 1, 2, 13, 4, 0, 0, time.Local)},
		{in: "7001020304", want: time.Date(1970, 1, 2, 3, 4, 0, 0, time.Local)},
		{in: "2401020304", want: time.Date(2024, 1, 2, 3, 4, 0, 0, time.Local)},
		{in: "199912312359.59", want: time.Date(1999, 12, 31, 23, 59, 59, 0, time.Local)},
		{in: "123", wantErr: true},
		{in: "01021304.5", wantErr: true},
		{in: "13321304", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseStamp(tt.in, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseStamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseStamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
