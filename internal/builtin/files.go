// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"io"
	"os"
	"path/filepath"
)

// stdinName is the operand that selects standard input.
const stdinName = "-"

// FileProcessor processes a single input.
// Parameters:
//   - r: the input stream to process
//   - filename: the operand as given ("-" for stdin)
//   - index: 0-based index of the current operand
//   - total: number of operands (1 when reading stdin implicitly)
type FileProcessor func(r io.Reader, filename string, index, total int) error

// ProcessFilesOrStdin runs processor over each operand, or over stdin when
// there are none. Relative paths resolve against hc.Dir. Open and processing
// failures are reported through fail and the next operand is processed.
func ProcessFilesOrStdin(args []string, hc *HandlerContext, fail *failure, processor FileProcessor) {
	if len(args) == 0 {
		args = []string{stdinName}
	}

	total := len(args)
	for i, file := range args {
		if file == stdinName {
			if err := processor(hc.Stdin, file, i, total); err != nil {
				fail.reportf("%s: %s", displayName(file), reason(err))
			}
			continue
		}
		if err := processFile(file, hc.Dir, func(f *os.File) error {
			return processor(f, file, i, total)
		}); err != nil {
			fail.reportf("%s: %s", file, reason(err))
		}
	}
}

// processFile opens a file and calls the processor, handling path resolution
// and close error aggregation via named return.
func processFile(file, workDir string, processor func(f *os.File) error) (err error) {
	f, err := os.Open(resolvePath(workDir, file))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return processor(f)
}

// resolvePath makes path absolute relative to workDir.
func resolvePath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

// displayName is the name used in headers and diagnostics for an operand.
func displayName(file string) string {
	if file == stdinName {
		return "standard input"
	}
	return file
}
