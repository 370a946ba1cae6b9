// SPDX-License-Identifier: MPL-2.0

// Command knife is a multi-call binary of small POSIX utilities.
package main

import cmd "github.com/knife-sh/knife/cmd/knife"

func main() {
	cmd.Execute()
}
