// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	PathNotFoundId Id = iota + 1
	PermissionDeniedId
	ConfigLoadFailedId
	UtilityNotFoundId
	ScriptExecutionFailedId
	InvalidUsageId
	WatchFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	// Renderer turns markdown into terminal output.
	Renderer interface {
		Render(in string, stylePath string) (string, error)
	}

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // knife documentation pages about this issue
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue with the glamour style at stylePath ("dark",
// "light", "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	pathNotFoundIssue = &Issue{
		id: PathNotFoundId,
		mdMsg: `
# No such file or directory!

One of the paths given on the command line does not exist.

## Things you can try:
- Check the spelling of the path
- Relative paths are resolved against the current directory:
~~~
$ knife pwd
~~~
- List the parent directory to see what is there:
~~~
$ knife ls -la ..
~~~`,
		extLinks: []HttpLink{"https://pubs.opengroup.org/onlinepubs/9799919799/utilities/ls.html"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to read or change one of the paths involved.

## Common causes:
- A directory without the execute (search) bit
- A file owned by another user
- A read-only mount

## Things you can try:
- Inspect the permissions:
~~~
$ knife ls -ld PATH
~~~
- Run knife from a directory you own`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The knife configuration file could not be read or does not match the schema.

## Things you can try:
- Show where knife looks for its configuration:
~~~
$ knife config path
~~~
- Write a fresh default configuration:
~~~
$ knife config init --force
~~~
- Check the allowed values:
~~~cue
ls: {
	color:          "never" | "auto" | "always"
	human_readable: bool
	ignore: [...string]
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	utilityNotFoundIssue = &Issue{
		id: UtilityNotFoundId,
		mdMsg: `
# Utility not found!

knife does not ship a utility with that name.

## Things you can try:
- List the available utilities:
~~~
$ knife --help
~~~
- Inside ` + "`knife sh`" + ` scripts, unknown commands run from your PATH`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

The shell script could not be parsed or one of its commands failed.

## Things you can try:
- Check the script for syntax errors
- Run it with tracing to see each command:
~~~
$ knife sh -c 'set -x; ...'
~~~
- Disable the built-in utilities to compare with the host tools:
~~~cue
shell: builtins: false
~~~`,
		extLinks: []HttpLink{"https://pkg.go.dev/mvdan.cc/sh/v3/interp"},
	}

	invalidUsageIssue = &Issue{
		id: InvalidUsageId,
		mdMsg: `
# Invalid usage!

A flag or argument was not recognised.

## Things you can try:
- Every utility documents its flags:
~~~
$ knife ls --help
~~~
- Combine short flags as usual: ` + "`-la`" + ` is the same as ` + "`-l -a`",
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# Failed to watch for changes!

The file watcher could not be started.

## Common causes:
- The operating system limit on watched directories was reached
- A watched directory was removed

## Things you can try:
- Narrow the watched files with ` + "`--pattern`" + `
- On Linux, raise the inotify limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~`,
		extLinks: []HttpLink{"https://github.com/fsnotify/fsnotify"},
	}

	issues = map[Id]*Issue{
		pathNotFoundIssue.Id():          pathNotFoundIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		utilityNotFoundIssue.Id():       utilityNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		invalidUsageIssue.Id():          invalidUsageIssue,
		watchFailedIssue.Id():           watchFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	all := maps.Values(issues)
	slices.SortFunc(all, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return all
}

func Get(id Id) *Issue {
	return issues[id]
}
