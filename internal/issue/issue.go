// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry. The zero value means "no entry".
type Id int

const (
	MissingInfileId Id = iota + 1
	InfileNotFoundId
	InfileDirInvalidId
	ScriptDirInvalidId
	EncodingFailedId
	PermissionDeniedId
	ConfigLoadFailedId
	NoPayloadId
	PayloadMismatchId
)

// MarkdownMsg is the help text of an entry, rendered with glamour.
type MarkdownMsg string

// HttpLink is a URL listed under "See also".
type HttpLink string

// Issue is one catalog entry.
type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation
	extLinks []HttpLink  // external links that might be useful for the user
}

// Id returns the entry's identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the unrendered help text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the project documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns a copy of the external reference links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown. stylePath is a glamour
// style name ("auto", "dark", "light", "notty") or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	uuencodeSpec HttpLink = "https://pubs.opengroup.org/onlinepubs/9799919799/utilities/uuencode.html"
	base64RFC    HttpLink = "https://www.rfc-editor.org/rfc/rfc4648"

	missingInfileIssue = &Issue{
		id: MissingInfileId,
		mdMsg: `
# No input file given

embedscript needs the file to embed.

## Things you can try:
~~~
$ embedscript --infile ./photo.bin
~~~

The script is written next to the input file as ` + "`photo_bin_expand.sh`" + ` unless
` + "`--script`" + ` names another path.`,
	}

	infileNotFoundIssue = &Issue{
		id: InfileNotFoundId,
		mdMsg: `
# File to embed cannot be found

The path given with ` + "`--infile`" + ` does not name an existing regular file.

## Things you can try:
- Check the spelling of the path and that it is relative to your current directory
- Directories and device files cannot be embedded; archive a directory first:
~~~
$ tar -cf site.tar ./site
$ embedscript --infile site.tar
~~~`,
	}

	infileDirInvalidIssue = &Issue{
		id: InfileDirInvalidId,
		mdMsg: `
# Path to infile is invalid

The script name is derived from the input file and placed in the same
directory, but that directory does not exist.

## Things you can try:
- Check the directory part of ` + "`--infile`" + `
- Pass ` + "`--script`" + ` to write the script somewhere else`,
	}

	scriptDirInvalidIssue = &Issue{
		id: ScriptDirInvalidId,
		mdMsg: `
# Path to script is invalid

The directory of the ` + "`--script`" + ` path does not exist.
embedscript does not create directories.

## Things you can try:
~~~
$ mkdir -p ./dist
$ embedscript --infile photo.bin --script ./dist/unpack.sh
~~~`,
	}

	encodingFailedIssue = &Issue{
		id: EncodingFailedId,
		mdMsg: `
# The file could not be encoded

Reading or encoding the input file failed, or the recorded file name cannot be
written into the payload header.

## Things you can try:
- Check that the file is readable and not being written to
- File names recorded in the header must not contain control characters such
  as newlines; choose a plain ` + "`--outfile`" + `
- Check free space in the scratch directory (` + "`scratch.dir`" + ` in the config,
  the system temp directory by default)`,
		extLinks: []HttpLink{uuencodeSpec, base64RFC},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

embedscript could not read the input file or could not write the script.

## Things you can try:
- Check read permission on the input file
- Check write permission on the script's directory
- The generated script is made executable (mode 0755); the filesystem must allow that`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file is not valid CUE or does not match the expected schema.

## Things you can try:
- Show where configuration is read from:
~~~
$ embedscript config path
~~~
- Compare with the defaults:
~~~
$ embedscript config dump
~~~

## Example configuration:
~~~cue
script: {
	extension:   ".sh"
	shell:       "/bin/sh"
	line_length: 76
}
scratch: keep: false
ui: color_scheme: "auto"
~~~`,
	}

	noPayloadIssue = &Issue{
		id: NoPayloadId,
		mdMsg: `
# No embedded payload found

The script does not contain a payload written by embedscript. Only scripts
generated by this tool can be inspected, and editing the payload block by hand
breaks them.

## Things you can try:
- Regenerate the script from the original file
- Check that the file is the script, not the unpacked output`,
		extLinks: []HttpLink{uuencodeSpec},
	}

	payloadMismatchIssue = &Issue{
		id: PayloadMismatchId,
		mdMsg: `
# Embedded payload differs

The bytes embedded in the script are not the bytes of the file passed to
` + "`--check`" + `.

## Things you can try:
- Regenerate the script after the file changed:
~~~
$ embedscript --infile photo.bin
~~~
- Extract the embedded copy to compare it yourself:
~~~
$ embedscript inspect photo_bin_expand.sh --extract /tmp/embedded.bin
~~~`,
	}

	issues = map[Id]*Issue{
		missingInfileIssue.Id():    missingInfileIssue,
		infileNotFoundIssue.Id():   infileNotFoundIssue,
		infileDirInvalidIssue.Id(): infileDirInvalidIssue,
		scriptDirInvalidIssue.Id(): scriptDirInvalidIssue,
		encodingFailedIssue.Id():   encodingFailedIssue,
		permissionDeniedIssue.Id(): permissionDeniedIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		noPayloadIssue.Id():        noPayloadIssue,
		payloadMismatchIssue.Id():  payloadMismatchIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the entry for id, or nil if there is none.
func Get(id Id) *Issue {
	return issues[id]
}

// For returns the catalog entry linked to err through an ActionableError,
// or nil if there is none.
func For(err error) *Issue {
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Issue == 0 {
		return nil
	}
	return Get(ae.Issue)
}
