package printers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/curate/pkg/diff"
)

var statusColors = map[diff.Status]*color.Color{
	diff.StatusNew:       color.New(color.FgGreen),
	diff.StatusUpdated:   color.New(color.FgYellow),
	diff.StatusUnchanged: color.New(color.Faint),
}

// Payload prints a summary of pending changes.
func (pp *PrettyPrint) Payload(p diff.Payload) {
	_, _ = fmt.Fprintln(pp.out(), pp.RenderPayload(p))
}

// RenderPayload renders metadata changes, then one line per section, then
// deletions.
func (pp *PrettyPrint) RenderPayload(p diff.Payload) string {
	if !p.Changed() {
		return color.New(color.Faint, color.Italic).Sprint(" nothing to save")
	}
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)

	var b strings.Builder
	if p.Name != nil {
		fmt.Fprintf(&b, "%s %q\n", bold.Sprint("name:"), *p.Name)
	}
	if p.Note != nil {
		fmt.Fprintf(&b, "%s %q\n", bold.Sprint("note:"), *p.Note)
	}
	if p.Hidden != nil {
		fmt.Fprintf(&b, "%s %t\n", bold.Sprint("hidden:"), *p.Hidden)
	}
	if p.LayoutChanged {
		fmt.Fprintf(&b, "%s %s\n", bold.Sprint("layout:"), strings.Join(p.Layout, ", "))
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Status"), bold.Sprint("Section"), bold.Sprint("Title"), bold.Sprint("Columns"), bold.Sprint("Tokens"))
	for _, s := range p.Sections {
		c, ok := statusColors[s.Status]
		if !ok {
			c = color.New()
		}
		tbl.AddRow(c.Sprint(string(s.Status)), s.ID, s.Title, strconv.Itoa(s.Columns), strconv.Itoa(len(s.TokenIDs)))
	}
	for _, id := range p.Deleted {
		tbl.AddRow(red.Sprint("deleted"), id, "", "", "")
	}
	b.WriteString(tbl.String())

	counts := p.Counts()
	fmt.Fprintf(&b, "\n%d new, %d updated, %d unchanged, %d deleted",
		counts[string(diff.StatusNew)], counts[string(diff.StatusUpdated)],
		counts[string(diff.StatusUnchanged)], counts["deleted"])
	return b.String()
}
