package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"coscindex/internal/adapters/tui/styles"
)

// RenderKeyHelp renders one binding as "key desc"
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine is the footer of every view
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderStatus renders a status line: copy confirmations in green, load and
// snapshot failures in red
func RenderStatus(status string, isError bool) string {
	if status == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(status)
	}
	return styles.Success.Render(status)
}

func RenderTitle(title string) string {
	return styles.Title.Render(title)
}

// RenderSubtitle renders counts and breadcrumbs under a title
func RenderSubtitle(subtitle string) string {
	return styles.Subtitle.Render(subtitle)
}

func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// RenderLabelValue renders "label: value", as in "Scheme: Sample"
func RenderLabelValue(label, value string) string {
	return fmt.Sprintf("%s %s",
		styles.InputLabel.Render(label+":"),
		value,
	)
}

// ViewBuilder assembles a view top to bottom: title, body, status, help
type ViewBuilder struct {
	b strings.Builder
}

func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(RenderTitle(title))
	v.b.WriteString("\n\n")
	return v
}

func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	v.b.WriteString(RenderSubtitle(subtitle))
	v.b.WriteString("\n\n")
	return v
}

func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds a dimmed line, used for empty resources and hints
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(RenderMuted(text))
	v.b.WriteString("\n")
	return v
}

// Status adds the pane's status line, if any
func (v *ViewBuilder) Status(p *Pane) *ViewBuilder {
	if p.Status == "" {
		return v
	}
	v.b.WriteString(p.StatusLine())
	v.b.WriteString("\n\n")
	return v
}

func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// String pads the view with the app margins
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
