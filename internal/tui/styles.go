package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/folio/internal/library"
)

type palette struct {
	border      lipgloss.Color
	borderFocus lipgloss.Color
	text        lipgloss.Color
	textFocus   lipgloss.Color
	background  lipgloss.Color
	accent      lipgloss.Color
	muted       lipgloss.Color
	rating      lipgloss.Color
	errText     lipgloss.Color
}

var palettes = map[library.Theme]palette{
	library.ThemeLight: {
		border:      lipgloss.Color("62"),
		borderFocus: lipgloss.Color("27"),
		text:        lipgloss.Color("236"),
		textFocus:   lipgloss.Color("16"),
		background:  lipgloss.Color("254"),
		accent:      lipgloss.Color("25"),
		muted:       lipgloss.Color("243"),
		rating:      lipgloss.Color("136"),
		errText:     lipgloss.Color("160"),
	},
	library.ThemeDark: {
		border:      lipgloss.Color("62"),
		borderFocus: lipgloss.Color("214"),
		text:        lipgloss.Color("252"),
		textFocus:   lipgloss.Color("230"),
		background:  lipgloss.Color("237"),
		accent:      lipgloss.Color("110"),
		muted:       lipgloss.Color("247"),
		rating:      lipgloss.Color("178"),
		errText:     lipgloss.Color("203"),
	},
}

type styles struct {
	item         lipgloss.Style
	itemSelected lipgloss.Style
	title        lipgloss.Style
	authors      lipgloss.Style
	metadata     lipgloss.Style
	rating       lipgloss.Style
	marker       lipgloss.Style

	header  lipgloss.Style
	status  lipgloss.Style
	errMsg  lipgloss.Style
	help    lipgloss.Style
	section lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(theme library.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[library.ThemeLight]
	}

	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	item := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(p.border).
		Padding(0, 1).
		Foreground(p.text)

	return styles{
		item: item,
		itemSelected: item.Copy().
			BorderForeground(p.borderFocus).
			Foreground(p.textFocus).
			Background(p.background),
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.textFocus),
		authors:  lipgloss.NewStyle().Foreground(p.accent),
		metadata: lipgloss.NewStyle().Foreground(p.muted).Faint(true),
		rating:   lipgloss.NewStyle().Foreground(p.rating),
		marker:   lipgloss.NewStyle().Bold(true).Foreground(p.rating),

		header:  lipgloss.NewStyle().Bold(true).Foreground(p.borderFocus).MarginBottom(1),
		status:  lipgloss.NewStyle().Foreground(p.muted),
		errMsg:  lipgloss.NewStyle().Bold(true).Foreground(p.errText),
		help:    lipgloss.NewStyle().MarginTop(1).Foreground(p.muted),
		section: lipgloss.NewStyle().Bold(true).Foreground(p.accent).MarginTop(1),
		detail:  lipgloss.NewStyle().Foreground(p.text),
	}
}
