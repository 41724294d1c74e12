package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.cfg.KeyBindings

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor).
		Render("Curie - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		"• Enter         Send message",
		"• Alt+Enter     New line",
		fmt.Sprintf("• %-13s Merge documents panel", kb.DisplayActionKey("open_merge")),
		fmt.Sprintf("• %-13s Resume match panel", kb.DisplayActionKey("open_resume")),
		fmt.Sprintf("• %-13s Copy latest download link", kb.DisplayActionKey("copy_link")),
		fmt.Sprintf("• %-13s Scroll down", kb.DisplayActionKey("scroll_down")),
		fmt.Sprintf("• %-13s Scroll up", kb.DisplayActionKey("scroll_up")),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	panelActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Panels"),
		fmt.Sprintf("• %-13s Next field", kb.DisplayActionKey("focus_next")),
		fmt.Sprintf("• %-13s Previous field", kb.DisplayActionKey("focus_prev")),
		"• Enter         Choose files",
		fmt.Sprintf("• %-13s Clear field", kb.DisplayActionKey("clear_slot")),
		fmt.Sprintf("• %-13s Attach & Run", kb.DisplayActionKey("run_panel")),
		fmt.Sprintf("• %-13s Close panel", kb.DisplayActionKey("close_panel")),
	)

	var commands []string
	commands = append(commands, blue.Render("## Commands"))
	for _, c := range slashCommands {
		commands = append(commands, fmt.Sprintf("• %-20s %s", "/"+c.Name+" "+c.Args, c.Help))
	}

	column1 := lipgloss.JoinVertical(lipgloss.Left, globalActions, "", panelActions)
	column2 := lipgloss.JoinVertical(lipgloss.Left, commands...)

	columnStyle := lipgloss.NewStyle().Width(46).PaddingLeft(2)
	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"  ",
		columnStyle.Render(column2),
	)

	footer := DimStyle.Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpBox.Render(content))
}
