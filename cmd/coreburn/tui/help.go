package tui

const helpMarkdown = `## coreburn

Pick a duration and a core count, then start the burn. One worker per core
spins a Fibonacci loop until the timer runs out; the score is one point per
million iterations.

### Setup

| Key | Action |
|-----|--------|
| ` + "`Tab` / `Shift+Tab`" + ` | Cycle field focus |
| ` + "`Arrows`" + ` | Toggle unit / adjust core count |
| ` + "`Enter`" + ` | Next field, or start on OK |
| ` + "`h`" + ` | Run history |

### During a burn

| Key | Action |
|-----|--------|
| ` + "`Esc`" + ` | Stop the burn and return to setup |

### Anywhere

| Key | Action |
|-----|--------|
| ` + "`?`" + ` | Toggle this help |
| ` + "`q` / `Ctrl+C`" + ` | Quit |
`

// renderHelp renders the help markdown, falling back to the raw text if the
// renderer is unavailable.
func (m Model) renderHelp() string {
	if m.render != nil {
		if out, err := m.render.Render(helpMarkdown); err == nil {
			return out
		}
	}
	return helpMarkdown
}
