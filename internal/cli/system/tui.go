package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Habits, ctx.Tracker, ctx.Wellness, ctx.Now), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
