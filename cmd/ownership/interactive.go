package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wippyai/owned/scenario"
)

const traceLines = 12

func (app *App) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Type scenario commands one at a time",
		Long: `Start an interactive session on a fresh scenario machine.

Each line is one scenario command, for example "make p 10" or
"move p q". The current handles, raw values and vault contents are shown
after every command. Leaving the session drops every remaining handle
and prints the destruction trace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := newInteractiveModel()
			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				return err
			}
			model.machine.Close()

			out := cmd.OutOrStdout()
			p := painter{enabled: app.config.colorEnabled(out)}
			for _, e := range model.machine.Trace()[model.shown:] {
				fmt.Fprintln(out, p.event(e))
			}
			return nil
		},
	}
}

type interactiveModel struct {
	err     error
	machine *scenario.Machine
	input   textinput.Model
	history []string
	// shown counts trace events already printed after the session ends.
	shown int
}

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "make p 10"
	ti.Prompt = "> "
	ti.Width = 40
	ti.Focus()

	return &interactiveModel{
		machine: scenario.NewMachine(),
		input:   ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.shown = len(m.machine.Trace())
			m.machine.Close()
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.history = append(m.history, line)
			m.err = m.machine.ExecLine(line)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ownership"))
	b.WriteString("\n\n")

	b.WriteString("Handles:\n")
	slots := m.machine.Slots()
	if len(slots) == 0 {
		b.WriteString(helpStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, s := range slots {
		if s.Valid {
			b.WriteString(fmt.Sprintf("  %s -> %s\n", s.Name, selectedStyle.Render(fmt.Sprintf("#%d (%d)", s.ID, s.X))))
		} else {
			b.WriteString(fmt.Sprintf("  %s -> %s\n", s.Name, helpStyle.Render("null")))
		}
	}

	if raws := m.machine.Raws(); len(raws) > 0 {
		b.WriteString("\nReleased:\n")
		for _, r := range raws {
			b.WriteString(fmt.Sprintf("  %s -> #%d (%d)\n", r.Name, r.ID, r.X))
		}
	}

	if vault := m.machine.Vault(); len(vault) > 0 {
		b.WriteString("\nVault:\n")
		for _, v := range vault {
			b.WriteString(fmt.Sprintf("  [%d] -> #%d (%d)\n", v.Handle, v.ID, v.X))
		}
	}

	b.WriteString("\nTrace:\n")
	trace := m.machine.Trace()
	if len(trace) > traceLines {
		trace = trace[len(trace)-traceLines:]
	}
	p := painter{enabled: true}
	for _, e := range trace {
		b.WriteString("  ")
		b.WriteString(p.event(e))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run • esc quit"))

	return b.String()
}
