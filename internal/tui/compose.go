package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

type composeModel struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func newComposeModel() composeModel {
	inputs := make([]textinput.Model, 2)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
	}
	inputs[0].Focus()

	return composeModel{inputs: inputs}
}

func (m composeModel) title() string {
	return m.inputs[0].Value()
}

func (m composeModel) message() string {
	return m.inputs[1].Value()
}

func (m composeModel) clearAll() composeModel {
	m.inputs[0].SetValue("")
	m.inputs[1].SetValue("")
	m.errMsg = ""
	m.inputs[m.focus].Blur()
	m.focus = 0
	m.inputs[0].Focus()
	return m
}

func (m composeModel) View() string {
	out := titleStyle.Render("New notification") + "\n\n"
	out += "Title:   [" + m.inputs[0].View() + "]\n"
	out += "Message: [" + m.inputs[1].View() + "]\n"

	if m.submitting {
		out += "\nPosting...\n"
	}
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg) + "\n"
	}

	out += "\n" + helpStyle.Render("esc cancel  tab next field  enter post")
	return out
}

func focusNextCompose(m composeModel) composeModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func focusPrevCompose(m composeModel) composeModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}
