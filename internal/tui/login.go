package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

type loginModel struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func newLoginModel() loginModel {
	inputs := make([]textinput.Model, 2)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
	}
	inputs[1].EchoMode = textinput.EchoPassword
	inputs[1].EchoCharacter = '*'
	inputs[0].Focus()

	return loginModel{inputs: inputs}
}

func (m loginModel) email() string {
	return m.inputs[0].Value()
}

func (m loginModel) password() string {
	return m.inputs[1].Value()
}

// clearPassword is the failed-attempt reset: the password never survives a
// rejection, the email does.
func (m loginModel) clearPassword() loginModel {
	m.inputs[1].SetValue("")
	return m
}

// clearAll is the successful-attempt reset.
func (m loginModel) clearAll() loginModel {
	m.inputs[0].SetValue("")
	m.inputs[1].SetValue("")
	m.errMsg = ""
	m.inputs[m.focus].Blur()
	m.focus = 0
	m.inputs[0].Focus()
	return m
}

func (m loginModel) View() string {
	out := titleStyle.Render("Sign in") + "\n\n"
	out += "Email:    [" + m.inputs[0].View() + "]\n"
	out += "Password: [" + m.inputs[1].View() + "]\n"

	if m.submitting {
		out += "\nSigning in...\n"
	}
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg) + "\n"
	}

	out += "\n" + helpStyle.Render("esc close  tab next field  enter sign in")
	return overlayBoxStyle.Render(out)
}

func focusNextLogin(m loginModel) loginModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func focusPrevLogin(m loginModel) loginModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}
