package tui

import "github.com/agrotrace/cropboard/models"

type profileModel struct {
	signingOut bool
	errMsg     string
}

func (m profileModel) render(identity *models.Identity) string {
	out := titleStyle.Render("Profile") + "\n\n"

	if identity == nil {
		out += "Not signed in\n"
		out += "\n" + helpStyle.Render("esc close  l sign in")
		return overlayBoxStyle.Render(out)
	}

	out += identity.Email + "\n"
	if m.signingOut {
		out += "\nSigning out...\n"
	}
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg) + "\n"
	}
	out += "\n" + helpStyle.Render("esc close  s sign out")
	return overlayBoxStyle.Render(out)
}
