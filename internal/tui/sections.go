package tui

import (
	"fmt"

	"github.com/agrotrace/cropboard/models"
)

const timeLayout = "2006-01-02 15:04"

func renderHeader(version string, identity *models.Identity) string {
	title := titleStyle.Render("CropBoard")
	if version != "" {
		title += helpStyle.Render("  v" + version)
	}

	who := "signed out"
	if identity != nil {
		who = identity.Email
	}
	return title + "\n" + helpStyle.Render(who) + "\n"
}

func renderBanner(latest models.Notification) string {
	body := titleStyle.Render("Latest: "+latest.Title) + "\n"
	body += latest.Message + "\n"
	body += helpStyle.Render(latest.Author+"  "+latest.CreatedAt.Format(timeLayout)+"  (x dismiss)")
	return bannerStyle.Render(body) + "\n"
}

func renderBatches(items []models.Batch, idx int, stale bool) string {
	out := titleStyle.Render("Finalized batches")
	if stale {
		out += "  " + staleStyle.Render("(offline data)")
	}
	out += "\n"

	if len(items) == 0 {
		out += "No finalized batches yet\n"
		return out
	}

	for i, b := range items {
		cursor := "  "
		if i == idx {
			cursor = "> "
		}
		hash := b.BlockchainHash
		if hash == "" {
			hash = "-"
		}
		out += fmt.Sprintf("%s%s / %s  sown %s  %s\n", cursor, b.CropType, b.Variety, b.SowingDate, helpStyle.Render(hash))
	}
	return out
}

func renderFeed(items []models.Notification, idx int, ownEmail string, stale bool) string {
	out := titleStyle.Render("Notifications")
	if stale {
		out += "  " + staleStyle.Render("(offline data)")
	}
	out += "\n"

	if len(items) == 0 {
		out += "No notifications\n"
		return out
	}

	for i, n := range items {
		cursor := "  "
		if i == idx {
			cursor = "> "
		}
		owner := " "
		if n.OwnedBy(ownEmail) {
			owner = "*"
		}
		out += fmt.Sprintf("%s%s %s - %s %s\n", cursor, owner, n.Title, n.Message,
			helpStyle.Render(n.Author+" "+n.CreatedAt.Format(timeLayout)))
	}
	return out
}

func renderFailure(reason any) string {
	out := errorStyle.Render("Something went wrong while rendering the board.") + "\n\n"
	out += fmt.Sprintf("%v\n", reason)
	out += "The rest of the application is still running.\n"
	out += helpStyle.Render("q quit")
	return appStyle.Render(out)
}

func renderSetupError(err error) string {
	out := errorStyle.Render("CropBoard is not configured.") + "\n\n"
	out += err.Error() + "\n\n"
	out += "Set CROPBOARD_SUPABASE_URL and CROPBOARD_SUPABASE_ANON_KEY, or pass -url and -anon-key.\n"
	out += helpStyle.Render("q quit")
	return appStyle.Render(out)
}
