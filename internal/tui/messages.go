package tui

import (
	"github.com/agrotrace/cropboard/internal/batches"
	"github.com/agrotrace/cropboard/internal/feed"
	"github.com/agrotrace/cropboard/models"
)

type sessionEventMsg struct {
	identity *models.Identity
}

type sessionClosedMsg struct{}

type feedRefreshedMsg struct {
	result feed.RefreshResult
}

type batchesRefreshedMsg struct {
	result batches.RefreshResult
}

type signInDoneMsg struct {
	err error
}

type signOutDoneMsg struct {
	err error
}

type postDoneMsg struct {
	err error
}

type deleteDoneMsg struct {
	err error
}

type browserOpenedMsg struct {
	err error
}

type copiedMsg struct{}

type copyFailedMsg struct {
	err error
}

type clearStatusMsg struct{}
