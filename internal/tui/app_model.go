package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agrotrace/cropboard/internal/backend"
	"github.com/agrotrace/cropboard/internal/batches"
	"github.com/agrotrace/cropboard/internal/feed"
	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/internal/session"
	"github.com/agrotrace/cropboard/models"
)

type popover int

const (
	popoverNone popover = iota
	popoverProfile
	popoverLogin
)

type appModel struct {
	ctx     context.Context
	session *session.Tracker
	feed    *feed.Store
	batches *batches.Store
	logger  *logger.Logger

	marketingURL string
	version      string
	setupErr     error

	identity     *models.Identity
	feedItems    []models.Notification
	feedStale    bool
	feedIdx      int
	batchItems   []models.Batch
	batchIdx     int
	batchesStale bool

	// bannerDismissed is a one-way latch: once set it stays set for the rest
	// of the run, through any number of session changes.
	bannerDismissed bool

	popover   popover
	login     loginModel
	profile   profileModel
	compose   composeModel
	composing bool

	showConfirm   bool
	confirm       confirmModel
	pendingDelete int64

	refreshing bool
	spin       spinner.Model

	status string
}

func newAppModel(ctx context.Context, deps Deps) appModel {
	m := appModel{
		ctx:          ctx,
		session:      deps.Session,
		feed:         deps.Feed,
		batches:      deps.Batches,
		logger:       deps.Logger,
		marketingURL: deps.MarketingURL,
		version:      deps.Version,
		setupErr:     deps.SetupErr,
		login:        newLoginModel(),
		compose:      newComposeModel(),
	}
	m.spin = spinner.New()
	m.spin.Spinner = spinner.MiniDot
	if deps.Session != nil {
		m.identity = deps.Session.Identity()
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.setupErr != nil {
		return nil
	}
	return tea.Batch(m.cmdRefreshFeed(), m.cmdRefreshBatches(), m.cmdWaitForSessionEvent())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionEventMsg:
		m.identity = msg.identity
		return m, m.cmdWaitForSessionEvent()
	case sessionClosedMsg:
		return m, nil
	case feedRefreshedMsg:
		m.refreshing = false
		m.feedItems = msg.result.Items
		m.feedStale = msg.result.Stale
		m.feedIdx = clampIndex(m.feedIdx, len(m.feedItems))
		return m, nil
	case batchesRefreshedMsg:
		m.batchItems = msg.result.Items
		m.batchesStale = msg.result.Stale
		m.batchIdx = clampIndex(m.batchIdx, len(m.batchItems))
		return m, nil
	case signInDoneMsg:
		m.login.submitting = false
		if msg.err != nil {
			m.login = m.login.clearPassword()
			m.login.errMsg = signInErrorText(msg.err)
			return m, nil
		}
		m.login = m.login.clearAll()
		m.popover = popoverNone
		return m, m.cmdRefreshFeed()
	case signOutDoneMsg:
		m.profile.signingOut = false
		m.popover = popoverNone
		if msg.err != nil {
			m.status = "Sign-out did not reach the server, session cleared locally"
			return m, cmdClearStatus()
		}
		return m, nil
	case postDoneMsg:
		m.compose.submitting = false
		if msg.err != nil {
			m.compose.errMsg = postErrorText(msg.err)
			return m, nil
		}
		m.compose = m.compose.clearAll()
		m.composing = false
		m.feedItems = m.feed.Items()
		m.feedIdx = clampIndex(m.feedIdx, len(m.feedItems))
		return m, nil
	case deleteDoneMsg:
		m.pendingDelete = 0
		if msg.err != nil {
			m.status = deleteErrorText(msg.err)
			return m, cmdClearStatus()
		}
		m.feedItems = m.feed.Items()
		m.feedIdx = clampIndex(m.feedIdx, len(m.feedItems))
		return m, nil
	case copiedMsg:
		m.status = "Copied!"
		return m, cmdClearStatus()
	case copyFailedMsg:
		m.logger.Warn().Err(msg.err).Msg("clipboard copy failed")
		m.status = "Could not copy to clipboard"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case browserOpenedMsg:
		if msg.err != nil {
			m.status = "Could not open the browser"
			return m, cmdClearStatus()
		}
		return m, nil
	case spinner.TickMsg:
		if m.refreshing {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.setupErr != nil {
		if key.Matches(keyMsg, keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.showConfirm {
		return m.updateConfirm(keyMsg)
	}
	switch m.popover {
	case popoverLogin:
		return m.updateLogin(keyMsg)
	case popoverProfile:
		return m.updateProfile(keyMsg)
	}
	if m.composing {
		return m.updateCompose(keyMsg)
	}
	return m.updateMain(keyMsg)
}

func (m appModel) updateMain(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.up):
		if m.identity != nil && m.feedIdx > 0 {
			m.feedIdx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.identity != nil && m.feedIdx < len(m.feedItems)-1 {
			m.feedIdx++
		}
	case key.Matches(keyMsg, keys.profile):
		m.popover = popoverProfile
	case key.Matches(keyMsg, keys.login):
		if m.identity == nil {
			m.popover = popoverLogin
		}
	case key.Matches(keyMsg, keys.newPost):
		if m.identity != nil {
			m.composing = true
		}
	case key.Matches(keyMsg, keys.refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, tea.Batch(m.spin.Tick, m.cmdRefreshFeed(), m.cmdRefreshBatches())
	case key.Matches(keyMsg, keys.delete):
		if m.identity == nil {
			return m, nil
		}
		item, ok := m.selectedNotification()
		if !ok {
			return m, nil
		}
		if !item.OwnedBy(m.identity.Email) {
			m.status = "You can only delete your own notifications"
			return m, cmdClearStatus()
		}
		m.showConfirm = true
		m.confirm.message = item.Title
		m.pendingDelete = item.ID
	case key.Matches(keyMsg, keys.copyHash):
		batch, ok := m.selectedBatch()
		if !ok || batch.BlockchainHash == "" {
			return m, nil
		}
		return m, cmdCopyToClipboard(batch.BlockchainHash)
	case key.Matches(keyMsg, keys.dismiss):
		if m.bannerEligible() {
			m.bannerDismissed = true
		}
	case key.Matches(keyMsg, keys.market):
		return m, m.cmdOpenMarketing()
	case key.Matches(keyMsg, keys.nextBatch):
		if len(m.batchItems) > 0 {
			m.batchIdx = (m.batchIdx + 1) % len(m.batchItems)
		}
	}

	return m, nil
}

func (m appModel) updateLogin(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.esc):
		m.popover = popoverNone
		return m, nil
	case key.Matches(keyMsg, keys.tab):
		m.login = focusNextLogin(m.login)
		return m, nil
	case key.Matches(keyMsg, keys.backtab):
		m.login = focusPrevLogin(m.login)
		return m, nil
	case key.Matches(keyMsg, keys.enter):
		email := strings.TrimSpace(m.login.email())
		pass := m.login.password()
		if email == "" || pass == "" {
			m.login.errMsg = "Email and password are required"
			return m, nil
		}
		if m.login.submitting {
			return m, nil
		}
		m.login.submitting = true
		m.login.errMsg = ""
		return m, m.cmdSignIn(email, pass)
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(keyMsg)
	return m, cmd
}

func (m appModel) updateProfile(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.esc):
		m.popover = popoverNone
	case key.Matches(keyMsg, keys.signOut):
		if m.identity == nil || m.profile.signingOut {
			return m, nil
		}
		m.profile.signingOut = true
		return m, m.cmdSignOut()
	case key.Matches(keyMsg, keys.login):
		// Only one popover is ever open: switching to sign-in closes profile.
		if m.identity == nil {
			m.popover = popoverLogin
		}
	}

	return m, nil
}

func (m appModel) updateCompose(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.esc):
		m.composing = false
		m.compose.errMsg = ""
		return m, nil
	case key.Matches(keyMsg, keys.tab):
		m.compose = focusNextCompose(m.compose)
		return m, nil
	case key.Matches(keyMsg, keys.backtab):
		m.compose = focusPrevCompose(m.compose)
		return m, nil
	case key.Matches(keyMsg, keys.enter):
		if strings.TrimSpace(m.compose.title()) == "" || strings.TrimSpace(m.compose.message()) == "" {
			m.compose.errMsg = "Title and message are required"
			return m, nil
		}
		if m.compose.submitting {
			return m, nil
		}
		m.compose.submitting = true
		m.compose.errMsg = ""
		return m, m.cmdPost(m.compose.title(), m.compose.message())
	}

	var cmd tea.Cmd
	m.compose.inputs[m.compose.focus], cmd = m.compose.inputs[m.compose.focus].Update(keyMsg)
	return m, cmd
}

func (m appModel) updateConfirm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.yes):
		m.showConfirm = false
		if m.pendingDelete == 0 {
			return m, nil
		}
		return m, m.cmdDelete(m.pendingDelete)
	case key.Matches(keyMsg, keys.no), key.Matches(keyMsg, keys.esc):
		m.showConfirm = false
		m.pendingDelete = 0
	}
	return m, nil
}

// View renders the whole board. A panic anywhere below is contained here, at
// the outermost boundary, so one bad render degrades to a failure panel
// instead of killing the program.
func (m appModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Msg("render failure contained")
			out = renderFailure(r)
		}
	}()

	if m.setupErr != nil {
		return renderSetupError(m.setupErr)
	}

	body := renderHeader(m.version, m.identity)
	if m.refreshing {
		body += m.spin.View() + " refreshing\n"
	}

	if m.bannerEligible() {
		body += "\n" + renderBanner(m.feedItems[0])
	}

	body += "\n" + renderBatches(m.batchItems, m.batchIdx, m.batchesStale)

	body += "\n"
	if m.identity != nil {
		if m.composing {
			body += m.compose.View() + "\n"
		} else {
			body += renderFeed(m.feedItems, m.feedIdx, m.identity.Email, m.feedStale)
		}
	} else {
		body += helpStyle.Render("Sign in to post and manage notifications (l)") + "\n"
	}

	if m.status != "" {
		body += "\n" + m.status + "\n"
	}
	body += "\n" + m.helpLine()

	if m.showConfirm {
		body += "\n\n" + m.confirm.View()
	}
	switch m.popover {
	case popoverLogin:
		body += "\n\n" + m.login.View()
	case popoverProfile:
		body += "\n\n" + m.profile.render(m.identity)
	}

	return appStyle.Render(body)
}

// bannerEligible implements the highlight rule: the banner shows only to
// signed-out visitors, only when there is something to show, and never again
// after a dismissal.
func (m appModel) bannerEligible() bool {
	return m.identity == nil && len(m.feedItems) > 0 && !m.bannerDismissed
}

func (m appModel) helpLine() string {
	if m.identity != nil {
		return helpStyle.Render("n new  d delete  j/k move  b next batch  c copy hash  p profile  m market  r refresh  q quit")
	}
	return helpStyle.Render("l sign in  p profile  b next batch  c copy hash  m market  r refresh  q quit")
}

func (m appModel) selectedNotification() (models.Notification, bool) {
	if len(m.feedItems) == 0 || m.feedIdx < 0 || m.feedIdx >= len(m.feedItems) {
		return models.Notification{}, false
	}
	return m.feedItems[m.feedIdx], true
}

func (m appModel) selectedBatch() (models.Batch, bool) {
	if len(m.batchItems) == 0 || m.batchIdx < 0 || m.batchIdx >= len(m.batchItems) {
		return models.Batch{}, false
	}
	return m.batchItems[m.batchIdx], true
}

func (m appModel) cmdWaitForSessionEvent() tea.Cmd {
	events := m.session.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return sessionClosedMsg{}
		}
		return sessionEventMsg{identity: ev.Identity}
	}
}

func (m appModel) cmdRefreshFeed() tea.Cmd {
	ctx := m.ctx
	store := m.feed
	return func() tea.Msg {
		return feedRefreshedMsg{result: store.Refresh(ctx)}
	}
}

func (m appModel) cmdRefreshBatches() tea.Cmd {
	ctx := m.ctx
	store := m.batches
	return func() tea.Msg {
		return batchesRefreshedMsg{result: store.Refresh(ctx)}
	}
}

func (m appModel) cmdSignIn(email, password string) tea.Cmd {
	ctx := m.ctx
	tracker := m.session
	return func() tea.Msg {
		return signInDoneMsg{err: tracker.SignIn(ctx, email, password)}
	}
}

func (m appModel) cmdSignOut() tea.Cmd {
	ctx := m.ctx
	tracker := m.session
	return func() tea.Msg {
		return signOutDoneMsg{err: tracker.SignOut(ctx)}
	}
}

func (m appModel) cmdPost(title, message string) tea.Cmd {
	ctx := m.ctx
	store := m.feed
	author := ""
	if m.identity != nil {
		author = m.identity.Email
	}
	return func() tea.Msg {
		return postDoneMsg{err: store.Create(ctx, title, message, author)}
	}
}

func (m appModel) cmdDelete(id int64) tea.Cmd {
	ctx := m.ctx
	store := m.feed
	return func() tea.Msg {
		return deleteDoneMsg{err: store.Delete(ctx, id)}
	}
}

func (m appModel) cmdOpenMarketing() tea.Cmd {
	url := m.marketingURL
	return func() tea.Msg {
		return browserOpenedMsg{err: openBrowser(url)}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copyFailedMsg{err: err}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func signInErrorText(err error) string {
	if errors.Is(err, backend.ErrInvalidCredentials) {
		return "Invalid email or password"
	}
	return "Sign-in failed: " + err.Error()
}

func postErrorText(err error) string {
	switch {
	case errors.Is(err, feed.ErrEmptyTitle), errors.Is(err, feed.ErrEmptyMessage):
		return "Title and message are required"
	default:
		return "Post failed: " + err.Error()
	}
}

func deleteErrorText(err error) string {
	if errors.Is(err, backend.ErrForbidden) {
		return "You can only delete your own notifications"
	}
	return "Delete failed: " + err.Error()
}

func clampIndex(idx, length int) int {
	if idx >= length {
		idx = length - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
