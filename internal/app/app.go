// Package app contains the root application model: a Bubble Tea program that
// drives the panel manager one frame at a time and composites its layers.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/keys"
	"github.com/zjrosen/strata/internal/layer"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
	"github.com/zjrosen/strata/internal/pubsub"
	"github.com/zjrosen/strata/internal/ui/logoverlay"
	"github.com/zjrosen/strata/internal/ui/toaster"
	"github.com/zjrosen/strata/internal/uimanager"
)

// Demo panel addresses shipped in the builtin catalog.
const (
	AttributePanel panel.Address = "Panel_Attribute"
	InventoryPanel panel.Address = "Panel_Inventory"
	SettingsPanel  panel.Address = "Panel_Settings"
	PromptPanel    panel.Address = "Panel_Prompt"
	LoadingPanel   panel.Address = "Panel_Loading"
)

// DefaultFrameRate is used when Options.FrameRate is not positive.
const DefaultFrameRate = 30

// FrameMsg drives one manager tick.
type FrameMsg struct {
	Time time.Time
}

// ManifestsChangedMsg is delivered when the manifest watcher fires.
type ManifestsChangedMsg struct{}

// ReloadedMsg reports the outcome of a catalog reload.
type ReloadedMsg struct {
	Count int
	Err   error
}

// ReloadFunc re-reads the catalog and returns how many definitions it holds.
type ReloadFunc func(ctx context.Context) (int, error)

// Options wires the model to its collaborators. Manager is required; the
// rest are optional.
type Options struct {
	Manager   *uimanager.Manager
	Events    pubsub.Subscriber[uimanager.Event]
	Catalog   catalog.Store
	Reload    ReloadFunc
	Watch     <-chan struct{}
	Flags     *flags.Registry
	FrameRate int
	Debug     bool
}

// Model is the root application state.
type Model struct {
	manager   *uimanager.Manager
	catalog   catalog.Store
	reload    ReloadFunc
	watch     <-chan struct{}
	frameRate int
	frames    int

	width  int
	height int

	help     help.Model
	showHelp bool
	toaster  toaster.Model

	logsEnabled bool
	logOverlay  logoverlay.Model

	ctx           context.Context
	cancel        context.CancelFunc
	eventListener *pubsub.ContinuousListener[uimanager.Event]
	logListener   *log.LogListener
}

// New creates the root model.
func New(opts Options) Model {
	zone.NewGlobal()
	ctx, cancel := context.WithCancel(context.Background())

	rate := opts.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}

	m := Model{
		manager:     opts.Manager,
		catalog:     opts.Catalog,
		reload:      opts.Reload,
		watch:       opts.Watch,
		frameRate:   rate,
		help:        help.New(),
		toaster:     toaster.New(),
		logsEnabled: opts.Debug || opts.Flags.Enabled(flags.FlagLogOverlay),
		logOverlay:  logoverlay.New(),
		ctx:         ctx,
		cancel:      cancel,
	}
	if opts.Events != nil {
		m.eventListener = pubsub.NewContinuousListener(ctx, opts.Events)
	}
	if m.logsEnabled {
		m.logListener = log.NewListener(ctx)
	}
	return m
}

// Init starts the frame loop and the listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.nextFrame()}
	if m.eventListener != nil {
		cmds = append(cmds, m.listenEvents())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.watch != nil {
		cmds = append(cmds, m.waitForManifests())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case FrameMsg:
		m.frames++
		m.manager.Tick()
		return m, m.nextFrame()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case pubsub.Event[uimanager.Event]:
		var cmd tea.Cmd
		if text, style, ok := describe(msg); ok {
			m.toaster, cmd = m.toaster.Notify(text, style, toaster.DefaultDuration)
		}
		return m, tea.Batch(cmd, m.listenEvents())

	case log.LogEvent:
		m.logOverlay.Append(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case ManifestsChangedMsg:
		log.Info(log.CatWatcher, "manifests changed, reloading catalog")
		return m, tea.Batch(m.reloadCatalog(), m.waitForManifests())

	case ReloadedMsg:
		var cmd tea.Cmd
		if msg.Err != nil {
			log.ErrorErr(log.CatCatalog, "catalog reload failed", msg.Err)
			m.toaster, cmd = m.toaster.Notify("Reload failed: "+msg.Err.Error(), toaster.StyleError, toaster.DefaultDuration)
		} else {
			m.toaster, cmd = m.toaster.Notify(fmt.Sprintf("Catalog reloaded (%d panels)", msg.Count), toaster.StyleInfo, toaster.DefaultDuration)
		}
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Dismiss(msg)
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logsEnabled && key.Matches(msg, keys.App.LogOverlay) {
		m.logOverlay.Toggle()
		return m, nil
	}
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.App.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.App.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, keys.App.OpenAttribute):
		return m.open(AttributePanel, layer.Bot)
	case key.Matches(msg, keys.App.CloseAttribute):
		return m.close(AttributePanel)
	case key.Matches(msg, keys.App.OpenInventory):
		return m.open(InventoryPanel, layer.Mid)
	case key.Matches(msg, keys.App.OpenSettings):
		return m.open(SettingsPanel, layer.Top)
	case key.Matches(msg, keys.App.OpenPrompt):
		return m.open(PromptPanel, layer.System)
	case key.Matches(msg, keys.App.OpenLoading):
		return m.open(LoadingPanel, layer.System)

	case key.Matches(msg, keys.App.Back):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if _, ok := m.manager.Back(); !ok {
			return m.notify("Nothing to go back to", toaster.StyleInfo)
		}
		return m, nil

	case key.Matches(msg, keys.App.CloseTop):
		history := m.manager.History()
		if len(history) == 0 {
			return m.notify("No open panels", toaster.StyleInfo)
		}
		return m.close(history[len(history)-1].Address)

	case key.Matches(msg, keys.App.ClearAll):
		m.manager.ClearAll()
		return m, nil

	case key.Matches(msg, keys.App.Preload):
		return m, m.preloadCatalog()

	case key.Matches(msg, keys.App.Reload):
		return m, m.reloadCatalog()
	}

	return m, nil
}

func (m Model) open(address panel.Address, layerName string) (tea.Model, tea.Cmd) {
	req := m.manager.Open(address, layerName)
	// Other failures arrive as EventLoadFailed.
	if err := req.Err(); errors.Is(err, uimanager.ErrNotInitialized) {
		return m.notify(err.Error(), toaster.StyleError)
	}
	return m, nil
}

func (m Model) close(address panel.Address) (tea.Model, tea.Cmd) {
	if err := m.manager.Close(address); err != nil {
		return m.notify(err.Error(), toaster.StyleWarn)
	}
	return m, nil
}

func (m Model) notify(text string, style toaster.Style) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Notify(text, style, toaster.DefaultDuration)
	return m, cmd
}

// preloadCatalog queues a preload for every catalog address. The manager is
// only touched from Update, so the listing runs inline.
func (m Model) preloadCatalog() tea.Cmd {
	if m.catalog == nil {
		return nil
	}
	defs, err := m.catalog.List(m.ctx)
	if err != nil {
		log.ErrorErr(log.CatCatalog, "listing catalog for preload", err)
		return nil
	}
	for _, def := range defs {
		m.manager.Preload(panel.Address(def.Address))
	}
	log.Debug(log.CatPanel, "preload queued", "count", len(defs))
	return nil
}

func (m Model) reloadCatalog() tea.Cmd {
	if m.reload == nil {
		return nil
	}
	reload, ctx := m.reload, m.ctx
	return func() tea.Msg {
		n, err := reload(ctx)
		return ReloadedMsg{Count: n, Err: err}
	}
}

func (m Model) listenEvents() tea.Cmd {
	if m.eventListener == nil {
		return nil
	}
	return m.eventListener.Listen()
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

func (m Model) waitForManifests() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	watch, ctx := m.watch, m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watch:
			if !ok {
				return nil
			}
			return ManifestsChangedMsg{}
		}
	}
}

// Manager returns the panel manager the model drives.
func (m Model) Manager() *uimanager.Manager {
	return m.manager
}

// Close stops the listeners. The manager is owned by the caller.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// describe maps a manager event to a toast. Events that need no toast
// report false.
func describe(e pubsub.Event[uimanager.Event]) (string, toaster.Style, bool) {
	p := e.Payload
	switch e.Type {
	case uimanager.EventLoadFailed:
		return fmt.Sprintf("%s failed: %v", p.Address, p.Err), toaster.StyleError, true
	case uimanager.EventPreloaded:
		return fmt.Sprintf("%s preloaded", p.Address), toaster.StyleInfo, true
	case uimanager.EventClosed:
		return fmt.Sprintf("%s closed", p.Address), toaster.StyleSuccess, true
	case uimanager.EventCleared:
		return "All panels cleared", toaster.StyleWarn, true
	default:
		return "", toaster.StyleInfo, false
	}
}
