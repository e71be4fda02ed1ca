// Package editor is the interactive collection editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/golang/glog"

	"tableflip.dev/curate/pkg/app"
	"tableflip.dev/curate/pkg/diff"
	"tableflip.dev/curate/pkg/grouping"
	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/staged"
	"tableflip.dev/curate/pkg/store"
	"tableflip.dev/curate/pkg/token"
	"tableflip.dev/curate/pkg/tui/theme"
)

type pane int

const (
	paneGallery pane = iota
	panePicker
)

type inputMode int

const (
	inputNone inputMode = iota
	inputFilter
	inputTitle
)

// pickerItem is one cursor stop in the picker: a group title row or one
// token slot of a token row.
type pickerItem struct {
	header    bool
	groupID   string
	title     string
	count     int
	collapsed bool
	token     token.Token
	// row indexes the visible picker rows.
	row int
}

type savedMsg struct {
	payload diff.Payload
	err     error
}

type storeEventMsg struct {
	event store.Event
	ok    bool
}

// Model is the Bubble Tea model for one collection under edit.
type Model struct {
	ctx        context.Context
	svc        *app.Service
	mutator    app.Mutator
	ed         *app.Editor
	collection string
	theme      theme.Theme

	focus     pane
	section   int
	slot      int
	picker    int
	collapsed rows.CollapsedSet
	query     string

	input textinput.Model
	mode  inputMode

	saving bool
	status string
	err    error

	width  int
	height int

	events <-chan store.Event
}

// New builds the editor model. events may be nil.
func New(ctx context.Context, svc *app.Service, ed *app.Editor, mutator app.Mutator, events <-chan store.Event) *Model {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Prompt = ""

	if mutator == nil && svc != nil {
		mutator = &app.LocalMutator{Persistence: svc.Persistence}
	}
	m := &Model{
		ctx:        ctx,
		svc:        svc,
		mutator:    mutator,
		ed:         ed,
		collection: ed.State().ID(),
		theme:      theme.Default(),
		collapsed:  rows.NewCollapsedSet(),
		input:      ti,
		status:     "tab switch pane · enter add/activate · n new section · +/- columns · s save · q quit",
		width:      100,
		height:     30,
		events:     events,
	}
	m.section = max(0, indexOf(ed.State().Order(), ed.State().ActiveSectionID()))
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		return storeEventMsg{event: ev, ok: ok}
	}
}

func (m *Model) saveCmd() tea.Cmd {
	ctx, svc, ed, mutator := m.ctx, m.svc, m.ed, m.mutator
	return func() tea.Msg {
		p, err := svc.Save(ctx, ed, mutator)
		return savedMsg{payload: p, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = fmt.Errorf("save failed, edits are kept: %w", msg.err)
			return m, nil
		}
		c := msg.payload.Counts()
		m.err = nil
		m.status = fmt.Sprintf("saved: %d new, %d updated, %d deleted", c["new"], c["updated"], c["deleted"])
		return m, nil

	case storeEventMsg:
		if !msg.ok {
			m.events = nil
			return m, nil
		}
		m.handleStoreEvent(msg.event)
		return m, m.waitForEvent()

	case tea.KeyPressMsg:
		if m.mode != inputNone {
			return m, m.handleInputKey(msg)
		}
		return m, m.handleKey(msg.String())
	}

	if m.mode != inputNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleStoreEvent reloads after another process re-imports tokens. Draft
// events are our own commits or a concurrent CLI edit; the latter wins
// only when no save is in flight.
func (m *Model) handleStoreEvent(ev store.Event) {
	switch ev.Type {
	case store.EventTokensChanged:
	case store.EventDraftChanged, store.EventServerChanged:
		if ev.Collection != m.collection {
			return
		}
	default:
		return
	}
	if m.saving || m.svc == nil {
		return
	}
	ed, err := m.svc.Open(m.ctx, m.collection)
	if err != nil {
		glog.Warningf("editor: reload %q: %v", m.collection, err)
		return
	}
	if sameLayout(ed.State(), m.ed.State()) {
		return
	}
	m.ed = ed
	m.clampCursors()
	m.status = "reloaded " + ev.Type.String() + " change"
}

func sameLayout(a, b *staged.State) bool {
	if diff.Compute(a, b.Collection()).Changed() {
		return false
	}
	return len(a.Known()) == len(b.Known()) && a.ActiveSectionID() == b.ActiveSectionID()
}

func (m *Model) handleInputKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if m.mode == inputFilter {
			m.query = ""
			m.picker = 0
		}
		m.mode = inputNone
		m.input.Blur()
		return nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()
		switch mode {
		case inputFilter:
			m.query = value
			m.picker = 0
		case inputTitle:
			id := m.currentSectionID()
			m.apply(func(s *staged.State) (*staged.State, error) {
				return s.SetTitle(id, value), nil
			})
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == inputFilter {
		m.query = strings.TrimSpace(m.input.Value())
		m.picker = 0
	}
	return cmd
}

func (m *Model) startInput(mode inputMode, value string) tea.Cmd {
	m.mode = mode
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) handleKey(key string) tea.Cmd {
	m.err = nil
	switch key {
	case "ctrl+c", "q":
		return tea.Quit
	case "tab":
		if m.focus == paneGallery {
			m.focus = panePicker
		} else {
			m.focus = paneGallery
		}
		return nil
	case "/":
		m.focus = panePicker
		return m.startInput(inputFilter, m.query)
	case "s":
		if m.saving {
			m.status = "save already in progress"
			return nil
		}
		if !m.ed.Payload().Changed() {
			m.status = "nothing to save"
			return nil
		}
		m.saving = true
		m.status = "saving…"
		return m.saveCmd()
	case "n":
		m.apply(func(s *staged.State) (*staged.State, error) {
			next, _ := s.CreateSection()
			return next, nil
		})
		m.section = max(0, indexOf(m.ed.State().Order(), m.ed.State().ActiveSectionID()))
		m.slot = 0
		return nil
	case "D":
		id := m.currentSectionID()
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.DeleteSection(id)
		})
		return nil
	case "+", "=":
		id := m.currentSectionID()
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.IncrementColumns(id), nil
		})
		return nil
	case "-":
		id := m.currentSectionID()
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.DecrementColumns(id), nil
		})
		return nil
	case "t":
		sec, ok := m.ed.State().Section(m.currentSectionID())
		if !ok {
			return nil
		}
		return m.startInput(inputTitle, sec.Title)
	}

	if m.focus == panePicker {
		m.handlePickerKey(key)
	} else {
		m.handleGalleryKey(key)
	}
	return nil
}

func (m *Model) handlePickerKey(key string) {
	items := m.pickerItems()
	switch key {
	case "j", "down", "l", "right":
		if m.picker < len(items)-1 {
			m.picker++
		}
	case "k", "up", "h", "left":
		if m.picker > 0 {
			m.picker--
		}
	case "c":
		if it, ok := m.pickerItem(items); ok {
			m.collapsed = m.collapsed.Toggle(it.groupID)
		}
	case "enter", "space", " ":
		it, ok := m.pickerItem(items)
		if !ok {
			return
		}
		if it.header {
			m.collapsed = m.collapsed.Toggle(it.groupID)
			return
		}
		t := it.token
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.AddToActive(t), nil
		})
	}
	m.picker = min(m.picker, max(0, len(m.pickerItems())-1))
}

func (m *Model) handleGalleryKey(key string) {
	st := m.ed.State()
	id := m.currentSectionID()
	sec, _ := st.Section(id)
	switch key {
	case "j", "down":
		if m.section < st.Len()-1 {
			m.section++
			m.slot = 0
		}
	case "k", "up":
		if m.section > 0 {
			m.section--
			m.slot = 0
		}
	case "l", "right":
		if m.slot < len(sec.Slots)-1 {
			m.slot++
		}
	case "h", "left":
		if m.slot > 0 {
			m.slot--
		}
	case "enter", "a":
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.SetActiveSection(id), nil
		})
	case "x":
		slot := m.slot
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.RemoveSlot(id, slot), nil
		})
	case "w":
		slot := m.slot
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.InsertWhitespace(id, slot), nil
		})
	case "<", ">":
		if m.slot >= len(sec.Slots) {
			return
		}
		tid := sec.Slots[m.slot].TokenID()
		if tid == "" {
			return
		}
		to := m.slot - 1
		if key == ">" {
			to = m.slot + 1
		}
		if to < 0 || to >= len(sec.Slots) {
			return
		}
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.MoveToken(tid, id, to), nil
		})
		m.slot = to
	case "K", "J":
		to := m.section - 1
		if key == "J" {
			to = m.section + 1
		}
		if to < 0 || to >= st.Len() {
			return
		}
		m.apply(func(s *staged.State) (*staged.State, error) {
			return s.MoveSection(id, to), nil
		})
		m.section = to
	}
	m.clampCursors()
}

// apply runs one edit and commits the draft. Policy failures surface in the
// footer and leave the state untouched.
func (m *Model) apply(edit func(*staged.State) (*staged.State, error)) {
	before := m.ed.State()
	if err := m.ed.Apply(edit); err != nil {
		if errors.Is(err, staged.ErrLastSection) {
			m.err = errors.New("a collection needs at least one section")
		} else {
			m.err = err
		}
		return
	}
	if m.ed.State() == before {
		return
	}
	if m.svc != nil {
		if err := m.svc.Commit(m.ctx, m.ed); err != nil {
			m.err = err
		}
	}
	m.clampCursors()
}

func (m *Model) clampCursors() {
	st := m.ed.State()
	m.section = min(max(m.section, 0), max(st.Len()-1, 0))
	sec, _ := st.Section(m.currentSectionID())
	m.slot = min(max(m.slot, 0), max(len(sec.Slots)-1, 0))
}

func (m *Model) currentSectionID() string {
	order := m.ed.State().Order()
	if m.section < 0 || m.section >= len(order) {
		return ""
	}
	return order[m.section]
}

func (m *Model) groups() []grouping.Group {
	return grouping.Filter(grouping.ByContract(m.ed.State().Unplaced()), m.query)
}

func (m *Model) columnsPerRow() int {
	if m.svc == nil || m.svc.Config == nil {
		return rows.DefaultColumnsPerRow
	}
	return m.svc.Config.ColumnsPerRow()
}

// pickerRows builds the visible grouped rows and each group's token count.
func (m *Model) pickerRows() (rows.Result, map[string]int) {
	groups := m.groups()
	counts := make(map[string]int, len(groups))
	for _, g := range groups {
		counts[g.ContractID] = len(g.Tokens)
	}
	res := rows.Grouped(groups, m.collapsed, rows.GroupedOptions{ColumnsPerRow: m.columnsPerRow()})
	return rows.Visible(res), counts
}

func (m *Model) pickerItems() []pickerItem {
	res, counts := m.pickerRows()
	return itemsOf(res, counts)
}

func itemsOf(res rows.Result, counts map[string]int) []pickerItem {
	items := make([]pickerItem, 0, len(res.Rows))
	for i, r := range res.Rows {
		switch r.Kind {
		case rows.KindSectionTitle:
			items = append(items, pickerItem{
				header:    true,
				groupID:   r.SectionID,
				title:     r.Title,
				count:     counts[r.SectionID],
				collapsed: r.Collapsed,
				row:       i,
			})
		case rows.KindTokens:
			for _, slot := range r.Slots {
				if t, ok := slot.Token(); ok {
					items = append(items, pickerItem{groupID: r.SectionID, token: t, row: i})
				}
			}
		}
	}
	return items
}

func (m *Model) pickerItem(items []pickerItem) (pickerItem, bool) {
	if m.picker < 0 || m.picker >= len(items) {
		return pickerItem{}, false
	}
	return items[m.picker], true
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Run opens the editor full screen and blocks until it exits.
func Run(ctx context.Context, svc *app.Service, collection string, mutator app.Mutator) error {
	ed, err := svc.Open(ctx, collection)
	if err != nil {
		return err
	}
	events, err := svc.Watch(ctx)
	if err != nil {
		glog.Warningf("editor: live reload disabled: %v", err)
		events = nil
	}
	p := tea.NewProgram(New(ctx, svc, ed, mutator, events), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
