// Package tui is the terminal front end of the quote wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quoteforge/models"
	"quoteforge/services/pricing"
	"quoteforge/services/steps"
	"quoteforge/services/wizard"
)

// hydratedMsg reports whether this load was the one that hydrated the store.
type hydratedMsg struct{ ok bool }

type submitDoneMsg struct {
	quote models.PricedQuote
	err   error
}

// Model drives one wizard controller from the keyboard.
type Model struct {
	ctx     context.Context
	ctrl    *wizard.Controller
	listing pricing.Listing
	options steps.Options

	view      wizard.View
	fields    []field
	cursor    int
	editing   bool
	input     textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	fieldErrs steps.FieldErrors
	status    string
	errMsg    string
	busy      bool
	width     int
}

func New(ctx context.Context, ctrl *wizard.Controller, catalog *pricing.Catalog) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	in := textinput.New()
	in.CharLimit = 200
	in.Width = 40

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		listing:  catalog.Listing(),
		options:  steps.StaticOptions(),
		input:    in,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.refresh()
	return m
}

// Init hydrates the store in the background; until it finishes only the
// placeholder view is shown.
func (m Model) Init() tea.Cmd {
	store := m.ctrl.Store()
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return hydratedMsg{ok: store.Hydrate(ctx)}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-4, 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hydratedMsg:
		m.refresh()
		if m.ctrl.Store().MemoryOnly() {
			m.status = "Continuing without saving drafts."
		} else if msg.ok && (m.view.ActiveQuoteID != "" || !m.view.DraftEmpty) {
			m.status = "Resumed your saved draft."
		}
		return m, nil

	case submitDoneMsg:
		m.busy = false
		m.refresh()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Quote %s submitted.", msg.quote.ID)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.view.Hydrated || m.busy {
			return m, nil
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		if m.view.Phase == models.WizardSubmitted {
			return m.updateSubmitted(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "left", "h", "right", "l", " ", "enter":
		if len(m.fields) == 0 {
			break
		}
		f := m.fields[m.cursor]
		switch {
		case f.kind == kindText && (key == "enter" || key == " "):
			m.editing = true
			m.input.SetValue(f.current)
			m.input.CursorEnd()
			return m, m.input.Focus()
		case f.kind == kindToggle && (key == " " || key == "enter"):
			m.apply(f, "")
		case f.kind == kindChoice:
			delta := 1
			if key == "left" || key == "h" {
				delta = -1
			}
			m.apply(f, f.cycle(delta))
		}
	case "tab":
		m.navigate(m.ctrl.Next)
	case "shift+tab":
		m.navigate(m.ctrl.Previous)
	case "1", "2", "3", "4", "5", "6", "7":
		n, _ := strconv.Atoi(key)
		m.navigate(func() (models.StepID, error) { return m.ctrl.JumpTo(n) })
	case "ctrl+s":
		if id, err := m.ctrl.SaveDraft(); err != nil {
			m.setError(err)
		} else {
			m.status = "Draft saved as " + id + "."
		}
		m.refresh()
	case "ctrl+d":
		return m.submit()
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		m.apply(m.fields[m.cursor], m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSubmitted(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", "enter":
		if err := m.ctrl.StartNew(); err != nil {
			m.setError(err)
		}
		m.status = ""
		m.refresh()
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = ""
	ctrl, ctx := m.ctrl, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		q, err := ctrl.Submit(ctx)
		return submitDoneMsg{quote: q, err: err}
	})
}

func (m *Model) apply(f field, value string) {
	patch, err := f.patch(value)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	if _, err := m.ctrl.Update(patch.Step(), patch); err != nil {
		m.setError(err)
	}
	m.refresh()
}

func (m *Model) navigate(move func() (models.StepID, error)) {
	if _, err := move(); err != nil {
		m.setError(err)
	} else {
		m.fieldErrs = nil
		m.cursor = 0
	}
	m.refresh()
}

func (m *Model) setError(err error) {
	if ve, ok := steps.AsValidationError(err); ok {
		m.fieldErrs = ve.Fields
		m.errMsg = "Please complete the highlighted fields."
		return
	}
	var subErr *wizard.SubmissionError
	switch {
	case errors.As(err, &subErr):
		m.errMsg = "Submission failed: " + subErr.Err.Error()
	case errors.Is(err, wizard.ErrStepLocked):
		m.errMsg = "That step is not reachable yet."
	case errors.Is(err, wizard.ErrNotOnFinalStep):
		m.errMsg = "Quotes can be submitted from the contact step."
	default:
		m.errMsg = err.Error()
	}
}

// refresh rebuilds the view and the current form from the controller.
func (m *Model) refresh() {
	m.view = m.ctrl.View()
	m.fields = nil
	if m.view.Hydrated && m.view.Draft != nil {
		m.fields = formFor(m.view.CurrentStep, *m.view.Draft, m.listing, m.options)
	}
	if m.cursor >= len(m.fields) {
		m.cursor = max(len(m.fields)-1, 0)
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Project quote"))
	b.WriteString("  ")
	b.WriteString(priceStyle.Render(m.view.FormattedPrice))
	b.WriteString("\n\n")

	if !m.view.Hydrated {
		b.WriteString(m.spinner.View() + " Loading your draft...\n")
		return b.String()
	}
	if m.view.Phase == models.WizardSubmitted && m.view.LastSubmitted != nil {
		return b.String() + m.viewSubmitted()
	}

	cur := m.view.CurrentStep
	b.WriteString(m.progress.ViewAs(float64(cur) / float64(models.LastStep)))
	b.WriteString("\n")
	for _, s := range m.view.Steps {
		label := fmt.Sprintf("%d %s", s.ID, s.Title)
		switch {
		case s.Current:
			b.WriteString(accentStyle.Render(label))
		case s.Reachable:
			b.WriteString(label)
		default:
			b.WriteString(mutedStyle.Render(label))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n\n")

	if int(cur) <= len(m.view.Steps) {
		step := m.view.Steps[cur-1]
		b.WriteString(headingStyle.Render(step.Title) + "\n")
		b.WriteString(mutedStyle.Render(step.Description) + "\n\n")
	}

	for i, f := range m.fields {
		pointer := "  "
		if i == m.cursor {
			pointer = accentStyle.Render("> ")
		}
		value := f.display()
		if m.editing && i == m.cursor {
			value = m.input.View()
		}
		b.WriteString(fmt.Sprintf("%s%-28s %s", pointer, f.label, value))
		if msg, ok := m.fieldErrs[f.key]; ok {
			b.WriteString("  " + errorStyle.Render(msg))
		}
		b.WriteString("\n")
	}

	if adv, ok := m.view.Advisories[cur]; ok && len(m.fieldErrs) == 0 {
		for _, k := range adv.Keys() {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  note: %s %s", k, adv[k])) + "\n")
		}
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " Submitting your quote...\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	for _, w := range m.view.Warnings {
		b.WriteString(errorStyle.Render("! "+w) + "\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) viewSubmitted() string {
	q := m.view.LastSubmitted
	var b strings.Builder
	b.WriteString(headingStyle.Render("Thank you!") + "\n\n")
	b.WriteString(fmt.Sprintf("Quote %s was submitted.\n", q.ID))
	if q.SubmittedAt != nil {
		b.WriteString(mutedStyle.Render("Submitted "+q.SubmittedAt.Local().Format("Jan 2, 2006 15:04")) + "\n")
	}
	b.WriteString("We will get back to you shortly.\n\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("n new quote • q quit"))
	return b.String()
}

func (m Model) help() string {
	if m.editing {
		return "enter confirm • esc cancel"
	}
	parts := []string{"↑/↓ move", "←/→/space change", "tab next", "shift+tab back", "1-7 jump", "ctrl+s save"}
	if m.view.CurrentStep == models.LastStep {
		parts = append(parts, "ctrl+d submit")
	}
	return strings.Join(append(parts, "q quit"), " • ")
}
