package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"selfemploy/internal/logging"
	"selfemploy/internal/onboarding"
	"selfemploy/internal/taxyear"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// CompletedMsg is emitted once onboarding finishes or is skipped.
type CompletedMsg struct {
	Summary onboarding.Summary
}

// Options configures a WizardModel. Zero values pick sensible defaults.
type Options struct {
	Styles   Styles
	TaxYears []taxyear.TaxYear
	WordWrap int
	Now      func() time.Time
}

// Focus targets on the identity step.
const (
	focusName = iota
	focusUTR1
	focusUTR2
	focusUTR3
	focusCount
)

// WizardModel renders an onboarding.Wizard and maps keys onto its operations.
// All navigation rules live in the wizard; the model only reflects them.
type WizardModel struct {
	wizard   *onboarding.Wizard
	styles   Styles
	keys     KeyMap
	help     help.Model
	renderer *glamour.TermRenderer

	nameInput textinput.Model
	utrInputs [onboarding.UTRSegments]textinput.Model
	focus     int

	taxYears []taxyear.TaxYear
	now      func() time.Time

	width    int
	errMsg   string
	summary  *onboarding.Summary
	quitting bool
}

// NewWizardModel wraps w for display.
func NewWizardModel(w *onboarding.Wizard, opts Options) WizardModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Styles.Theme == (Theme{}) {
		opts.Styles = DefaultStyles()
	}
	if len(opts.TaxYears) == 0 {
		opts.TaxYears = taxyear.Options(opts.Now(), 4)
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = 72
	}

	m := WizardModel{
		wizard:   w,
		styles:   opts.Styles,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		taxYears: withSelected(opts.TaxYears, w.State().SelectedTaxYear()),
		now:      opts.Now,
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.Styles.Theme.GlamourStyle()),
		glamour.WithWordWrap(opts.WordWrap),
	)
	if err == nil {
		m.renderer = renderer
	}

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Your name"
	m.nameInput.CharLimit = 64
	m.nameInput.Width = 32
	for i := range m.utrInputs {
		width := onboarding.UTRSegmentWidths[i]
		ti := textinput.New()
		ti.Placeholder = strings.Repeat("0", width)
		ti.CharLimit = width
		ti.Width = width + 1
		ti.Prompt = ""
		m.utrInputs[i] = ti
	}
	m.loadInputs()

	if s, ok := w.Summary(); ok {
		m.summary = &s
	}
	return m
}

// withSelected makes sure a restored selection is offered even when it has
// dropped out of the option window. years is newest first and stays that way.
func withSelected(years []taxyear.TaxYear, selected taxyear.TaxYear) []taxyear.TaxYear {
	if selected.IsZero() {
		return years
	}
	for _, y := range years {
		if y == selected {
			return years
		}
	}
	out := make([]taxyear.TaxYear, 0, len(years)+1)
	i := 0
	for ; i < len(years) && years[i].StartYear > selected.StartYear; i++ {
		out = append(out, years[i])
	}
	out = append(out, selected)
	return append(out, years[i:]...)
}

// Wizard returns the underlying wizard.
func (m WizardModel) Wizard() *onboarding.Wizard { return m.wizard }

// Summary returns the completion summary once onboarding has finished.
func (m WizardModel) Summary() (onboarding.Summary, bool) {
	if m.summary == nil {
		return onboarding.Summary{}, false
	}
	return *m.summary, true
}

// Quitting reports whether the user asked to leave before completing.
func (m WizardModel) Quitting() bool { return m.quitting }

// Init implements tea.Model.
func (m WizardModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case CompletedMsg:
		s := msg.Summary
		m.summary = &s
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m WizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	logging.UIDebug("key %s on step %s", msg.String(), m.wizard.Step())
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = m.summary == nil
		return m, tea.Quit
	}
	if m.summary != nil {
		if key.Matches(msg, m.keys.Continue) || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	m.errMsg = ""
	switch {
	case key.Matches(msg, m.keys.Reset):
		m.wizard.Reset()
		m.focus = focusName
		m.loadInputs()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if err := m.wizard.Back(); err != nil {
			m.errMsg = m.describe(err)
		}
		m.syncFocus()
		return m, nil

	case key.Matches(msg, m.keys.Skip):
		s, err := m.wizard.Skip()
		if err != nil {
			m.errMsg = m.describe(err)
			return m, nil
		}
		return m.completed(s)

	case key.Matches(msg, m.keys.Continue):
		if m.wizard.Step() == onboarding.FinalStep {
			s, err := m.wizard.Finish()
			if err != nil {
				m.errMsg = m.describe(err)
				return m, nil
			}
			return m.completed(s)
		}
		if err := m.wizard.Advance(); err != nil {
			m.errMsg = m.describe(err)
		}
		m.syncFocus()
		return m, nil
	}

	switch m.wizard.Step() {
	case onboarding.StepIdentity:
		return m.updateIdentity(msg)
	case onboarding.StepTaxYear:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveTaxYear(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveTaxYear(1)
		}
	case onboarding.StepBusinessType:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveBusinessType(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveBusinessType(1)
		}
	}
	return m, nil
}

func (m WizardModel) updateIdentity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.NextField) {
		m.focus = (m.focus + 1) % focusCount
		m.syncFocus()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusName {
		m.nameInput, cmd = m.nameInput.Update(msg)
		_ = m.wizard.SetUserName(m.nameInput.Value())
		return m, cmd
	}

	seg := m.focus // UTR boxes are numbered from 1, like the focus targets
	in := &m.utrInputs[seg-1]
	prev := in.Value()
	*in, cmd = in.Update(msg)
	value := in.Value()
	if err := m.wizard.SetUTRSegment(seg, value); err != nil {
		in.SetValue(prev)
		m.errMsg = "UTR boxes only take digits."
		return m, cmd
	}
	if value != prev && len(value) == onboarding.UTRSegmentWidths[seg-1] && seg < onboarding.UTRSegments {
		m.focus++
		m.syncFocus()
	}
	return m, cmd
}

func (m *WizardModel) moveTaxYear(delta int) {
	if len(m.taxYears) == 0 {
		return
	}
	cur := m.wizard.State().SelectedTaxYear()
	idx := 0
	for i, y := range m.taxYears {
		if y == cur {
			idx = i
			break
		}
	}
	idx = clamp(idx+delta, 0, len(m.taxYears)-1)
	_ = m.wizard.SetTaxYear(m.taxYears[idx])
}

func (m *WizardModel) moveBusinessType(delta int) {
	types := onboarding.BusinessTypes()
	cur := m.wizard.State().SelectedBusinessType()
	idx := 0
	for i, b := range types {
		if b == cur {
			idx = i
			break
		}
	}
	idx = clamp(idx+delta, 0, len(types)-1)
	_ = m.wizard.SetBusinessType(types[idx])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m WizardModel) completed(s onboarding.Summary) (tea.Model, tea.Cmd) {
	m.summary = &s
	m.syncFocus()
	return m, func() tea.Msg { return CompletedMsg{Summary: s} }
}

// loadInputs copies wizard state into the text inputs.
func (m *WizardModel) loadInputs() {
	st := m.wizard.State()
	m.nameInput.SetValue(st.UserName())
	for i := range m.utrInputs {
		m.utrInputs[i].SetValue(st.UTRSegment(i + 1))
	}
	m.syncFocus()
}

// syncFocus focuses the active input on the identity step and blurs the rest.
func (m *WizardModel) syncFocus() {
	m.nameInput.Blur()
	for i := range m.utrInputs {
		m.utrInputs[i].Blur()
	}
	if m.summary != nil || m.wizard.Step() != onboarding.StepIdentity {
		return
	}
	if m.focus == focusName {
		m.nameInput.Focus()
		return
	}
	m.utrInputs[m.focus-1].Focus()
}

func (m WizardModel) describe(err error) string {
	switch {
	case errors.Is(err, onboarding.ErrStepInvalid):
		return m.hint()
	case errors.Is(err, onboarding.ErrAtFirstStep):
		return "You're already at the start."
	case errors.Is(err, onboarding.ErrSkipUnavailable):
		return "Skip becomes available after the welcome screen."
	default:
		return err.Error()
	}
}

// hint explains what is blocking the current step.
func (m WizardModel) hint() string {
	identity := m.wizard.ValidationFor(onboarding.StepIdentity)
	switch {
	case !identity.Valid(onboarding.FieldUserName):
		return fmt.Sprintf("Enter your name (at least %d characters).", onboarding.MinNameLength)
	case !identity.Valid(onboarding.FieldUTR):
		return "Fill in all ten UTR digits, or leave the UTR empty."
	case m.wizard.Step() == onboarding.StepTaxYear:
		return "Choose a tax year."
	case m.wizard.Step() == onboarding.StepBusinessType:
		return "Choose a business type."
	default:
		return "This step is not complete yet."
	}
}

// helpKeys returns the key map with bindings that do nothing on the current
// step switched off, so help only lists what works.
func (m WizardModel) helpKeys() KeyMap {
	k := m.keys
	step := m.wizard.Step()
	k.Back.SetEnabled(m.wizard.CanBack())
	k.Skip.SetEnabled(m.wizard.CanSkip())
	k.NextField.SetEnabled(step == onboarding.StepIdentity)
	selecting := step == onboarding.StepTaxYear || step == onboarding.StepBusinessType
	k.Up.SetEnabled(selecting)
	k.Down.SetEnabled(selecting)
	if step == onboarding.FinalStep {
		k.Continue.SetHelp("enter", "finish")
	}
	return k
}

func (m WizardModel) render(markdown string) string {
	if m.renderer == nil {
		return markdown
	}
	out, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}

// View implements tea.Model.
func (m WizardModel) View() string {
	if m.summary != nil {
		return m.viewSummary()
	}

	step := m.wizard.Step()
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("Step %d of %d · %s", step, onboarding.FinalStep, step.Title())))
	b.WriteString("\n")

	var body string
	switch step {
	case onboarding.StepWelcome:
		body = m.viewWelcome()
	case onboarding.StepIdentity:
		body = m.viewIdentity()
	case onboarding.StepTaxYear:
		body = m.viewTaxYear()
	case onboarding.StepBusinessType:
		body = m.viewBusinessType()
	}
	b.WriteString(m.styles.Content.Render(body))
	b.WriteString("\n")
	b.WriteString(m.viewButtons())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(m.styles.Footer.Render(m.styles.Error.Render(m.errMsg)))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Footer.Render(m.help.View(m.helpKeys())))
	return b.String()
}

func (m WizardModel) viewWelcome() string {
	var md strings.Builder
	md.WriteString("# Welcome to selfemploy\n\n")
	md.WriteString("Let's set up your self-employment profile. It only takes a minute:\n\n")
	for i, s := range onboarding.Steps()[1:] {
		fmt.Fprintf(&md, "%d. **%s**\n", i+1, s.Title())
	}
	md.WriteString("\nPress **enter** to begin.\n")
	return m.render(md.String())
}

func (m WizardModel) viewIdentity() string {
	v := m.wizard.Validation()
	var b strings.Builder

	b.WriteString(m.styles.Label.Render("Name"))
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("  ")
	b.WriteString(m.mark(v.Valid(onboarding.FieldUserName)))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Unique Taxpayer Reference"))
	b.WriteString(m.styles.Muted.Render(" (optional)"))
	b.WriteString("\n")
	boxes := make([]string, len(m.utrInputs))
	for i := range m.utrInputs {
		boxes[i] = "[" + m.utrInputs[i].View() + "]"
	}
	b.WriteString(strings.Join(boxes, " "))
	b.WriteString("  ")
	b.WriteString(m.mark(v.Valid(onboarding.FieldUTR)))
	return b.String()
}

func (m WizardModel) mark(ok bool) string {
	if ok {
		return m.styles.Success.Render("✓")
	}
	return m.styles.Error.Render("✗")
}

func (m WizardModel) viewTaxYear() string {
	now := m.now()
	selected := m.wizard.State().SelectedTaxYear()
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Which tax year are you starting with?"))
	b.WriteString("\n")
	for _, y := range m.taxYears {
		b.WriteString(m.option(y.Label(now), y == selected))
		b.WriteString("\n")
	}
	if !selected.IsZero() {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Online return due by %s.", selected.FilingDeadline().Format("2 January 2006"))))
	}
	return b.String()
}

func (m WizardModel) viewBusinessType() string {
	selected := m.wizard.State().SelectedBusinessType()
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("How do you work?"))
	b.WriteString("\n")
	for _, t := range onboarding.BusinessTypes() {
		b.WriteString(m.option(t.Label(), t == selected))
		b.WriteString("\n")
	}
	return b.String()
}

func (m WizardModel) option(label string, selected bool) string {
	if selected {
		return m.styles.Selected.Render("› " + label)
	}
	return m.styles.Unselected.Render("  " + label)
}

func (m WizardModel) viewButtons() string {
	buttons := []string{m.styles.RenderButton("Back", m.wizard.CanBack())}
	if m.wizard.Step() == onboarding.FinalStep {
		buttons = append(buttons, m.styles.RenderButton("Finish", m.wizard.CanComplete()))
	} else {
		buttons = append(buttons, m.styles.RenderButton("Continue", m.wizard.CanAdvance()))
	}
	if m.wizard.CanSkip() {
		buttons = append(buttons, m.styles.RenderButton("Skip", true))
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
}

// SummaryMarkdown renders a completion summary as markdown.
func SummaryMarkdown(s onboarding.Summary) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", s.PersonalizedWelcome)
	md.WriteString("| | |\n|---|---|\n")
	name := s.UserName
	if name == "" {
		name = "_not provided_"
	}
	fmt.Fprintf(&md, "| Name | %s |\n", name)
	utr := "_not provided_"
	if u, err := onboarding.ParseUTR(s.UTR); err == nil && u.IsComplete() {
		utr = u.Masked()
	}
	fmt.Fprintf(&md, "| UTR | %s |\n", utr)
	fmt.Fprintf(&md, "| Tax year | %s |\n", s.TaxYear)
	fmt.Fprintf(&md, "| Business type | %s |\n", s.BusinessType.Label())
	if s.Skipped {
		md.WriteString("\n_Onboarding was skipped. Run `selfemploy onboard --restart` to fill in the rest._\n")
	}
	return md.String()
}

func (m WizardModel) viewSummary() string {
	var b strings.Builder
	b.WriteString(m.render(SummaryMarkdown(*m.summary)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("Press enter to exit."))
	return b.String()
}
