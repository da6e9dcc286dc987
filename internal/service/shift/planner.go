package shift

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/worklane/worklane-backend-go/internal/domain/holiday"
	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
)

var (
	ErrDateNotSelected = errors.New("date is not in the current selection")
	ErrNoEditorOpen    = errors.New("no inline editor is open for this date")
)

// ToggleOutcome describes what a calendar tap did.
type ToggleOutcome int

const (
	// ToggleSelected added the date to the selection.
	ToggleSelected ToggleOutcome = iota
	// ToggleDeselected removed the date from the selection.
	ToggleDeselected
	// ToggleExisting opened the detail view of a persisted registration;
	// the selection is unchanged.
	ToggleExisting
)

// editor is the mutual-exclusion inline editor state: at most one date's
// editor is open at a time. confirmed records whether the open date's
// draft has been confirmed into the selection; switching away from an
// unconfirmed date removes it entirely.
type editor struct {
	open      bool
	dateKey   string
	draft     shift.Draft
	confirmed bool
}

// Planner is the employee-side multi-date registration session. It holds
// draft state only; nothing is persisted until Submit.
type Planner struct {
	userID   string
	existing map[string]shift.Registration
	holidays []holiday.Holiday
	selected map[string]shift.Draft
	editor   editor
}

// NewPlanner starts a session over the user's already-persisted
// registrations and the holiday calendar.
func NewPlanner(userID string, existing []shift.Registration, holidays []holiday.Holiday) *Planner {
	byDate := make(map[string]shift.Registration, len(existing))
	for _, reg := range existing {
		byDate[reg.DateKey()] = reg
	}
	return &Planner{
		userID:   userID,
		existing: byDate,
		holidays: holidays,
		selected: make(map[string]shift.Draft),
	}
}

// ToggleDate is the calendar tap. A date with a persisted registration is
// never re-selected: its registration is returned for the detail panel.
// A holiday pre-fills a complete OFF/LE draft; any other new date starts
// as a CUSTOM draft with no time, forcing an explicit choice.
func (p *Planner) ToggleDate(date time.Time) (ToggleOutcome, *shift.Registration) {
	key := dateutil.DateKey(date)

	if reg, ok := p.existing[key]; ok {
		return ToggleExisting, &reg
	}

	if _, ok := p.selected[key]; ok {
		delete(p.selected, key)
		if p.editor.open && p.editor.dateKey == key {
			p.editor = editor{}
		}
		return ToggleDeselected, nil
	}

	p.discardUnconfirmed()

	if _, ok := holiday.Lookup(p.holidays, date); ok {
		draft := shift.Draft{Shift: shift.TypeOff, OffType: shift.OffTypeHoliday}
		p.selected[key] = draft
		p.editor = editor{open: true, dateKey: key, draft: draft, confirmed: true}
		return ToggleSelected, nil
	}

	draft := shift.Draft{Shift: shift.TypeCustom}
	p.selected[key] = draft
	p.editor = editor{open: true, dateKey: key, draft: draft, confirmed: false}
	return ToggleSelected, nil
}

// OpenEditor re-opens the inline editor for an already-selected date,
// discarding the previously open date if it was never confirmed.
func (p *Planner) OpenEditor(date time.Time) error {
	key := dateutil.DateKey(date)
	if p.editor.open && p.editor.dateKey == key {
		return nil
	}

	draft, ok := p.selected[key]
	if !ok {
		return ErrDateNotSelected
	}

	p.discardUnconfirmed()
	p.editor = editor{open: true, dateKey: key, draft: draft, confirmed: true}
	return nil
}

// CloseEditor closes the inline editor, removing the open date from the
// selection when its draft was never confirmed.
func (p *Planner) CloseEditor() {
	p.discardUnconfirmed()
}

func (p *Planner) discardUnconfirmed() {
	if p.editor.open && !p.editor.confirmed {
		delete(p.selected, p.editor.dateKey)
	}
	p.editor = editor{}
}

// ConfirmDraft commits the open editor's working draft into the selection
// and closes the editor. Completeness is checked at submission, not here.
func (p *Planner) ConfirmDraft() error {
	if !p.editor.open {
		return ErrNoEditorOpen
	}
	p.selected[p.editor.dateKey] = p.editor.draft
	p.editor = editor{}
	return nil
}

// SetDateAsOff switches the open draft between CUSTOM and OFF, clearing
// the fields that do not belong to the new variant.
func (p *Planner) SetDateAsOff(date time.Time, isOff bool) error {
	draft, err := p.workingDraft(date)
	if err != nil {
		return err
	}
	if isOff {
		draft.Shift = shift.TypeOff
		draft.StartTime = ""
		draft.EndTime = ""
	} else {
		draft.Shift = shift.TypeCustom
		draft.OffType = ""
	}
	return nil
}

func (p *Planner) SetStartTime(date time.Time, startTime string) error {
	draft, err := p.workingDraft(date)
	if err != nil {
		return err
	}
	draft.StartTime = startTime
	return nil
}

func (p *Planner) SetEndTime(date time.Time, endTime string) error {
	draft, err := p.workingDraft(date)
	if err != nil {
		return err
	}
	draft.EndTime = endTime
	return nil
}

func (p *Planner) SetOffType(date time.Time, offType shift.OffType) error {
	draft, err := p.workingDraft(date)
	if err != nil {
		return err
	}
	draft.OffType = offType
	return nil
}

func (p *Planner) workingDraft(date time.Time) (*shift.Draft, error) {
	key := dateutil.DateKey(date)
	if !p.editor.open || p.editor.dateKey != key {
		return nil, ErrNoEditorOpen
	}
	return &p.editor.draft, nil
}

// Draft returns the effective draft for a selected date: the editor's
// working copy when that date is open, the confirmed draft otherwise.
func (p *Planner) Draft(date time.Time) (shift.Draft, bool) {
	key := dateutil.DateKey(date)
	if p.editor.open && p.editor.dateKey == key {
		return p.editor.draft, true
	}
	draft, ok := p.selected[key]
	return draft, ok
}

// SelectedDates returns the selected date keys in calendar order.
func (p *Planner) SelectedDates() []string {
	keys := make([]string, 0, len(p.selected))
	for key := range p.selected {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ExpandedDate returns the date key whose inline editor is open, if any.
func (p *Planner) ExpandedDate() (string, bool) {
	return p.editor.dateKey, p.editor.open
}

// AllDatesHaveShifts is the submission gate: every selected date's draft
// must be complete (OFF with an off type, or CUSTOM with a start time).
func (p *Planner) AllDatesHaveShifts() bool {
	if len(p.selected) == 0 {
		return false
	}
	for key, draft := range p.selected {
		if p.editor.open && p.editor.dateKey == key {
			draft = p.editor.draft
		}
		if !draft.Complete() {
			return false
		}
	}
	return true
}

// Submit persists the selection through the service, one date at a time.
// Dates that persisted are removed from the selection; failed dates stay
// behind for retry, so the selection is only fully cleared when every
// submission succeeded.
func (p *Planner) Submit(ctx context.Context, svc shift.Service, principal shift.Principal) (shift.SubmitResult, error) {
	if p.editor.open && p.editor.confirmed {
		p.selected[p.editor.dateKey] = p.editor.draft
	}
	p.discardUnconfirmed()

	req := shift.SubmitRequest{UserID: p.userID}
	for _, key := range p.SelectedDates() {
		req.Entries = append(req.Entries, shift.RegisterEntry{Date: key, Draft: p.selected[key]})
	}

	result, err := svc.Submit(ctx, principal, req)
	if err != nil {
		return shift.SubmitResult{}, err
	}

	for _, reg := range result.Created {
		key := reg.DateKey()
		delete(p.selected, key)
		p.existing[key] = reg
	}

	return result, nil
}

// DraftFromRegistration seeds an editable draft from a persisted
// registration for the change-schedule (đổi lịch) flow.
func DraftFromRegistration(reg shift.Registration) shift.Draft {
	return shift.Draft{
		Shift:     reg.Shift,
		StartTime: reg.StartTime,
		EndTime:   reg.EndTime,
		OffType:   reg.OffType,
	}
}
