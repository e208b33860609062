package app

import (
	"context"
	"fmt"

	"cookwise/internal/history"
	"cookwise/internal/shopping"
)

// Stage is the position of a GroceryFlow.
type Stage string

const (
	StageSelection  Stage = "selection"
	StageGenerating Stage = "generating"
	StageComparison Stage = "comparison"
)

// GroceryFlow walks the plan from recipe selection to a scheduled delivery
// or a saved list.
type GroceryFlow struct {
	session  *Session
	stage    Stage
	quotes   []shopping.Quote
	selected string
	err      error
}

// NewGroceryFlow starts in selection, or resumes in comparison when a list
// generated from a non-empty plan is cached.
func NewGroceryFlow(s *Session) *GroceryFlow {
	f := &GroceryFlow{session: s, stage: StageSelection}
	if list, ok := s.Grocery.Get(); ok && s.Plan.Len() > 0 {
		f.quotes = s.deps.Quoter.Quotes(list.BaseTotal())
		f.stage = StageComparison
	}
	return f
}

func (f *GroceryFlow) Stage() Stage { return f.stage }

// Err is the failure of the last CreatePlan, if any.
func (f *GroceryFlow) Err() error { return f.err }

func (f *GroceryFlow) Quotes() []shopping.Quote {
	return append([]shopping.Quote(nil), f.quotes...)
}

func (f *GroceryFlow) Selected() string { return f.selected }

func (f *GroceryFlow) List() (shopping.GroceryList, bool) { return f.session.Grocery.Get() }

func (f *GroceryFlow) IsStale() bool { return f.session.Grocery.IsStale() }

// CreatePlan generates the grocery list for the current plan. On failure
// the flow returns to selection with the plan untouched.
func (f *GroceryFlow) CreatePlan(ctx context.Context) error {
	if f.stage == StageGenerating {
		return ErrWrongStage
	}
	if err := f.session.RequireOnboarding(); err != nil {
		return err
	}
	if f.session.Plan.Len() == 0 {
		return ErrNoSelection
	}
	if f.session.deps.Lists == nil {
		return ErrFlowUnavailable
	}
	recipes, err := f.session.PlannedRecipes()
	if err != nil {
		return err
	}

	f.err = nil
	f.selected = ""
	f.quotes = nil
	if err := f.session.Grocery.Clear(); err != nil {
		return err
	}
	f.stage = StageGenerating

	list, meta, err := f.session.deps.Lists.Generate(ctx, recipes, f.session.Pantry.Items())
	f.session.record(ctx, meta)
	if err != nil {
		f.stage = StageSelection
		f.err = f.session.flowError(MsgGroceryListFailed, err)
		return f.err
	}

	if err := f.session.Grocery.Store(list); err != nil {
		f.stage = StageSelection
		f.err = err
		return err
	}
	f.quotes = f.session.deps.Quoter.Quotes(list.BaseTotal())
	f.stage = StageComparison
	return nil
}

// EditItem renames an item of the list. The list is then stale.
func (f *GroceryFlow) EditItem(category, item int, name string) error {
	if f.stage != StageComparison {
		return ErrWrongStage
	}
	return f.session.Grocery.EditItem(category, item, name)
}

// SelectSupermarket picks the quote to order from.
func (f *GroceryFlow) SelectSupermarket(name string) error {
	if f.stage != StageComparison {
		return ErrWrongStage
	}
	if _, ok := shopping.FindQuote(f.quotes, name); !ok {
		return fmt.Errorf("%w: %q", ErrNoSupermarket, name)
	}
	f.selected = name
	return nil
}

// ScheduleDelivery orders the list from the selected supermarket and
// consumes the plan.
func (f *GroceryFlow) ScheduleDelivery() (history.DeliveryPlan, error) {
	if f.stage != StageComparison {
		return history.DeliveryPlan{}, ErrWrongStage
	}
	quote, ok := shopping.FindQuote(f.quotes, f.selected)
	if !ok {
		return history.DeliveryPlan{}, ErrNoSupermarket
	}
	list, recipes, err := f.current()
	if err != nil {
		return history.DeliveryPlan{}, err
	}

	plan := history.NewDeliveryPlan(f.session.deps.Now(), quote, recipes, list)
	if err := f.session.Deliveries.Append(plan); err != nil {
		return history.DeliveryPlan{}, err
	}
	return plan, f.consume()
}

// SaveList keeps the list with its quotes for later and consumes the plan.
func (f *GroceryFlow) SaveList() (history.SavedList, error) {
	if f.stage != StageComparison {
		return history.SavedList{}, ErrWrongStage
	}
	list, recipes, err := f.current()
	if err != nil {
		return history.SavedList{}, err
	}

	saved := history.NewSavedList(f.session.deps.Now(), recipes, list, f.Quotes())
	if err := f.session.SavedLists.Append(saved); err != nil {
		return history.SavedList{}, err
	}
	return saved, f.consume()
}

// BackToEdit returns to selection keeping the cached list.
func (f *GroceryFlow) BackToEdit() {
	f.stage = StageSelection
	f.selected = ""
	f.err = nil
}

func (f *GroceryFlow) current() (shopping.GroceryList, []shopping.PlannedRecipe, error) {
	list, ok := f.session.Grocery.Get()
	if !ok {
		return shopping.GroceryList{}, nil, ErrNoGroceryList
	}
	recipes, err := f.session.PlannedRecipes()
	if err != nil {
		return shopping.GroceryList{}, nil, err
	}
	return list, recipes, nil
}

func (f *GroceryFlow) consume() error {
	if err := f.session.Plan.ClearSilently(); err != nil {
		return err
	}
	if err := f.session.Grocery.Clear(); err != nil {
		return err
	}
	f.stage = StageSelection
	f.selected = ""
	f.quotes = nil
	return nil
}
