package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"cookwise/internal/ghost"
	"cookwise/internal/history"
	"cookwise/internal/notify"
	"cookwise/internal/pantry"
	"cookwise/internal/planner"
	"cookwise/internal/preferences"
	"cookwise/internal/recipe"
	"cookwise/internal/shared"
	"cookwise/internal/shopping"
	"cookwise/internal/storage"
)

// MetricsRecorder stores the usage of AI calls.
type MetricsRecorder interface {
	RecordMeta(ctx context.Context, meta shared.AgentMeta) error
}

// Publisher posts a recipe to a blog.
type Publisher interface {
	CreatePost(ctx context.Context, title, html string, publish bool) (*ghost.Post, error)
}

// Deps are the optional collaborators of a Session. Nil AI flows make the
// matching operations fail with ErrFlowUnavailable.
type Deps struct {
	Recipes   *recipe.Generator
	Importer  *recipe.Importer
	Lists     *shopping.ListGenerator
	Analyst   *planner.Analyst
	Publisher Publisher
	Metrics   MetricsRecorder
	Quoter    *shopping.Quoter
	// SessionMedium holds state that must not survive the session.
	SessionMedium storage.Medium
	Now           func() time.Time
	Logger        *slog.Logger
}

// Session is the application state of one user. It is not safe for
// concurrent use; surfaces serialise the actions of a user.
type Session struct {
	Preferences *preferences.Store
	Recipes     *recipe.Collection
	Pantry      *pantry.Store
	Plan        *planner.Store
	Grocery     *shopping.Cache
	Deliveries  *history.DeliveryLog
	SavedLists  *history.SavedListLog

	deps     Deps
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewSession loads every store from adapter.
func NewSession(adapter *storage.Adapter, notifier notify.Notifier, deps Deps) *Session {
	if notifier == nil {
		notifier = notify.Discard
	}
	if deps.Quoter == nil {
		deps.Quoter = shopping.NewQuoter(nil)
	}
	if deps.SessionMedium == nil {
		deps.SessionMedium = storage.NewMemoryMedium()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessionAdapter := storage.NewAdapter(deps.SessionMedium, storage.DefaultPrefix)

	return &Session{
		Preferences: preferences.NewStore(adapter),
		Recipes:     recipe.NewCollection(adapter, notifier),
		Pantry:      pantry.NewStore(adapter),
		Plan:        planner.NewStore(adapter, notifier),
		Grocery:     shopping.NewCache(adapter, sessionAdapter),
		Deliveries:  history.NewDeliveryLog(adapter, notifier),
		SavedLists:  history.NewSavedListLog(adapter, notifier, deps.Quoter),
		deps:        deps,
		notifier:    notifier,
		logger:      logger.With("component", "session"),
	}
}

// IsOnboardingComplete reports whether preferences have been saved.
func (s *Session) IsOnboardingComplete() bool {
	return s.Preferences.IsOnboardingComplete()
}

// RequireOnboarding guards plan dependent actions. Surfaces send the user
// to onboarding when it fails.
func (s *Session) RequireOnboarding() error {
	if !s.IsOnboardingComplete() {
		return ErrNotOnboarded
	}
	return nil
}

// SavePreferences replaces the user profile.
func (s *Session) SavePreferences(p preferences.UserPreferences) error {
	return s.Preferences.Save(p)
}

// SaveRecipe adds r to the favourites. Duplicates are reported by notice.
func (s *Session) SaveRecipe(r recipe.Recipe) (bool, error) {
	return s.Recipes.Save(r)
}

// RemoveRecipe removes a favourite. Plan entries for it are left in place
// and surface as ErrDanglingEntry when the plan is used.
func (s *Session) RemoveRecipe(title string) error {
	return s.Recipes.Remove(title)
}

// FindRecipe looks a favourite up by its 1-based position or its title.
func (s *Session) FindRecipe(ref string) (recipe.Recipe, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		recipes := s.Recipes.List()
		if n < 1 || n > len(recipes) {
			return recipe.Recipe{}, fmt.Errorf("%w: no recipe number %d", ErrRecipeNotFound, n)
		}
		return recipes[n-1], nil
	}
	r, ok := s.Recipes.Get(ref)
	if !ok {
		return recipe.Recipe{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, ref)
	}
	return r, nil
}

// PlannedTitle resolves ref like FindRecipe, falling back to a planned
// title with no saved recipe so dangling entries can still be edited.
func (s *Session) PlannedTitle(ref string) (string, error) {
	r, err := s.FindRecipe(ref)
	if err == nil {
		return r.Title, nil
	}
	if ref = strings.TrimSpace(ref); s.Plan.Frequency(ref) > 0 {
		return ref, nil
	}
	return "", err
}

// GenerateRecipe runs the recipe flow with the saved profile and pantry.
func (s *Session) GenerateRecipe(ctx context.Context, prompt string, budget *float64, surprise bool) (recipe.Recipe, error) {
	prefs, ok := s.Preferences.Get()
	if !ok {
		return recipe.Recipe{}, ErrNotOnboarded
	}
	if s.deps.Recipes == nil {
		return recipe.Recipe{}, ErrFlowUnavailable
	}

	r, meta, err := s.deps.Recipes.Generate(ctx, recipe.Request{
		Preferences: prefs,
		UserPrompt:  prompt,
		Budget:      budget,
		Pantry:      s.Pantry.Items(),
		SurpriseMe:  surprise,
	})
	s.record(ctx, meta)
	if err != nil {
		return recipe.Recipe{}, s.flowError(MsgRecipeFailed, err)
	}
	return r, nil
}

// SummarizeRecipe summarises a saved recipe.
func (s *Session) SummarizeRecipe(ctx context.Context, title string) (string, error) {
	r, ok := s.Recipes.Get(title)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRecipeNotFound, title)
	}
	if s.deps.Recipes == nil {
		return "", ErrFlowUnavailable
	}

	summary, meta, err := s.deps.Recipes.Summarize(ctx, r)
	s.record(ctx, meta)
	if err != nil {
		return "", s.flowError(MsgSummaryFailed, err)
	}
	return summary, nil
}

// SuggestAlternatives proposes substitutes for missing using the pantry.
func (s *Session) SuggestAlternatives(ctx context.Context, title, missing string) (recipe.Alternatives, error) {
	if s.deps.Recipes == nil {
		return recipe.Alternatives{}, ErrFlowUnavailable
	}

	alt, meta, err := s.deps.Recipes.SuggestAlternatives(ctx, title, missing, s.Pantry.Items())
	s.record(ctx, meta)
	if err != nil {
		return recipe.Alternatives{}, s.flowError(MsgAlternativeFailed, err)
	}
	return alt, nil
}

// ImportRecipe clips a recipe from url and saves it to the favourites.
func (s *Session) ImportRecipe(ctx context.Context, url string) (recipe.Recipe, bool, error) {
	if s.deps.Importer == nil {
		return recipe.Recipe{}, false, ErrFlowUnavailable
	}

	r, meta, err := s.deps.Importer.Import(ctx, url)
	s.record(ctx, meta)
	if err != nil {
		return recipe.Recipe{}, false, s.flowError(MsgImportFailed, err)
	}

	added, err := s.Recipes.Save(r)
	if err != nil {
		return r, false, err
	}
	return r, added, nil
}

// PublishRecipe posts a saved recipe to the configured blog.
func (s *Session) PublishRecipe(ctx context.Context, title string, publish bool) (*ghost.Post, error) {
	if s.deps.Publisher == nil {
		return nil, ErrPublishingDisabled
	}
	r, ok := s.Recipes.Get(title)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, title)
	}

	post, err := s.deps.Publisher.CreatePost(ctx, r.Title, recipe.ToHTML(r), publish)
	if err != nil {
		return nil, fmt.Errorf("failed to publish recipe: %w", err)
	}
	return post, nil
}

// AddPantryItem adds a trimmed item unless it is empty or already present.
func (s *Session) AddPantryItem(item string) (bool, error) {
	item = strings.TrimSpace(item)
	if item == "" || s.Pantry.Contains(item) {
		return false, nil
	}
	if err := s.Pantry.Save(append(s.Pantry.Items(), item)); err != nil {
		return false, err
	}
	return true, nil
}

// RemovePantryItem drops every exact match of item.
func (s *Session) RemovePantryItem(item string) error {
	current := s.Pantry.Items()
	next := make([]string, 0, len(current))
	for _, it := range current {
		if it != item {
			next = append(next, it)
		}
	}
	return s.Pantry.Save(next)
}

// TogglePlanned adds a saved recipe to the plan or removes it.
func (s *Session) TogglePlanned(title string, on bool) error {
	if on && !s.Recipes.IsSaved(title) {
		return fmt.Errorf("%w: %s", planner.ErrNotSaved, title)
	}
	return s.Plan.Update(planner.Toggle(title, on))
}

// IncrementPlanned cooks title once more per week.
func (s *Session) IncrementPlanned(title string) error {
	return s.Plan.Update(planner.Increment(title))
}

// DecrementPlanned cooks title once less per week, keeping at least one.
func (s *Session) DecrementPlanned(title string) error {
	return s.Plan.Update(planner.Decrement(title))
}

// ClearMealPlan resets the plan together with the grocery list made from it.
func (s *Session) ClearMealPlan() error {
	if err := s.Plan.Clear(); err != nil {
		return err
	}
	return s.Grocery.Clear()
}

// PlannedRecipes resolves the plan against the favourites.
func (s *Session) PlannedRecipes() ([]shopping.PlannedRecipe, error) {
	entries, dangling := planner.Resolve(s.Plan.Get(), s.Recipes.List())
	if len(dangling) > 0 {
		return nil, planner.DanglingError(dangling)
	}

	out := make([]shopping.PlannedRecipe, len(entries))
	for i, e := range entries {
		out[i] = shopping.PlannedRecipe{
			Title:       e.Recipe.Title,
			Ingredients: e.Recipe.Ingredients,
			Frequency:   e.Frequency,
		}
	}
	return out, nil
}

// AnalyzePlan reviews the plan against the dietary targets.
func (s *Session) AnalyzePlan(ctx context.Context) (string, error) {
	prefs, ok := s.Preferences.Get()
	if !ok {
		return "", ErrNotOnboarded
	}
	if s.Plan.Len() == 0 {
		return "", ErrNoSelection
	}
	if s.deps.Analyst == nil {
		return "", ErrFlowUnavailable
	}

	entries, dangling := planner.Resolve(s.Plan.Get(), s.Recipes.List())
	if len(dangling) > 0 {
		return "", planner.DanglingError(dangling)
	}

	analysis, meta, err := s.deps.Analyst.Analyze(ctx, planner.AnalysisInput(entries), prefs.DietaryTargets)
	s.record(ctx, meta)
	if err != nil {
		return "", s.flowError(MsgAnalysisFailed, err)
	}
	return analysis, nil
}

// DailyNutrition is the average daily intake of the current plan.
func (s *Session) DailyNutrition() recipe.NutritionalInfo {
	return planner.DailyAverages(s.Plan.Get(), s.Recipes.List())
}

// DeliveryPlans returns the scheduled deliveries, most recent first.
func (s *Session) DeliveryPlans() []history.DeliveryPlan {
	return s.Deliveries.List()
}

// RemoveDeliveryPlan deletes one delivery.
func (s *Session) RemoveDeliveryPlan(id string) error {
	return s.Deliveries.RemoveOne(id, false)
}

// ClearDeliveryPlans deletes the delivery history.
func (s *Session) ClearDeliveryPlans() error {
	return s.Deliveries.ClearAll()
}

// SavedListViews returns the saved lists with their current quotes.
func (s *Session) SavedListViews() []history.SavedList {
	return s.SavedLists.Views(s.deps.Now())
}

// RemoveSavedList deletes one saved list.
func (s *Session) RemoveSavedList(id string) error {
	return s.SavedLists.RemoveOne(id, false)
}

// ScheduleSavedList orders a saved list from supermarket at its current
// quote. The saved list is removed without a notice.
func (s *Session) ScheduleSavedList(id, supermarket string) (history.DeliveryPlan, error) {
	now := s.deps.Now()
	view, ok := s.SavedLists.View(id, now)
	if !ok {
		return history.DeliveryPlan{}, fmt.Errorf("%w: %s", history.ErrNotFound, id)
	}
	quote, ok := shopping.FindQuote(view.SupermarketQuotes, supermarket)
	if !ok {
		return history.DeliveryPlan{}, fmt.Errorf("%w: %q", ErrNoSupermarket, supermarket)
	}

	plan := history.NewDeliveryPlan(now, quote, view.Recipes, view.GroceryList)
	if err := s.Deliveries.Append(plan); err != nil {
		return history.DeliveryPlan{}, err
	}
	if err := s.SavedLists.RemoveOne(id, true); err != nil {
		return plan, err
	}
	return plan, nil
}

func (s *Session) flowError(msg string, err error) error {
	s.logger.Warn("ai flow failed", "error", err)
	return &FlowError{Message: msg, Err: err}
}

func (s *Session) record(ctx context.Context, meta shared.AgentMeta) {
	if s.deps.Metrics == nil || !meta.HasUsage() {
		return
	}
	if err := s.deps.Metrics.RecordMeta(ctx, meta); err != nil {
		s.logger.Warn("failed to record metrics", "agent", meta.AgentName, "error", err)
	}
}
