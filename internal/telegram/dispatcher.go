package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"cookwise/internal/app"
	"cookwise/internal/history"
	"cookwise/internal/notify"
	"cookwise/internal/planner"
	"cookwise/internal/recipe"
	"cookwise/internal/shopping"
)

const helpText = `🧑‍🍳 *Cookwise*

*Profile*
/onboard - set up your preferences
/prefs - show your preferences

*Recipes*
/recipe <idea> - generate a recipe
/surprise - surprise me
/save - save the last generated recipe
/favorites - list saved recipes
/show <n> - show a saved recipe
/remove <n> - remove a saved recipe
/summary <n> - summarize a saved recipe
/alt <n> | <missing ingredient> - suggest substitutes
/publish <n> - publish a saved recipe to the blog
Send a link to import a recipe from the web.

*Pantry*
/pantry, /pantry\_add <a, b>, /pantry\_remove <item>

*Meal plan*
/plan, /plan\_add <n>, /plan\_remove <n>, /plan\_inc <n>, /plan\_dec <n>, /plan\_clear
/analyze - nutrition review, /nutrition - daily averages

*Groceries*
/grocery - create the grocery list, /list - show it
/edit <category> <item> <new name>
/order <A|B|C> - schedule a delivery, /savelist - keep the list for later, /back
/lists, /lists\_order <n> <A|B|C>, /lists\_remove <n>
/deliveries, /delivery\_remove <n>, /deliveries\_clear`

const notOnboardedText = "👋 Please complete your profile first.\n\n" + onboardingHelp

// Action is an inline button that sends Command when pressed.
type Action struct {
	Label   string
	Command string
}

// Reply is one message to send back to the chat.
type Reply struct {
	Text    string
	Actions []Action
}

// SessionOpener loads the session of a Telegram user.
type SessionOpener func(userID int64, notifier notify.Notifier) (*app.Session, error)

type userState struct {
	mu      sync.Mutex
	session *app.Session
	flow    *app.GroceryFlow
	notices *notify.Recorder
	last    *recipe.Recipe
}

// Dispatcher routes chat commands to the session of each user. Commands of
// one user run one at a time.
type Dispatcher struct {
	open   SessionOpener
	logger *slog.Logger

	mu    sync.Mutex
	users map[int64]*userState
}

// NewDispatcher creates a Dispatcher that opens sessions lazily.
func NewDispatcher(open SessionOpener) *Dispatcher {
	return &Dispatcher{
		open:   open,
		logger: slog.Default().With("component", "telegram"),
		users:  make(map[int64]*userState),
	}
}

// user returns the state of id, loading its session on first use. Loading
// happens outside d.mu so a slow load only delays that user.
func (d *Dispatcher) user(id int64) (*userState, error) {
	d.mu.Lock()
	u, ok := d.users[id]
	d.mu.Unlock()
	if ok {
		return u, nil
	}

	notices := &notify.Recorder{}
	s, err := d.open(id, notices)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	u = &userState{session: s, flow: app.NewGroceryFlow(s), notices: notices}
	d.users[id] = u
	return u, nil
}

// Handle runs one chat message and returns the replies, notices last.
func (d *Dispatcher) Handle(ctx context.Context, userID int64, text string) []Reply {
	u, err := d.user(userID)
	if err != nil {
		d.logger.Error("failed to open session", "user_id", userID, "error", err)
		return []Reply{{Text: "❌ Something went wrong loading your data. Please try again later."}}
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	cmd, args := parseCommand(text)
	reply, err := d.route(ctx, u, cmd, args)
	if err != nil {
		reply = Reply{Text: errorText(err)}
		d.logger.Info("command failed", "user_id", userID, "command", cmd, "error", err)
	}

	var replies []Reply
	if reply.Text != "" {
		replies = append(replies, reply)
	}
	for _, n := range u.notices.Notices() {
		replies = append(replies, Reply{Text: formatNotice(n)})
	}
	u.notices.Reset()
	return replies
}

// parseCommand splits "/cmd@bot args" into its lowercase command and the
// trimmed rest. Links become the import command and other text a recipe idea.
func parseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
			return "/import", text
		}
		return "/recipe", text
	}

	cmd, args, _ := strings.Cut(text, " ")
	if nl := strings.IndexByte(cmd, '\n'); nl >= 0 {
		cmd, args = cmd[:nl], text[nl+1:]
	}
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

func errorText(err error) string {
	switch {
	case errors.Is(err, app.ErrNotOnboarded):
		return notOnboardedText
	case errors.Is(err, planner.ErrDanglingEntry):
		return "⚠️ Some planned recipes are no longer in your favorites. Remove them with /plan\\_remove or /plan\\_clear."
	}
	return "❌ " + escape(app.UserMessage(err))
}

func say(s string) Reply { return Reply{Text: s} }

func (d *Dispatcher) route(ctx context.Context, u *userState, cmd, args string) (Reply, error) {
	s := u.session
	switch cmd {
	case "/start":
		if !s.IsOnboardingComplete() {
			return say(notOnboardedText), nil
		}
		return say(helpText), nil
	case "/help":
		return say(helpText), nil

	case "/onboard":
		if args == "" {
			return say(onboardingHelp), nil
		}
		prefs, err := parsePreferences(args)
		if err != nil {
			return Reply{}, err
		}
		if err := s.SavePreferences(prefs); err != nil {
			return Reply{}, err
		}
		return say("✅ Profile saved. Try /recipe or /surprise."), nil
	case "/prefs":
		prefs, ok := s.Preferences.Get()
		if !ok {
			return say(notOnboardedText), nil
		}
		return say(formatPreferences(prefs)), nil

	case "/recipe", "/surprise":
		if cmd == "/recipe" && args == "" {
			return say("What would you like to cook? Send /recipe followed by an idea."), nil
		}
		r, err := s.GenerateRecipe(ctx, args, nil, cmd == "/surprise")
		if err != nil {
			return Reply{}, err
		}
		u.last = &r
		return Reply{
			Text:    formatRecipe(r),
			Actions: []Action{{Label: "⭐ Save to favorites", Command: "/save"}},
		}, nil
	case "/save":
		if u.last == nil {
			return say("No recipe to save yet. Generate one with /recipe."), nil
		}
		if _, err := s.SaveRecipe(*u.last); err != nil {
			return Reply{}, err
		}
		return Reply{}, nil
	case "/favorites":
		return say(formatFavorites(s.Recipes.List(), s.Plan.Get())), nil
	case "/show":
		r, err := s.FindRecipe(args)
		if err != nil {
			return Reply{}, err
		}
		return say(formatRecipe(r)), nil
	case "/remove":
		r, err := s.FindRecipe(args)
		if err != nil {
			return Reply{}, err
		}
		return Reply{}, s.RemoveRecipe(r.Title)
	case "/summary":
		r, err := s.FindRecipe(args)
		if err != nil {
			return Reply{}, err
		}
		summary, err := s.SummarizeRecipe(ctx, r.Title)
		if err != nil {
			return Reply{}, err
		}
		return say(fmt.Sprintf("📝 *%s*\n\n%s", escape(r.Title), escape(summary))), nil
	case "/alt":
		ref, missing, ok := strings.Cut(args, "|")
		if !ok || strings.TrimSpace(missing) == "" {
			return say("Usage: /alt <recipe> | <missing ingredient>"), nil
		}
		r, err := s.FindRecipe(strings.TrimSpace(ref))
		if err != nil {
			return Reply{}, err
		}
		alt, err := s.SuggestAlternatives(ctx, r.Title, strings.TrimSpace(missing))
		if err != nil {
			return Reply{}, err
		}
		return say(fmt.Sprintf("🔁 *Alternatives*\n\n%s\n\n_%s_", escape(alt.Alternatives), escape(alt.Reasoning))), nil
	case "/import":
		r, added, err := s.ImportRecipe(ctx, args)
		if err != nil {
			return Reply{}, err
		}
		if !added {
			return Reply{}, nil
		}
		return say(formatRecipe(r)), nil
	case "/publish":
		r, err := s.FindRecipe(args)
		if err != nil {
			return Reply{}, err
		}
		post, err := s.PublishRecipe(ctx, r.Title, false)
		if err != nil {
			return Reply{}, err
		}
		return say(fmt.Sprintf("✅ *Draft created*\n\n*Title:* %s\n*URL:* %s", escape(post.Title), escape(post.URL))), nil

	case "/pantry":
		return say(formatPantry(s.Pantry.Items())), nil
	case "/pantry_add":
		for _, item := range strings.Split(args, ",") {
			if _, err := s.AddPantryItem(item); err != nil {
				return Reply{}, err
			}
		}
		return say(formatPantry(s.Pantry.Items())), nil
	case "/pantry_remove":
		if err := s.RemovePantryItem(args); err != nil {
			return Reply{}, err
		}
		return say(formatPantry(s.Pantry.Items())), nil

	case "/plan":
		entries, dangling := planner.Resolve(s.Plan.Get(), s.Recipes.List())
		if len(dangling) > 0 {
			return Reply{}, planner.DanglingError(dangling)
		}
		return say(formatPlan(entries, s.DailyNutrition())), nil
	case "/plan_add", "/plan_remove", "/plan_inc", "/plan_dec":
		if err := s.RequireOnboarding(); err != nil {
			return Reply{}, err
		}
		title, err := s.PlannedTitle(args)
		if err != nil {
			return Reply{}, err
		}
		switch cmd {
		case "/plan_add":
			err = s.TogglePlanned(title, true)
		case "/plan_remove":
			err = s.TogglePlanned(title, false)
		case "/plan_inc":
			err = s.IncrementPlanned(title)
		default:
			err = s.DecrementPlanned(title)
		}
		if err != nil {
			return Reply{}, err
		}
		return d.route(ctx, u, "/plan", "")
	case "/plan_clear":
		if err := s.ClearMealPlan(); err != nil {
			return Reply{}, err
		}
		u.flow = app.NewGroceryFlow(s)
		return Reply{}, nil
	case "/analyze":
		analysis, err := s.AnalyzePlan(ctx)
		if err != nil {
			return Reply{}, err
		}
		return say("🥗 *Nutrition Review*\n\n" + escape(analysis)), nil
	case "/nutrition":
		return say("📊 *Daily average*\n\n" + formatNutrition(s.DailyNutrition())), nil

	case "/grocery":
		if err := u.flow.CreatePlan(ctx); err != nil {
			return Reply{}, err
		}
		return d.comparison(u), nil
	case "/list":
		if u.flow.Stage() != app.StageComparison {
			return say("No grocery list yet. Plan some meals and send /grocery."), nil
		}
		return d.comparison(u), nil
	case "/edit":
		parts := strings.SplitN(args, " ", 3)
		if len(parts) < 3 {
			return say("Usage: /edit <category> <item> <new name>"), nil
		}
		ci, err1 := strconv.Atoi(parts[0])
		ii, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return say("Usage: /edit <category> <item> <new name>"), nil
		}
		if err := u.flow.EditItem(ci-1, ii-1, strings.TrimSpace(parts[2])); err != nil {
			return Reply{}, err
		}
		return d.comparison(u), nil
	case "/order":
		if err := u.flow.SelectSupermarket(shopping.SupermarketName(args)); err != nil {
			return Reply{}, err
		}
		if _, err := u.flow.ScheduleDelivery(); err != nil {
			return Reply{}, err
		}
		return Reply{}, nil
	case "/savelist":
		if _, err := u.flow.SaveList(); err != nil {
			return Reply{}, err
		}
		return Reply{}, nil
	case "/back":
		u.flow.BackToEdit()
		return say("↩️ Back to your meal plan. Send /grocery to create a new list."), nil

	case "/lists":
		return say(formatSavedLists(s.SavedListViews())), nil
	case "/lists_order":
		ref, market, _ := strings.Cut(args, " ")
		list, err := indexArg(s.SavedListViews(), ref)
		if err != nil {
			return Reply{}, err
		}
		if _, err := s.ScheduleSavedList(list.ID, shopping.SupermarketName(market)); err != nil {
			return Reply{}, err
		}
		return Reply{}, nil
	case "/lists_remove":
		list, err := indexArg(s.SavedListViews(), args)
		if err != nil {
			return Reply{}, err
		}
		return Reply{}, s.RemoveSavedList(list.ID)
	case "/deliveries":
		return say(formatDeliveries(s.DeliveryPlans())), nil
	case "/delivery_remove":
		plan, err := indexArg(s.DeliveryPlans(), args)
		if err != nil {
			return Reply{}, err
		}
		return Reply{}, s.RemoveDeliveryPlan(plan.ID)
	case "/deliveries_clear":
		return Reply{}, s.ClearDeliveryPlans()
	}

	return say("🤔 Unknown command. Send /help for the list of commands."), nil
}

func (d *Dispatcher) comparison(u *userState) Reply {
	list, _ := u.flow.List()
	quotes := u.flow.Quotes()

	actions := make([]Action, 0, len(quotes)+1)
	for _, q := range quotes {
		actions = append(actions, Action{
			Label:   fmt.Sprintf("🚚 %s %s", q.Name, shopping.FormatEuro(q.TotalCost)),
			Command: "/order " + q.Name,
		})
	}
	actions = append(actions, Action{Label: "📋 Save list for later", Command: "/savelist"})

	return Reply{Text: formatGroceryList(list, quotes, u.flow.IsStale()), Actions: actions}
}

func indexArg[T any](items []T, arg string) (T, error) {
	var zero T
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(items) {
		return zero, fmt.Errorf("%w: no entry %q", history.ErrNotFound, strings.TrimSpace(arg))
	}
	return items[n-1], nil
}
