package history

import (
	"hash/fnv"
	"strconv"
	"time"

	"cookwise/internal/notify"
	"cookwise/internal/shopping"
	"cookwise/internal/storage"
)

// RequoteAfter is the age after which saved quotes are shown re-priced.
const RequoteAfter = 24 * time.Hour

// SavedList is an immutable snapshot of a grocery list kept for later.
type SavedList struct {
	ID                string                   `json:"id"`
	CreatedAt         time.Time                `json:"createdAt"`
	Recipes           []shopping.PlannedRecipe `json:"recipes"`
	GroceryList       shopping.GroceryList     `json:"groceryList"`
	TotalCost         float64                  `json:"totalCost"`
	SupermarketQuotes []shopping.Quote         `json:"supermarketQuotes"`
}

func (s SavedList) RecordID() string { return s.ID }

// NewSavedList snapshots a list at now. TotalCost is the unjittered base.
func NewSavedList(now time.Time, recipes []shopping.PlannedRecipe, list shopping.GroceryList, quotes []shopping.Quote) SavedList {
	return SavedList{
		ID:                NewID(now),
		CreatedAt:         now.UTC(),
		Recipes:           append([]shopping.PlannedRecipe(nil), recipes...),
		GroceryList:       list.Clone(),
		TotalCost:         list.BaseTotal(),
		SupermarketQuotes: append([]shopping.Quote(nil), quotes...),
	}
}

// SavedListLog is the list of saved grocery lists.
type SavedListLog struct {
	log      *recordLog[SavedList]
	notifier notify.Notifier
	quoter   *shopping.Quoter
}

// NewSavedListLog loads the saved lists from adapter.
func NewSavedListLog(adapter *storage.Adapter, notifier notify.Notifier, quoter *shopping.Quoter) *SavedListLog {
	return &SavedListLog{
		log:      newRecordLog[SavedList](adapter, storage.KeySavedLists),
		notifier: notifier,
		quoter:   quoter,
	}
}

// Append records a list at the head of the log.
func (s *SavedListLog) Append(list SavedList) error {
	if err := s.log.prepend(list); err != nil {
		return err
	}
	s.notifier.Notify(notify.Notice{
		Title:       "List Saved!",
		Description: `Your grocery list has been saved to "My Lists".`,
	})
	return nil
}

// RemoveOne deletes the list with id. Silent removal skips the notice.
func (s *SavedListLog) RemoveOne(id string, silent bool) error {
	if err := s.log.remove(id); err != nil {
		return err
	}
	if !silent {
		s.notifier.Notify(notify.Notice{
			Title:       "List Removed",
			Description: "The saved grocery list has been removed.",
		})
	}
	return nil
}

// List returns the stored lists, most recent first, exactly as persisted.
func (s *SavedListLog) List() []SavedList { return s.log.list() }

// Views returns the lists as shown at now: lists older than RequoteAfter
// carry re-jittered quotes. Stored records are left untouched.
func (s *SavedListLog) Views(now time.Time) []SavedList {
	lists := s.log.list()
	for i, l := range lists {
		lists[i] = s.view(l, now)
	}
	return lists
}

// View returns the list with id as shown at now.
func (s *SavedListLog) View(id string, now time.Time) (SavedList, bool) {
	l, ok := s.log.get(id)
	if !ok {
		return SavedList{}, false
	}
	return s.view(l, now), true
}

// view re-prices lists older than RequoteAfter. The quotes change once per
// RequoteAfter window, so a list scheduled right after being shown is
// ordered at the price on screen.
func (s *SavedListLog) view(l SavedList, now time.Time) SavedList {
	age := now.Sub(l.CreatedAt)
	if age > RequoteAfter {
		l.SupermarketQuotes = s.quoter.Rejitter(l.SupermarketQuotes, viewSeed(l.ID, int64(age/RequoteAfter)))
	}
	return l
}

func viewSeed(id string, window int64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	h.Write([]byte{'/'})
	h.Write([]byte(strconv.FormatInt(window, 10)))
	return h.Sum64()
}
