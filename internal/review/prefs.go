package review

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/service"
)

// Tab is one of the three status views.
type Tab string

// Tabs.
const (
	TabPending  Tab = "pending"
	TabApproved Tab = "approved"
	TabRejected Tab = "rejected"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabPending, TabApproved, TabRejected}

// Status returns the review status listed by the tab.
func (t Tab) Status() model.ReviewStatus {
	switch t {
	case TabApproved:
		return model.StatusApproved
	case TabRejected:
		return model.StatusRejected
	default:
		return model.StatusPendingReview
	}
}

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if !slices.Contains(Tabs, t) {
		return "", fmt.Errorf("unknown tab %q (want pending, approved or rejected)", s)
	}
	return t, nil
}

// Next returns the tab to the right, wrapping around.
func (t Tab) Next() Tab {
	i := slices.Index(Tabs, t)
	return Tabs[(i+1)%len(Tabs)]
}

// DefaultPageSize is the window size until the user picks another.
const DefaultPageSize = 5

// PageSizes are the sizes offered to the user.
var PageSizes = []int{5, 10, 25, 50, 100}

// Prefs are the review settings persisted between sessions.
type Prefs struct {
	Tab      Tab
	Sort     Sort
	PageSize int
}

// DefaultPrefs are used for anything not stored.
func DefaultPrefs() Prefs {
	return Prefs{Tab: TabPending, Sort: DefaultSort, PageSize: DefaultPageSize}
}

// LoadPrefs reads the stored preferences. Missing or malformed values fall
// back to defaults; only storage failures are returned.
func LoadPrefs(ctx context.Context, kv service.KeyValueStore) (Prefs, error) {
	p := DefaultPrefs()
	if kv == nil {
		return p, nil
	}

	get := func(key string) (string, error) {
		v, err := kv.Get(ctx, key)
		if errors.Is(err, common.ErrNotFound) {
			return "", nil
		}
		return v, err
	}

	tab, err := get(service.KeyReviewTab)
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	if t, perr := ParseTab(tab); perr == nil {
		p.Tab = t
	}

	size, err := get(service.KeyPageSize)
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	if n, perr := strconv.Atoi(size); perr == nil && n > 0 {
		p.PageSize = n
	}

	field, err := get(service.KeySortField)
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	if f := SortField(field); f.Valid() {
		p.Sort.Field = f
	}

	dir, err := get(service.KeySortDirection)
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	if d := SortDirection(dir); d == Ascending || d == Descending {
		p.Sort.Direction = d
	}

	return p, nil
}

// SavePrefs writes every preference.
func SavePrefs(ctx context.Context, kv service.KeyValueStore, p Prefs) error {
	if kv == nil {
		return nil
	}
	values := [][2]string{
		{service.KeyReviewTab, string(p.Tab)},
		{service.KeyPageSize, strconv.Itoa(p.PageSize)},
		{service.KeySortField, string(p.Sort.Field)},
		{service.KeySortDirection, string(p.Sort.Direction)},
	}
	for _, pair := range values {
		if err := kv.Set(ctx, pair[0], pair[1]); err != nil {
			return fmt.Errorf("save preference %s: %w", pair[0], err)
		}
	}
	return nil
}
