package service

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"kabadi-client/internal/domain"
)

// NewItemID returns a fresh, time-ordered identifier for a cart line
func NewItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// CartSnapshot is a copy of the cart for display
type CartSnapshot struct {
	Items     []domain.PickupItem    `json:"items"`
	Selection domain.PickupSelection `json:"selection"`
	EditingID string                 `json:"editingId,omitempty"`
}

// CartManager holds the citizen's pending pickup list and the picker state
// used to build its items
type CartManager struct {
	notifier Notifier
	newID    func() string

	mu        sync.Mutex
	items     []domain.PickupItem
	selection domain.PickupSelection
	editingID string
}

func NewCartManager(notifier Notifier, newID func() string) *CartManager {
	if newID == nil {
		newID = NewItemID
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &CartManager{notifier: notifier, newID: newID}
}

// SetSelection replaces the picker state
func (c *CartManager) SetSelection(sel domain.PickupSelection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = copySelection(sel)
}

// SetPickupAddress updates the address shared by the items of this session
func (c *CartManager) SetPickupAddress(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.PickupAddress = address
}

// Selection returns the picker state
func (c *CartManager) Selection() domain.PickupSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySelection(c.selection)
}

// AddOrUpdateItem appends a new item built from sel, or replaces the fields
// of the item with editingID in place. On an invalid selection nothing
// changes. Afterwards the materials and weight are cleared for the next
// pick while the schedule and address carry over.
func (c *CartManager) AddOrUpdateItem(sel domain.PickupSelection, editingID string) (domain.PickupItem, error) {
	c.mu.Lock()

	idx := -1
	if editingID != "" {
		idx = c.indexLocked(editingID)
		if idx < 0 {
			c.mu.Unlock()
			return domain.PickupItem{}, ErrItemNotFound
		}
	}

	item, err := domain.NewPickupItem(editingID, sel)
	if err != nil {
		c.mu.Unlock()
		c.notifier.Notify(NotifyError, UserMessage(err))
		return domain.PickupItem{}, err
	}
	// A fresh id is taken only for a valid new item
	if idx < 0 {
		item.ID = c.newID()
	}

	msg := "Added to list"
	if idx >= 0 {
		c.items[idx] = item
		msg = "Item updated"
	} else {
		c.items = append(c.items, item)
	}
	c.editingID = ""
	c.selection = domain.PickupSelection{
		ScheduledAt:   item.ScheduledAt,
		PickupAddress: sel.PickupAddress,
	}
	c.mu.Unlock()

	c.notifier.Notify(NotifySuccess, msg)
	return item, nil
}

// Commit adds or updates from the current picker state and edit target
func (c *CartManager) Commit() (domain.PickupItem, error) {
	c.mu.Lock()
	sel := copySelection(c.selection)
	editing := c.editingID
	c.mu.Unlock()
	return c.AddOrUpdateItem(sel, editing)
}

// RemoveItem deletes the item. Removing the item under edit also leaves
// edit mode and clears the picker.
func (c *CartManager) RemoveItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	if c.editingID == id {
		c.editingID = ""
		c.resetPickerLocked()
	}
	return nil
}

// BeginEdit loads the item into the picker and marks it as the edit target
func (c *CartManager) BeginEdit(id string) (domain.PickupSelection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(id)
	if idx < 0 {
		return domain.PickupSelection{}, ErrItemNotFound
	}
	c.selection = c.items[idx].Selection()
	c.editingID = id
	return copySelection(c.selection), nil
}

// CancelEdit leaves edit mode without touching the list
func (c *CartManager) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingID = ""
	c.resetPickerLocked()
}

// EditingID is the item being edited, or "" in add mode
func (c *CartManager) EditingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

func (c *CartManager) Items() []domain.PickupItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

func (c *CartManager) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the list after a successful submission
func (c *CartManager) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.editingID = ""
	c.resetPickerLocked()
}

func (c *CartManager) Snapshot() CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CartSnapshot{
		Items:     slices.Clone(c.items),
		Selection: copySelection(c.selection),
		EditingID: c.editingID,
	}
}

func (c *CartManager) resetPickerLocked() {
	c.selection.Materials = nil
	c.selection.WeightKg = nil
}

func (c *CartManager) indexLocked(id string) int {
	return slices.IndexFunc(c.items, func(it domain.PickupItem) bool { return it.ID == id })
}

func copySelection(sel domain.PickupSelection) domain.PickupSelection {
	out := sel
	out.Materials = slices.Clone(sel.Materials)
	if sel.WeightKg != nil {
		w := *sel.WeightKg
		out.WeightKg = &w
	}
	if sel.ScheduledAt != nil {
		at := *sel.ScheduledAt
		out.ScheduledAt = &at
	}
	return out
}
