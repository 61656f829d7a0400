package domain

import (
	"errors"
	"math"
	"time"
)

var (
	ErrEmptyMaterials    = errors.New("select at least one material type")
	ErrUnknownMaterial   = errors.New("unknown material type")
	ErrInvalidWeight     = errors.New("enter a valid weight greater than 0")
	ErrInvalidPrice      = errors.New("enter a valid price greater than 0")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// ValidAmount reports whether v is a finite number greater than zero
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// PickupSelection is the in-progress picker state of the booking form
type PickupSelection struct {
	Materials     []MaterialType `json:"materials"`
	WeightKg      *float64       `json:"weightKg,omitempty"`
	ScheduledAt   *time.Time     `json:"scheduledAt,omitempty"`
	PickupAddress string         `json:"pickupAddress"`
}

// PickupItem is one entry of the citizen's pending pickup list
type PickupItem struct {
	ID            string         `json:"id"`
	Materials     []MaterialType `json:"materials"`
	WeightKg      *float64       `json:"weightKg,omitempty"`
	ScheduledAt   *time.Time     `json:"scheduledAt,omitempty"`
	PickupAddress string         `json:"pickupAddress,omitempty"`
}

// NewPickupItem validates sel and builds an item with the given id. Duplicate
// materials are collapsed, keeping the first occurrence.
func NewPickupItem(id string, sel PickupSelection) (PickupItem, error) {
	if len(sel.Materials) == 0 {
		return PickupItem{}, ErrEmptyMaterials
	}
	seen := make(map[MaterialType]bool, len(sel.Materials))
	materials := make([]MaterialType, 0, len(sel.Materials))
	for _, m := range sel.Materials {
		if !m.Valid() {
			return PickupItem{}, ErrUnknownMaterial
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		materials = append(materials, m)
	}
	if sel.WeightKg != nil && !ValidAmount(*sel.WeightKg) {
		return PickupItem{}, ErrInvalidWeight
	}

	item := PickupItem{
		ID:            id,
		Materials:     materials,
		PickupAddress: sel.PickupAddress,
	}
	if sel.WeightKg != nil {
		w := *sel.WeightKg
		item.WeightKg = &w
	}
	if sel.ScheduledAt != nil {
		at := *sel.ScheduledAt
		item.ScheduledAt = &at
	}
	return item, nil
}

// WeightPerMaterial splits the item's total weight evenly across its
// materials. Nil when no weight was given.
func (p PickupItem) WeightPerMaterial() *float64 {
	if p.WeightKg == nil || len(p.Materials) == 0 {
		return nil
	}
	w := *p.WeightKg / float64(len(p.Materials))
	return &w
}

// Selection returns the item's fields as picker state
func (p PickupItem) Selection() PickupSelection {
	sel := PickupSelection{
		Materials:     append([]MaterialType(nil), p.Materials...),
		PickupAddress: p.PickupAddress,
	}
	if p.WeightKg != nil {
		w := *p.WeightKg
		sel.WeightKg = &w
	}
	if p.ScheduledAt != nil {
		at := *p.ScheduledAt
		sel.ScheduledAt = &at
	}
	return sel
}
