// internal/service/resolution.go
package service

import (
	"peakform/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResolvedBlock is a content block prepared for display. Name and media
// come from the referenced catalog item when one resolves; otherwise they
// fall back to the block's own inline data. Absence of a resolvable
// reference is never an error, only a degraded display.
type ResolvedBlock struct {
	ID         string              `json:"id"`
	Type       domain.BlockType    `json:"type"`
	Order      int                 `json:"order"`
	Data       domain.BlockData    `json:"data"`
	CatalogRef string              `json:"catalogRef,omitempty"`
	Name       string              `json:"name,omitempty"`
	ImageURL   string              `json:"imageUrl,omitempty"`
	VideoURL   string              `json:"videoUrl,omitempty"`
	Catalog    *domain.CatalogItem `json:"catalog,omitempty"` // nil when the reference did not resolve
}

// DayView is a day with its blocks resolved for display.
type DayView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	DayNumber int             `json:"dayNumber"`
	Blocks    []ResolvedBlock `json:"blocks"`
}

// WeekView is a week with its days resolved for display.
type WeekView struct {
	ID         string    `json:"id"`
	WeekNumber int       `json:"weekNumber"`
	Title      string    `json:"title,omitempty"`
	Days       []DayView `json:"days"`
}

// ProgramView is the read-side shape of a program: the document plus its
// tree with catalog references resolved.
type ProgramView struct {
	Program domain.Program `json:"program"`
	Weeks   []WeekView     `json:"weeks"`
}

// collectCatalogRefs gathers the distinct catalog ids referenced anywhere
// in the tree.
func collectCatalogRefs(weeks []domain.Week) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var refs []primitive.ObjectID
	for _, w := range weeks {
		for _, d := range w.Days {
			for _, b := range d.Blocks {
				if b.CatalogRef == nil || seen[*b.CatalogRef] {
					continue
				}
				seen[*b.CatalogRef] = true
				refs = append(refs, *b.CatalogRef)
			}
		}
	}
	return refs
}

// resolveTree joins each block's catalog reference against the fetched
// items, fallback-first: the block's inline data fills the display fields
// and a resolved item overrides name and media.
func resolveTree(weeks []domain.Week, items map[primitive.ObjectID]domain.CatalogItem) []WeekView {
	views := make([]WeekView, len(weeks))
	for wi, w := range weeks {
		days := make([]DayView, len(w.Days))
		for di, d := range w.Days {
			blocks := make([]ResolvedBlock, len(d.Blocks))
			for bi, b := range d.Blocks {
				blocks[bi] = resolveBlock(b, items)
			}
			days[di] = DayView{
				ID:        d.ID.Hex(),
				Name:      d.Name,
				DayNumber: d.DayNumber,
				Blocks:    blocks,
			}
		}
		views[wi] = WeekView{
			ID:         w.ID.Hex(),
			WeekNumber: w.WeekNumber,
			Title:      w.Title,
			Days:       days,
		}
	}
	return views
}

func resolveBlock(b domain.ContentBlock, items map[primitive.ObjectID]domain.CatalogItem) ResolvedBlock {
	resolved := ResolvedBlock{
		ID:       b.ID.Hex(),
		Type:     b.Type,
		Order:    b.Order,
		Data:     b.Data,
		ImageURL: b.Data.ImageURL,
		VideoURL: b.Data.VideoURL,
	}
	if b.CatalogRef == nil {
		return resolved
	}

	resolved.CatalogRef = b.CatalogRef.Hex()
	item, ok := items[*b.CatalogRef]
	if !ok {
		// Deleted or missing catalog item: keep the inline fallback.
		return resolved
	}

	resolved.Name = item.Name
	if item.ImageURL != "" {
		resolved.ImageURL = item.ImageURL
	}
	if item.VideoURL != "" {
		resolved.VideoURL = item.VideoURL
	}
	itemCopy := item
	resolved.Catalog = &itemCopy
	return resolved
}
