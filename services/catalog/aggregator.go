package catalog

import "cinevault/models"

// Merge combines the durable catalog's items (primary) with staged items
// (secondary) into one collection. Staged items are placed ahead of durable
// items and duplicates are removed on exact, case-sensitive title equality,
// keeping the first occurrence in that order.
//
// Title matching is deliberately crude: it exists so an item staged during a
// durable-store outage does not show up twice once the same record is later
// migrated into the durable store, at the accepted cost of collapsing
// unrelated items that happen to share a title.
func Merge(primary, secondary []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(primary)+len(secondary))
	seen := make(map[string]struct{}, len(primary)+len(secondary))

	for _, item := range secondary {
		if _, dup := seen[item.Title]; dup {
			continue
		}
		seen[item.Title] = struct{}{}
		out = append(out, item)
	}
	for _, item := range primary {
		if _, dup := seen[item.Title]; dup {
			continue
		}
		seen[item.Title] = struct{}{}
		out = append(out, item)
	}

	return out
}
