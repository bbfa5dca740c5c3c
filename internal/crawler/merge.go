package crawler

import "fluxitech/mimatour-api/internal/models"

// MergeItems unions two listings keyed by source URL. The primary list keeps
// its order and wins on conflicts; secondary entries that are new are
// appended in their own order. Primary entries without a URL are kept,
// secondary ones are only added when their title is not already present.
func MergeItems(primary, secondary []models.RawItem) []models.RawItem {
	merged := make([]models.RawItem, 0, len(primary)+len(secondary))
	urls := make(map[string]struct{}, len(primary))
	titles := make(map[string]struct{}, len(primary))

	for _, item := range primary {
		if item.URLOrigem != "" {
			if _, dup := urls[item.URLOrigem]; dup {
				continue
			}
			urls[item.URLOrigem] = struct{}{}
		}
		titles[item.Titulo] = struct{}{}
		merged = append(merged, item)
	}

	for _, item := range secondary {
		if item.URLOrigem == "" {
			if _, dup := titles[item.Titulo]; dup || item.Titulo == "" {
				continue
			}
		} else if _, dup := urls[item.URLOrigem]; dup {
			continue
		} else {
			urls[item.URLOrigem] = struct{}{}
		}
		titles[item.Titulo] = struct{}{}
		merged = append(merged, item)
	}

	return merged
}
