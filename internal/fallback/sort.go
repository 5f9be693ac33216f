package fallback

import (
	"sort"

	"go-scrapyard-ws/internal/model"
)

func sortByTimestampDesc(txs []model.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
}

func sortByMaterial(items []model.InventoryItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Material < items[j].Material
	})
}
