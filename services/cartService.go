package services

import "github.com/krishisathi/agrisetu-api/models"

// MergeCartItems folds a client-held draft cart into the persisted one after
// login. Lines for a product already in the cart add up their quantities and
// keep the original price-at-add; unseen products are appended as new lines.
func MergeCartItems(existing, incoming []models.CartItem) []models.CartItem {
	merged := make([]models.CartItem, len(existing))
	copy(merged, existing)

	for _, local := range incoming {
		if local.ProductID == 0 || local.Qty < 1 {
			continue
		}

		found := false
		for i := range merged {
			if merged[i].ProductID == local.ProductID {
				merged[i].Qty += local.Qty
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, models.CartItem{
				ProductID: local.ProductID,
				Qty:       local.Qty,
				Price:     local.Price,
			})
		}
	}
	return merged
}
