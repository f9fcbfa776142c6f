package service

import "github.com/mkozhevin/retail_orders/internal/models"

// DeliveryCost picks the tier with the largest minimum not exceeding
// the subtotal. The second return is false when no tier qualifies or
// none is configured.
func DeliveryCost(tiers []models.Delivery, subtotal uint) (uint, bool) {
	best := -1
	for i, tier := range tiers {
		if tier.MinSum > subtotal {
			continue
		}
		if best == -1 || tier.MinSum > tiers[best].MinSum {
			best = i
		}
	}
	if best == -1 {
		return 0, false
	}
	return tiers[best].Cost, true
}
