// Package entity contains the core business objects of the project.
package entity

// PlanTier enumerates the subscription tiers. Tiers only gate business rules
// (today: the monthly SMS allowance); there is no payment processing here.
type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanFamily  PlanTier = "family"
	PlanPremium PlanTier = "premium"
)
