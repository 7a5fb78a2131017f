// Package billing owns plan quotas and the Stripe subscription lifecycle.
package billing

import "strings"

// Plan identifies a subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
	PlanPro     Plan = "pro"
)

// Unlimited marks a plan with no monthly story cap.
const Unlimited = -1

var planQuotas = map[Plan]int{
	PlanFree:    1,
	PlanBasic:   3,
	PlanPremium: 10,
	PlanPro:     Unlimited,
}

// ParsePlan normalizes a raw plan string. Unknown values fall back to the
// free plan so a corrupted record can never grant extra quota.
func ParsePlan(raw string) Plan {
	p := Plan(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := planQuotas[p]; ok {
		return p
	}
	return PlanFree
}

// Quota returns the plan's monthly story allowance, Unlimited for the pro
// tier.
func (p Plan) Quota() int {
	if q, ok := planQuotas[p]; ok {
		return q
	}
	return planQuotas[PlanFree]
}

// Allows reports whether a user with the given usage count may generate
// another story this month.
func (p Plan) Allows(used int) bool {
	q := p.Quota()
	return q == Unlimited || used < q
}

// Paid reports whether the plan is a paying tier.
func (p Plan) Paid() bool {
	return p == PlanBasic || p == PlanPremium || p == PlanPro
}
