package seed

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports every problem found in the dataset rather than
// stopping at the first. Callers treat it as "no seed data available".
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("seed dataset invalid (%d issues): %s", len(e.Issues), strings.Join(e.Issues, "; "))
}

var (
	validRewardTypes = map[string]bool{"cashback": true, "points": true, "miles": true}
	validCreditTiers = map[string]bool{"excellent": true, "good": true, "fair": true, "building": true}
	validNetworks    = map[string]bool{"visa": true, "mastercard": true, "amex": true, "discover": true}
	validCardTypes   = map[string]bool{"personal": true, "business": true, "student": true, "secured": true}
)

// Validate checks every record and child collection, returning the full
// list of issues. An empty result means the dataset is usable.
func Validate(cards []Card) []string {
	var issues []string

	seen := make(map[string]bool, len(cards))
	for i := range cards {
		issues = append(issues, validateCard(i, &cards[i], seen)...)
	}

	return issues
}

func validateCard(i int, c *Card, seen map[string]bool) []string {
	var issues []string
	at := func(field, reason string) {
		issues = append(issues, fmt.Sprintf("cards[%d].%s: %s", i, field, reason))
	}

	if c.Slug == "" {
		at("slug", "required")
	} else if seen[c.Slug] {
		at("slug", fmt.Sprintf("duplicate %q", c.Slug))
	} else {
		seen[c.Slug] = true
	}
	if c.Name == "" {
		at("name", "required")
	}
	if c.Issuer == "" {
		at("issuer", "required")
	}
	if c.Headline == "" {
		at("headline", "required")
	}
	if !validRewardTypes[c.RewardType] {
		at("rewardType", fmt.Sprintf("unknown value %q", c.RewardType))
	}
	if !validCreditTiers[c.CreditTierMin] {
		at("creditTierMin", fmt.Sprintf("unknown value %q", c.CreditTierMin))
	}
	if len(c.TopCategories) == 0 {
		at("topCategories", "required")
	}
	if c.AnnualFee < 0 {
		at("annualFee", "must be non-negative")
	}
	if c.CardType != nil && !validCardTypes[*c.CardType] {
		at("cardType", fmt.Sprintf("unknown value %q", *c.CardType))
	}
	if c.Network != nil && !validNetworks[*c.Network] {
		at("network", fmt.Sprintf("unknown value %q", *c.Network))
	}
	if c.EditorRating != nil && (*c.EditorRating < 0 || *c.EditorRating > 5) {
		at("editorRating", "must be between 0 and 5")
	}
	if c.RegularAprMin != nil && *c.RegularAprMin < 0 {
		at("regularAprMin", "must be non-negative")
	}
	if c.RegularAprMax != nil && *c.RegularAprMax < 0 {
		at("regularAprMax", "must be non-negative")
	}
	if c.ForeignTxFee != nil && *c.ForeignTxFee < 0 {
		at("foreignTxFee", "must be non-negative")
	}
	if c.LastVerified != nil {
		if _, err := time.Parse(time.RFC3339, *c.LastVerified); err != nil {
			at("lastVerified", "must be an RFC 3339 timestamp")
		}
	}

	for j := range c.Rewards {
		issues = append(issues, validateReward(i, j, &c.Rewards[j])...)
	}
	for j := range c.SignUpBonuses {
		issues = append(issues, validateBonus(i, j, &c.SignUpBonuses[j])...)
	}
	for j := range c.Benefits {
		issues = append(issues, validateBenefit(i, j, &c.Benefits[j])...)
	}
	for j := range c.TransferPartners {
		issues = append(issues, validatePartner(i, j, &c.TransferPartners[j])...)
	}

	return issues
}

func validateReward(i, j int, r *Reward) []string {
	var issues []string
	at := func(field, reason string) {
		issues = append(issues, fmt.Sprintf("cards[%d].rewards[%d].%s: %s", i, j, field, reason))
	}

	if r.Category == "" {
		at("category", "required")
	}
	if r.Rate == nil {
		at("rate", "required")
	} else if *r.Rate < 0 {
		at("rate", "must be non-negative")
	}
	if !validRewardTypes[r.RateType] {
		at("rateType", fmt.Sprintf("unknown value %q", r.RateType))
	}
	if r.CapAmount != nil && *r.CapAmount < 0 {
		at("capAmount", "must be non-negative")
	}
	if r.RotationQuarter != nil && (*r.RotationQuarter < 1 || *r.RotationQuarter > 4) {
		at("rotationQuarter", "must be between 1 and 4")
	}

	return issues
}

func validateBonus(i, j int, b *SignUpBonus) []string {
	var issues []string
	at := func(field, reason string) {
		issues = append(issues, fmt.Sprintf("cards[%d].signUpBonuses[%d].%s: %s", i, j, field, reason))
	}

	if b.BonusValue == nil {
		at("bonusValue", "required")
	} else if *b.BonusValue < 0 {
		at("bonusValue", "must be non-negative")
	}
	if b.BonusType == "" {
		at("bonusType", "required")
	}
	if b.SpendRequired == nil {
		at("spendRequired", "required")
	} else if *b.SpendRequired < 0 {
		at("spendRequired", "must be non-negative")
	}
	if b.SpendPeriodDays <= 0 {
		at("spendPeriodDays", "must be positive")
	}
	if b.ExpiresAt != nil {
		if _, err := time.Parse(time.RFC3339, *b.ExpiresAt); err != nil {
			at("expiresAt", "must be an RFC 3339 timestamp")
		}
	}

	return issues
}

func validateBenefit(i, j int, b *Benefit) []string {
	var issues []string
	at := func(field, reason string) {
		issues = append(issues, fmt.Sprintf("cards[%d].benefits[%d].%s: %s", i, j, field, reason))
	}

	if b.Category == "" {
		at("category", "required")
	}
	if b.Name == "" {
		at("name", "required")
	}
	if b.Description == "" {
		at("description", "required")
	}
	if b.EstimatedValue != nil && *b.EstimatedValue < 0 {
		at("estimatedValue", "must be non-negative")
	}

	return issues
}

func validatePartner(i, j int, p *TransferPartner) []string {
	var issues []string
	at := func(field, reason string) {
		issues = append(issues, fmt.Sprintf("cards[%d].transferPartners[%d].%s: %s", i, j, field, reason))
	}

	if p.PartnerName == "" {
		at("partnerName", "required")
	}
	if p.PartnerType == "" {
		at("partnerType", "required")
	}
	if p.TransferRatio != nil && *p.TransferRatio <= 0 {
		at("transferRatio", "must be positive")
	}
	if p.BonusExpiresAt != nil {
		if _, err := time.Parse(time.RFC3339, *p.BonusExpiresAt); err != nil {
			at("bonusExpiresAt", "must be an RFC 3339 timestamp")
		}
	}

	return issues
}
