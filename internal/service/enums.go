package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/cardwise/cardwise/internal/model"
)

// The database stores enums as upper-case codes; the canonical model and the
// seed dataset use lower-case. Translation goes through these tables only —
// an unmapped code resolves to a defined fallback and logs a data-quality
// warning, never an error.

var cardTypeFromDB = map[string]string{
	"PERSONAL": "personal",
	"BUSINESS": "business",
	"STUDENT":  "student",
	"SECURED":  "secured",
}

var creditTierFromDB = map[string]string{
	"EXCELLENT": model.TierExcellent,
	"GOOD":      model.TierGood,
	"FAIR":      model.TierFair,
	"BUILDING":  model.TierBuilding,
}

var networkFromDB = map[string]string{
	"VISA":       "visa",
	"MASTERCARD": "mastercard",
	"AMEX":       "amex",
	"DISCOVER":   "discover",
}

var spendingCategoryFromDB = map[string]string{
	"DINING":          "dining",
	"GROCERIES":       "groceries",
	"TRAVEL":          "travel",
	"GAS":             "gas",
	"STREAMING":       "streaming",
	"ONLINE_SHOPPING": "online_shopping",
	"ENTERTAINMENT":   "entertainment",
	"UTILITIES":       "utilities",
	"ALL":             model.CategoryAll,
	"OTHER":           "other",
}

var rateTypeFromDB = map[string]string{
	"CASHBACK": model.RewardCashback,
	"POINTS":   model.RewardPoints,
	"MILES":    model.RewardMiles,
}

// Seed-to-database direction, used when loading the catalog into Postgres.

var creditTierToDB = map[string]string{
	model.TierExcellent: "EXCELLENT",
	model.TierGood:      "GOOD",
	model.TierFair:      "FAIR",
	model.TierBuilding:  "BUILDING",
}

var cardTypeToDB = map[string]string{
	"personal": "PERSONAL",
	"business": "BUSINESS",
	"student":  "STUDENT",
	"secured":  "SECURED",
}

var networkToDB = map[string]string{
	"visa":       "VISA",
	"mastercard": "MASTERCARD",
	"amex":       "AMEX",
	"discover":   "DISCOVER",
}

var spendingCategoryToDB = map[string]string{
	"dining":          "DINING",
	"groceries":       "GROCERIES",
	"travel":          "TRAVEL",
	"gas":             "GAS",
	"streaming":       "STREAMING",
	"online_shopping": "ONLINE_SHOPPING",
	"entertainment":   "ENTERTAINMENT",
	"utilities":       "UTILITIES",
	"all":             "ALL",
	"other":           "OTHER",
}

var rateTypeToDB = map[string]string{
	model.RewardCashback: "CASHBACK",
	model.RewardPoints:   "POINTS",
	model.RewardMiles:    "MILES",
}

var benefitCategoryToDB = map[string]string{
	"purchase_protection": "PURCHASE_PROTECTION",
	"extended_warranty":   "EXTENDED_WARRANTY",
	"cell_phone":          "CELL_PHONE",
	"rental_car":          "RENTAL_CAR",
	"travel_insurance":    "TRAVEL_INSURANCE",
	"lounge_access":       "LOUNGE_ACCESS",
	"price_protection":    "PRICE_PROTECTION",
	"return_protection":   "RETURN_PROTECTION",
	"concierge":           "CONCIERGE",
	"tsa_global_entry":    "TSA_GLOBAL_ENTRY",
	"streaming_credits":   "STREAMING_CREDITS",
	"dining_credits":      "DINING_CREDITS",
	"travel_credits":      "TRAVEL_CREDITS",
	"other":               "OTHER",
}

var partnerTypeToDB = map[string]string{
	"airline": "AIRLINE",
	"hotel":   "HOTEL",
	"other":   "OTHER",
}

func translateCardType(code string, logger *zap.Logger) string {
	if v, ok := cardTypeFromDB[code]; ok {
		return v
	}
	logger.Warn("unmapped card type code", zap.String("code", code))
	return "personal"
}

func translateCreditTier(code string, logger *zap.Logger) string {
	if v, ok := creditTierFromDB[code]; ok {
		return v
	}
	logger.Warn("unmapped credit tier code", zap.String("code", code))
	return strings.ToLower(code)
}

func translateNetwork(code string, logger *zap.Logger) string {
	if v, ok := networkFromDB[code]; ok {
		return v
	}
	logger.Warn("unmapped network code", zap.String("code", code))
	return strings.ToLower(code)
}

func translateSpendingCategory(code string, logger *zap.Logger) string {
	if v, ok := spendingCategoryFromDB[code]; ok {
		return v
	}
	logger.Warn("unmapped spending category code", zap.String("code", code))
	return "other"
}

func translateRateType(code string, logger *zap.Logger) string {
	if v, ok := rateTypeFromDB[code]; ok {
		return v
	}
	logger.Warn("unmapped rate type code", zap.String("code", code))
	return model.RewardCashback
}

// Benefit categories display as lower-case words, so the translation is
// mechanical rather than table-driven: LOUNGE_ACCESS -> "lounge access".
func translateBenefitCategory(code string) string {
	return strings.ReplaceAll(strings.ToLower(code), "_", " ")
}

func translatePartnerType(code string) string {
	return strings.ToLower(code)
}

// SpendingCategoryToDB maps a seed category to its database code, falling
// back to OTHER for unknown tags.
func SpendingCategoryToDB(category string) string {
	if v, ok := spendingCategoryToDB[category]; ok {
		return v
	}
	return "OTHER"
}

// RateTypeToDB maps a seed rate type to its database code.
func RateTypeToDB(rateType string) string {
	if v, ok := rateTypeToDB[rateType]; ok {
		return v
	}
	return "CASHBACK"
}

// CardTypeToDB maps a seed card type to its database code; absent defaults
// to PERSONAL.
func CardTypeToDB(cardType *string) string {
	if cardType == nil {
		return "PERSONAL"
	}
	if v, ok := cardTypeToDB[*cardType]; ok {
		return v
	}
	return "PERSONAL"
}

// CreditTierToDB maps a seed credit tier to its database code.
func CreditTierToDB(tier string) string {
	if v, ok := creditTierToDB[tier]; ok {
		return v
	}
	return "GOOD"
}

// NetworkToDB maps a seed network to its database code; ok is false when the
// network is absent or unknown (the column stays NULL).
func NetworkToDB(network *string) (string, bool) {
	if network == nil {
		return "", false
	}
	v, ok := networkToDB[*network]
	return v, ok
}

// BenefitCategoryToDB maps a seed benefit category to its database code,
// falling back to OTHER.
func BenefitCategoryToDB(category string) string {
	if v, ok := benefitCategoryToDB[strings.ToLower(category)]; ok {
		return v
	}
	return "OTHER"
}

// PartnerTypeToDB maps a seed partner type to its database code, falling
// back to OTHER.
func PartnerTypeToDB(partnerType string) string {
	if v, ok := partnerTypeToDB[strings.ToLower(partnerType)]; ok {
		return v
	}
	return "OTHER"
}
