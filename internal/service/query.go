package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cardwise/cardwise/internal/model"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// CardsQuery is a validated list query. MaxFee is a pointer because a
// ceiling of 0 ("only fee-free cards") is a meaningful filter, distinct
// from no ceiling at all.
type CardsQuery struct {
	Issuer   string
	Category string
	MaxFee   *float64
	Limit    int
	Offset   int
}

// ParseCardsQuery validates raw query parameters, applying defaults for
// pagination. Empty strings mean "not provided".
func ParseCardsQuery(issuer, category, maxFee, limit, offset string) (CardsQuery, error) {
	q := CardsQuery{
		Issuer:   strings.TrimSpace(issuer),
		Category: strings.TrimSpace(category),
		Limit:    defaultLimit,
	}

	if maxFee != "" {
		fee, err := strconv.ParseFloat(maxFee, 64)
		if err != nil || fee < 0 {
			return CardsQuery{}, fmt.Errorf("maxFee must be a non-negative number")
		}
		q.MaxFee = &fee
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > maxLimit {
			return CardsQuery{}, fmt.Errorf("limit must be between 1 and %d", maxLimit)
		}
		q.Limit = n
	}

	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return CardsQuery{}, fmt.Errorf("offset must be non-negative")
		}
		q.Offset = n
	}

	return q, nil
}

// FilterCards applies the query's predicates, AND-composed, over an
// already-reconciled list. Pure: no I/O, input untouched.
func FilterCards(cards []model.CardRecord, q CardsQuery) []model.CardRecord {
	filtered := make([]model.CardRecord, 0, len(cards))
	for _, card := range cards {
		if q.Issuer != "" && !strings.Contains(strings.ToLower(card.Issuer), strings.ToLower(q.Issuer)) {
			continue
		}
		if q.Category != "" && !hasCategory(card.TopCategories, q.Category) {
			continue
		}
		if q.MaxFee != nil && card.AnnualFee > *q.MaxFee {
			continue
		}
		filtered = append(filtered, card)
	}
	return filtered
}

func hasCategory(categories []string, want string) bool {
	for _, c := range categories {
		if strings.EqualFold(c, want) {
			return true
		}
	}
	return false
}

// PaginateCards slices a fixed window out of the list. An offset past the
// end yields an empty result, not an error.
func PaginateCards(cards []model.CardRecord, q CardsQuery) []model.CardRecord {
	if q.Offset >= len(cards) {
		return []model.CardRecord{}
	}
	end := q.Offset + q.Limit
	if end > len(cards) {
		end = len(cards)
	}
	return cards[q.Offset:end]
}
