package service

import (
	"fmt"
	"sort"

	"github.com/cardwise/cardwise/internal/model"
)

const maxRecommendations = 3

// QuizRequest is the four-answer questionnaire. All fields are required
// closed enums; validation rejects anything else before scoring runs.
type QuizRequest struct {
	Goal   string `json:"goal"`
	Spend  string `json:"spend"`
	Fee    string `json:"fee"`
	Credit string `json:"credit"`
}

var (
	validGoals  = map[string]bool{"cashback": true, "travel": true, "flexibility": true}
	validSpends = map[string]bool{"groceries": true, "dining": true, "travel": true, "everything": true}
	validFees   = map[string]bool{"no_fee": true, "up_to_95": true, "over_95_ok": true}
)

// Validate checks every answer against its enumeration.
func (q QuizRequest) Validate() error {
	if !validGoals[q.Goal] {
		return fmt.Errorf("goal must be one of cashback, travel, flexibility")
	}
	if !validSpends[q.Spend] {
		return fmt.Errorf("spend must be one of groceries, dining, travel, everything")
	}
	if !validFees[q.Fee] {
		return fmt.Errorf("fee must be one of no_fee, up_to_95, over_95_ok")
	}
	if creditRank[q.Credit] == 0 {
		return fmt.Errorf("credit must be one of excellent, good, fair, building")
	}
	return nil
}

// creditRank orders tiers for eligibility: a user may only see cards whose
// minimum tier ranks at or below their own.
var creditRank = map[string]int{
	model.TierBuilding:  1,
	model.TierFair:      2,
	model.TierGood:      3,
	model.TierExcellent: 4,
}

var goalRewardTypes = map[string][]string{
	"cashback":    {model.RewardCashback},
	"travel":      {model.RewardPoints, model.RewardMiles},
	"flexibility": {model.RewardCashback, model.RewardPoints, model.RewardMiles},
}

func scoreCard(card *model.CardRecord, input QuizRequest) int {
	score := 0

	if !contains(goalRewardTypes[input.Goal], card.RewardType) {
		score--
	} else if input.Goal == "flexibility" {
		// Any reward type qualifies under flexibility, so alignment is
		// rewarded less steeply.
		score += 2
	} else {
		score += 3
	}

	if hasCategory(card.TopCategories, input.Spend) || hasCategory(card.TopCategories, model.CategoryAll) {
		score += 2
	}

	switch input.Fee {
	case "no_fee":
		if card.AnnualFee == 0 {
			score += 2
		} else {
			score -= 2
		}
	case "up_to_95":
		if card.AnnualFee <= 95 {
			score += 2
		} else {
			score--
		}
	default: // over_95_ok
		if card.AnnualFee > 95 {
			score++
		}
	}

	return score
}

// RankQuizResults filters by credit eligibility, scores each eligible card,
// and returns the top three by score. The sort is stable so equal scores
// keep the input ordering and identical inputs always produce identical
// output. An empty eligible set yields an empty result.
func RankQuizResults(cards []model.CardRecord, input QuizRequest) []model.ScoredCard {
	userRank := creditRank[input.Credit]

	scored := make([]model.ScoredCard, 0, len(cards))
	for i := range cards {
		if creditRank[cards[i].CreditTierMin] > userRank {
			continue
		}
		scored = append(scored, model.ScoredCard{
			CardRecord: cards[i],
			Score:      scoreCard(&cards[i], input),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	return scored
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
