package service

import (
	"testing"

	"github.com/cardwise/cardwise/internal/model"
)

func quizCard(slug, rewardType string, categories []string, fee float64, tier string) model.CardRecord {
	return model.CardRecord{
		Slug:          slug,
		Name:          slug,
		Issuer:        "Test Bank",
		CardType:      "personal",
		RewardType:    rewardType,
		TopCategories: categories,
		AnnualFee:     fee,
		CreditTierMin: tier,
	}
}

func TestQuizRequestValidate(t *testing.T) {
	valid := QuizRequest{Goal: "cashback", Spend: "dining", Fee: "no_fee", Credit: "good"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	cases := []QuizRequest{
		{Goal: "prestige", Spend: "dining", Fee: "no_fee", Credit: "good"},
		{Goal: "cashback", Spend: "rent", Fee: "no_fee", Credit: "good"},
		{Goal: "cashback", Spend: "dining", Fee: "free", Credit: "good"},
		{Goal: "cashback", Spend: "dining", Fee: "no_fee", Credit: "perfect"},
		{},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("expected validation error for %+v", c)
		}
	}
}

func TestScoreCardWeights(t *testing.T) {
	input := QuizRequest{Goal: "cashback", Spend: "dining", Fee: "no_fee", Credit: "good"}

	// Goal match +3, category match +2, no fee +2.
	a := quizCard("a", "cashback", []string{"dining"}, 0, model.TierGood)
	if got := scoreCard(&a, input); got != 7 {
		t.Errorf("expected score 7, got %d", got)
	}

	// Goal mismatch -1, no category, fee despite no_fee -2.
	b := quizCard("b", "miles", []string{"travel"}, 550, model.TierGood)
	if got := scoreCard(&b, input); got != -3 {
		t.Errorf("expected score -3, got %d", got)
	}
}

func TestScoreCardWildcardCategory(t *testing.T) {
	input := QuizRequest{Goal: "cashback", Spend: "groceries", Fee: "no_fee", Credit: "good"}
	card := quizCard("wild", "cashback", []string{"all"}, 0, model.TierGood)
	if got := scoreCard(&card, input); got != 7 {
		t.Errorf("wildcard category must count as a match, got %d", got)
	}
}

func TestScoreCardFlexibilityGoal(t *testing.T) {
	input := QuizRequest{Goal: "flexibility", Spend: "everything", Fee: "over_95_ok", Credit: "excellent"}

	// Every reward type aligns under flexibility, at the reduced +2.
	for _, rt := range []string{"cashback", "points", "miles"} {
		card := quizCard("flex-"+rt, rt, []string{"dining"}, 0, model.TierGood)
		if got := scoreCard(&card, input); got != 2 {
			t.Errorf("%s under flexibility: expected 2, got %d", rt, got)
		}
	}
}

func TestScoreCardFeeBands(t *testing.T) {
	card95 := quizCard("mid", "cashback", nil, 95, model.TierGood)
	card550 := quizCard("high", "cashback", nil, 550, model.TierGood)
	card0 := quizCard("free", "cashback", nil, 0, model.TierGood)

	base := QuizRequest{Goal: "cashback", Spend: "dining", Credit: "good"}

	base.Fee = "up_to_95"
	if got := scoreCard(&card95, base); got != 5 {
		t.Errorf("fee 95 under up_to_95: expected +2 on top of goal, got %d", got)
	}
	if got := scoreCard(&card550, base); got != 2 {
		t.Errorf("fee 550 under up_to_95: expected -1 on top of goal, got %d", got)
	}

	base.Fee = "over_95_ok"
	if got := scoreCard(&card550, base); got != 4 {
		t.Errorf("fee 550 under over_95_ok: expected +1 on top of goal, got %d", got)
	}
	if got := scoreCard(&card0, base); got != 3 {
		t.Errorf("fee 0 under over_95_ok: expected no fee adjustment, got %d", got)
	}
}

func TestRankQuizResultsEligibility(t *testing.T) {
	cards := []model.CardRecord{
		quizCard("building", "cashback", []string{"all"}, 0, model.TierBuilding),
		quizCard("fair", "cashback", []string{"all"}, 0, model.TierFair),
		quizCard("good", "cashback", []string{"all"}, 0, model.TierGood),
		quizCard("excellent", "miles", []string{"travel"}, 550, model.TierExcellent),
	}
	input := QuizRequest{Goal: "cashback", Spend: "everything", Fee: "no_fee", Credit: "fair"}

	results := RankQuizResults(cards, input)
	if len(results) != 2 {
		t.Fatalf("expected 2 eligible cards, got %d", len(results))
	}
	for _, r := range results {
		if r.CreditTierMin != model.TierBuilding && r.CreditTierMin != model.TierFair {
			t.Errorf("card %s should be filtered out for fair credit", r.Slug)
		}
	}
}

func TestRankQuizResultsOrderingAndTruncation(t *testing.T) {
	cards := []model.CardRecord{
		quizCard("low", "miles", []string{"travel"}, 550, model.TierGood),
		quizCard("tie-1", "cashback", []string{"dining"}, 0, model.TierGood),
		quizCard("tie-2", "cashback", []string{"dining"}, 0, model.TierGood),
		quizCard("mid", "cashback", nil, 0, model.TierGood),
		quizCard("also-mid", "cashback", []string{"travel"}, 0, model.TierGood),
	}
	input := QuizRequest{Goal: "cashback", Spend: "dining", Fee: "no_fee", Credit: "good"}

	results := RankQuizResults(cards, input)
	if len(results) != maxRecommendations {
		t.Fatalf("expected top %d, got %d", maxRecommendations, len(results))
	}
	if results[0].Slug != "tie-1" || results[1].Slug != "tie-2" {
		t.Errorf("equal scores must keep input order, got %s then %s", results[0].Slug, results[1].Slug)
	}
	if results[0].Score < results[1].Score || results[1].Score < results[2].Score {
		t.Errorf("results not in descending score order: %d, %d, %d",
			results[0].Score, results[1].Score, results[2].Score)
	}

	// Identical input, identical output.
	again := RankQuizResults(cards, input)
	for i := range results {
		if results[i].Slug != again[i].Slug {
			t.Fatalf("ranking is not deterministic at position %d: %s vs %s",
				i, results[i].Slug, again[i].Slug)
		}
	}
}

func TestRankQuizResultsEmpty(t *testing.T) {
	cards := []model.CardRecord{
		quizCard("premium", "miles", []string{"travel"}, 550, model.TierExcellent),
	}
	input := QuizRequest{Goal: "travel", Spend: "travel", Fee: "over_95_ok", Credit: "building"}

	results := RankQuizResults(cards, input)
	if len(results) != 0 {
		t.Fatalf("expected empty result set, got %d", len(results))
	}

	if got := RankQuizResults(nil, input); len(got) != 0 {
		t.Fatalf("expected empty result for empty catalog, got %d", len(got))
	}
}
