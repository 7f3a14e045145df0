package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise/internal/model"
	"github.com/cardwise/cardwise/internal/seed"
	"github.com/cardwise/cardwise/internal/store"
)

// Source marks which data source produced a canonical list.
type Source string

const (
	SourceDB   Source = "db"
	SourceJSON Source = "json"
)

// ErrNoSource is returned when neither the database nor the seed dataset can
// serve a request. It is the only unrecoverable reconciler condition;
// "not found" and "empty catalog" are normal results.
var ErrNoSource = errors.New("card data unavailable: no usable source")

// CardSource is the slice of the store the reconciler needs. A stub
// implementation stands in for Postgres in tests.
type CardSource interface {
	GetAllActive(ctx context.Context) ([]store.CardRow, error)
	GetBySlug(ctx context.Context, slug string) (*store.CardDetailRow, error)
	GetActiveSlugs(ctx context.Context) ([]string, error)
}

// Reconciler merges database rows with the seed catalog into the canonical
// card model. The database is authoritative for operational fields (fees,
// APRs, active flag); the seed overlay is authoritative for editorial fields
// (reward type, top categories, headline) when it has the slug.
//
// Every call rebuilds its result from the sources; nothing is cached or
// mutated, so concurrent calls are independent.
type Reconciler struct {
	source CardSource // nil when no database is configured
	seed   []seed.Card
	logger *zap.Logger
}

// NewReconciler builds a reconciler. source may be nil (no database
// configured); seedCards may be nil (seed dataset failed validation). At
// least one must be usable or every operation returns ErrNoSource.
func NewReconciler(source CardSource, seedCards []seed.Card, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{source: source, seed: seedCards, logger: logger}
}

// Cards returns the canonical list and the source that produced it.
// Precedence: database when configured and non-empty, otherwise the seed
// catalog. Database errors are logged and downgraded to the fallback; only
// the exhaustion of both sources is an error.
func (r *Reconciler) Cards(ctx context.Context) ([]model.CardRecord, Source, error) {
	if r.source != nil {
		rows, err := r.source.GetAllActive(ctx)
		switch {
		case err != nil:
			r.logger.Error("card query failed, falling back to seed catalog", zap.Error(err))
		case len(rows) > 0:
			overlay := r.seedBySlug()
			cards := make([]model.CardRecord, 0, len(rows))
			for i := range rows {
				cards = append(cards, r.recordFromRow(&rows[i], overlay[rows[i].Slug]))
			}
			return cards, SourceDB, nil
		}
	}

	if r.seed == nil {
		return nil, "", fmt.Errorf("%w: database unavailable and seed dataset invalid", ErrNoSource)
	}

	cards := make([]model.CardRecord, 0, len(r.seed))
	for i := range r.seed {
		cards = append(cards, recordFromSeed(&r.seed[i]))
	}
	return cards, SourceJSON, nil
}

// CardBySlug returns one reconciled card with child collections, or
// (nil, nil) when neither source has the slug.
func (r *Reconciler) CardBySlug(ctx context.Context, slug string) (*model.CardDetail, error) {
	if r.source != nil {
		row, err := r.source.GetBySlug(ctx, slug)
		if err != nil {
			r.logger.Error("card lookup failed, falling back to seed catalog",
				zap.String("slug", slug), zap.Error(err))
		} else if row != nil {
			detail := r.detailFromRow(row, r.seedBySlug()[slug])
			return &detail, nil
		}
	}

	for i := range r.seed {
		if r.seed[i].Slug == slug {
			detail := detailFromSeed(&r.seed[i])
			return &detail, nil
		}
	}

	return nil, nil
}

// Slugs returns every active slug, preferring the database.
func (r *Reconciler) Slugs(ctx context.Context) ([]string, error) {
	if r.source != nil {
		slugs, err := r.source.GetActiveSlugs(ctx)
		if err != nil {
			r.logger.Error("slug query failed, falling back to seed catalog", zap.Error(err))
		} else if len(slugs) > 0 {
			return slugs, nil
		}
	}

	slugs := make([]string, 0, len(r.seed))
	for i := range r.seed {
		slugs = append(slugs, r.seed[i].Slug)
	}
	return slugs, nil
}

// DatabaseConfigured reports whether a database source is wired in.
func (r *Reconciler) DatabaseConfigured() bool { return r.source != nil }

// SeedAvailable reports whether the seed overlay validated at startup.
func (r *Reconciler) SeedAvailable() bool { return r.seed != nil }

func (r *Reconciler) seedBySlug() map[string]*seed.Card {
	if len(r.seed) == 0 {
		return nil
	}
	m := make(map[string]*seed.Card, len(r.seed))
	for i := range r.seed {
		m[r.seed[i].Slug] = &r.seed[i]
	}
	return m
}

// recordFromRow applies the field precedence rules: operational fields from
// the row, editorial fields from the seed overlay when present, derived
// from the row otherwise.
func (r *Reconciler) recordFromRow(row *store.CardRow, overlay *seed.Card) model.CardRecord {
	annualFee, _ := row.AnnualFee.Float64()

	rewardType := model.RewardCashback
	if len(row.Rewards) > 0 {
		rewardType = translateRateType(row.Rewards[0].RateType, r.logger)
	}
	if overlay != nil {
		rewardType = overlay.RewardType
	}

	var topCategories []string
	if overlay != nil {
		topCategories = overlay.TopCategories
	} else if len(row.Rewards) > 0 {
		seen := make(map[string]bool, len(row.Rewards))
		for i := range row.Rewards {
			category := translateSpendingCategory(row.Rewards[i].Category, r.logger)
			if !seen[category] {
				seen[category] = true
				topCategories = append(topCategories, category)
			}
		}
	} else {
		topCategories = []string{model.CategoryAll}
	}

	headline := ""
	if overlay != nil {
		headline = overlay.Headline
	}
	if headline == "" {
		headline = fmt.Sprintf("%s by %s", row.Name, row.Issuer)
		if annualFee == 0 {
			headline += " with no annual fee"
		}
	}

	return model.CardRecord{
		Slug:            row.Slug,
		Name:            row.Name,
		Issuer:          row.Issuer,
		CardType:        translateCardType(row.CardType, r.logger),
		RewardType:      rewardType,
		TopCategories:   topCategories,
		AnnualFee:       annualFee,
		CreditTierMin:   translateCreditTier(row.CreditScoreMin, r.logger),
		Headline:        headline,
		Description:     nullStringPtr(row.Description),
		LongDescription: nullStringPtr(row.LongDescription),
		EditorRating:    nullDecimalPtr(row.EditorRating),
		Pros:            stringSlice(row.Pros),
		Cons:            stringSlice(row.Cons),
	}
}

func (r *Reconciler) detailFromRow(row *store.CardDetailRow, overlay *seed.Card) model.CardDetail {
	foreignTxFee, _ := row.ForeignTxFee.Float64()

	detail := model.CardDetail{
		CardRecord:    r.recordFromRow(&row.CardRow, overlay),
		IntroApr:      nullStringPtr(row.IntroApr),
		RegularAprMin: nullDecimalPtr(row.RegularAprMin),
		RegularAprMax: nullDecimalPtr(row.RegularAprMax),
		ForeignTxFee:  foreignTxFee,
		ApplyURL:      nullStringPtr(row.ApplyURL),
	}

	if row.Network.Valid {
		network := translateNetwork(row.Network.String, r.logger)
		detail.Network = &network
	}

	detail.Rewards = make([]model.RewardDetail, 0, len(row.Rewards))
	for i := range row.Rewards {
		rw := &row.Rewards[i]
		rate, _ := rw.Rate.Float64()
		isRotating := rw.IsRotating
		detail.Rewards = append(detail.Rewards, model.RewardDetail{
			Category:        translateSpendingCategory(rw.Category, r.logger),
			Rate:            rate,
			RateType:        translateRateType(rw.RateType, r.logger),
			CapAmount:       nullDecimalPtr(rw.CapAmount),
			CapPeriod:       nullStringPtr(rw.CapPeriod),
			IsRotating:      &isRotating,
			RotationQuarter: nullIntPtr(rw.RotationQuarter),
			Notes:           nullStringPtr(rw.Notes),
		})
	}

	detail.SignUpBonuses = make([]model.SignUpBonusDetail, 0, len(row.SignUpBonuses))
	for i := range row.SignUpBonuses {
		b := &row.SignUpBonuses[i]
		bonusValue, _ := b.BonusValue.Float64()
		spendRequired, _ := b.SpendRequired.Float64()
		isCurrent := b.IsCurrentOffer
		detail.SignUpBonuses = append(detail.SignUpBonuses, model.SignUpBonusDetail{
			BonusValue:      bonusValue,
			BonusType:       b.BonusType,
			BonusPoints:     nullIntPtr(b.BonusPoints),
			SpendRequired:   spendRequired,
			SpendPeriodDays: b.SpendPeriodDays,
			IsCurrentOffer:  &isCurrent,
		})
	}

	detail.Benefits = make([]model.BenefitDetail, 0, len(row.Benefits))
	for i := range row.Benefits {
		b := &row.Benefits[i]
		detail.Benefits = append(detail.Benefits, model.BenefitDetail{
			Category:         translateBenefitCategory(b.Category),
			Name:             b.Name,
			Description:      b.Description,
			EstimatedValue:   nullDecimalPtr(b.EstimatedValue),
			ActivationMethod: nullStringPtr(b.ActivationMethod),
		})
	}

	detail.TransferPartners = make([]model.TransferPartnerDetail, 0, len(row.TransferPartners))
	for i := range row.TransferPartners {
		p := &row.TransferPartners[i]
		ratio, _ := p.TransferRatio.Float64()
		detail.TransferPartners = append(detail.TransferPartners, model.TransferPartnerDetail{
			PartnerName:   p.PartnerName,
			PartnerType:   translatePartnerType(p.PartnerType),
			TransferRatio: ratio,
		})
	}

	return detail
}

func recordFromSeed(c *seed.Card) model.CardRecord {
	cardType := "personal"
	if c.CardType != nil {
		cardType = *c.CardType
	}

	return model.CardRecord{
		Slug:            c.Slug,
		Name:            c.Name,
		Issuer:          c.Issuer,
		CardType:        cardType,
		RewardType:      c.RewardType,
		TopCategories:   c.TopCategories,
		AnnualFee:       c.AnnualFee,
		CreditTierMin:   c.CreditTierMin,
		Headline:        c.Headline,
		Description:     c.Description,
		LongDescription: c.LongDescription,
		EditorRating:    c.EditorRating,
		Pros:            c.Pros,
		Cons:            c.Cons,
	}
}

func detailFromSeed(c *seed.Card) model.CardDetail {
	foreignTxFee := 0.0
	if c.ForeignTxFee != nil {
		foreignTxFee = *c.ForeignTxFee
	}

	detail := model.CardDetail{
		CardRecord:    recordFromSeed(c),
		Network:       c.Network,
		IntroApr:      c.IntroApr,
		RegularAprMin: c.RegularAprMin,
		RegularAprMax: c.RegularAprMax,
		ForeignTxFee:  foreignTxFee,
		ApplyURL:      c.ApplyURL,
	}

	detail.Rewards = make([]model.RewardDetail, 0, len(c.Rewards))
	for i := range c.Rewards {
		rw := &c.Rewards[i]
		rate := 0.0
		if rw.Rate != nil {
			rate = *rw.Rate
		}
		detail.Rewards = append(detail.Rewards, model.RewardDetail{
			Category:        rw.Category,
			Rate:            rate,
			RateType:        rw.RateType,
			CapAmount:       rw.CapAmount,
			CapPeriod:       rw.CapPeriod,
			IsRotating:      rw.IsRotating,
			RotationQuarter: rw.RotationQuarter,
			Notes:           rw.Notes,
		})
	}

	detail.SignUpBonuses = make([]model.SignUpBonusDetail, 0, len(c.SignUpBonuses))
	for i := range c.SignUpBonuses {
		b := &c.SignUpBonuses[i]
		bonusValue, spendRequired := 0.0, 0.0
		if b.BonusValue != nil {
			bonusValue = *b.BonusValue
		}
		if b.SpendRequired != nil {
			spendRequired = *b.SpendRequired
		}
		detail.SignUpBonuses = append(detail.SignUpBonuses, model.SignUpBonusDetail{
			BonusValue:      bonusValue,
			BonusType:       b.BonusType,
			BonusPoints:     b.BonusPoints,
			SpendRequired:   spendRequired,
			SpendPeriodDays: b.SpendPeriodDays,
			IsCurrentOffer:  b.IsCurrentOffer,
		})
	}

	detail.Benefits = make([]model.BenefitDetail, 0, len(c.Benefits))
	for i := range c.Benefits {
		b := &c.Benefits[i]
		detail.Benefits = append(detail.Benefits, model.BenefitDetail{
			Category:         b.Category,
			Name:             b.Name,
			Description:      b.Description,
			EstimatedValue:   b.EstimatedValue,
			ActivationMethod: b.ActivationMethod,
		})
	}

	detail.TransferPartners = make([]model.TransferPartnerDetail, 0, len(c.TransferPartners))
	for i := range c.TransferPartners {
		p := &c.TransferPartners[i]
		ratio := 1.0
		if p.TransferRatio != nil {
			ratio = *p.TransferRatio
		}
		detail.TransferPartners = append(detail.TransferPartners, model.TransferPartnerDetail{
			PartnerName:   p.PartnerName,
			PartnerType:   p.PartnerType,
			TransferRatio: ratio,
		})
	}

	return detail
}

// nullDecimalPtr converts a nullable decimal to an optional float. NULL maps
// to nil and a present zero maps to a pointer to 0; collapsing one into the
// other is the data-integrity bug this whole layer exists to avoid.
func nullDecimalPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return &f
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func stringSlice(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
