package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CardRow is a card as stored in Postgres. Enum columns keep the database's
// upper-case encoding; numeric columns stay decimals until the reconciler
// converts them, so NULL and 0 remain distinguishable.
type CardRow struct {
	ID              int
	Slug            string
	Issuer          string
	Name            string
	CardType        string
	Network         sql.NullString
	Description     sql.NullString
	LongDescription sql.NullString
	AnnualFee       decimal.Decimal
	IntroApr        sql.NullString
	RegularAprMin   decimal.NullDecimal
	RegularAprMax   decimal.NullDecimal
	CreditScoreMin  string
	ForeignTxFee    decimal.Decimal
	EditorRating    decimal.NullDecimal
	Pros            pq.StringArray
	Cons            pq.StringArray
	ImageURL        sql.NullString
	ApplyURL        sql.NullString
	AffiliateURL    sql.NullString
	IsActive        bool
	LastVerified    time.Time
	Rewards         []RewardRow
}

type RewardRow struct {
	ID              int
	CardID          int
	Category        string
	Rate            decimal.Decimal
	RateType        string
	CapAmount       decimal.NullDecimal
	CapPeriod       sql.NullString
	IsRotating      bool
	RotationQuarter sql.NullInt64
	Notes           sql.NullString
}

type SignUpBonusRow struct {
	ID              int
	CardID          int
	BonusValue      decimal.Decimal
	BonusType       string
	BonusPoints     sql.NullInt64
	SpendRequired   decimal.Decimal
	SpendPeriodDays int
	IsCurrentOffer  bool
	ExpiresAt       sql.NullTime
}

type BenefitRow struct {
	ID               int
	CardID           int
	Category         string
	Name             string
	Description      string
	EstimatedValue   decimal.NullDecimal
	ActivationMethod sql.NullString
	FinePrint        sql.NullString
}

type TransferPartnerRow struct {
	ID              int
	CardID          int
	PartnerName     string
	PartnerType     string
	TransferRatio   decimal.Decimal
	BonusMultiplier decimal.NullDecimal
	BonusExpiresAt  sql.NullTime
}

// CardDetailRow is a card with all four child collections loaded.
type CardDetailRow struct {
	CardRow
	SignUpBonuses    []SignUpBonusRow
	Benefits         []BenefitRow
	TransferPartners []TransferPartnerRow
}

// CardStore handles database operations for cards and their child tables.
type CardStore struct {
	db *sql.DB
}

// NewCardStore creates a new CardStore.
func NewCardStore(db *sql.DB) *CardStore {
	return &CardStore{db: db}
}

const cardColumns = `
	id, slug, issuer, name, card_type, network, description, long_description,
	annual_fee, intro_apr, regular_apr_min, regular_apr_max, credit_score_min,
	foreign_tx_fee, editor_rating, pros, cons, image_url, apply_url,
	affiliate_url, is_active, last_verified
`

func scanCard(row interface{ Scan(...any) error }, c *CardRow) error {
	return row.Scan(
		&c.ID,
		&c.Slug,
		&c.Issuer,
		&c.Name,
		&c.CardType,
		&c.Network,
		&c.Description,
		&c.LongDescription,
		&c.AnnualFee,
		&c.IntroApr,
		&c.RegularAprMin,
		&c.RegularAprMax,
		&c.CreditScoreMin,
		&c.ForeignTxFee,
		&c.EditorRating,
		&c.Pros,
		&c.Cons,
		&c.ImageURL,
		&c.ApplyURL,
		&c.AffiliateURL,
		&c.IsActive,
		&c.LastVerified,
	)
}

// GetAllActive retrieves all active cards with their reward rows, ordered by
// issuer then name so the canonical list is deterministic regardless of
// insertion order.
func (s *CardStore) GetAllActive(ctx context.Context) ([]CardRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM cards
		WHERE is_active = TRUE
		ORDER BY issuer, name
	`, cardColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	defer rows.Close()

	var cards []CardRow
	for rows.Next() {
		var c CardRow
		if err := scanCard(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cards) == 0 {
		return cards, nil
	}

	ids := make([]int64, len(cards))
	index := make(map[int]int, len(cards))
	for i := range cards {
		ids[i] = int64(cards[i].ID)
		index[cards[i].ID] = i
	}

	rewards, err := s.getRewardsForCards(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range rewards {
		i := index[r.CardID]
		cards[i].Rewards = append(cards[i].Rewards, r)
	}

	return cards, nil
}

func (s *CardStore) getRewardsForCards(ctx context.Context, cardIDs []int64) ([]RewardRow, error) {
	query := `
		SELECT id, card_id, category, rate, rate_type, cap_amount, cap_period,
		       is_rotating, rotation_quarter, notes
		FROM reward_structures
		WHERE card_id = ANY($1)
		ORDER BY card_id, id
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(cardIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get rewards: %w", err)
	}
	defer rows.Close()

	var rewards []RewardRow
	for rows.Next() {
		var r RewardRow
		err := rows.Scan(
			&r.ID,
			&r.CardID,
			&r.Category,
			&r.Rate,
			&r.RateType,
			&r.CapAmount,
			&r.CapPeriod,
			&r.IsRotating,
			&r.RotationQuarter,
			&r.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, r)
	}

	return rewards, rows.Err()
}

// GetBySlug retrieves one active card with all child collections. Returns
// (nil, nil) when no active card has the slug.
func (s *CardStore) GetBySlug(ctx context.Context, slug string) (*CardDetailRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM cards
		WHERE slug = $1 AND is_active = TRUE
	`, cardColumns)

	var detail CardDetailRow
	err := scanCard(s.db.QueryRowContext(ctx, query, slug), &detail.CardRow)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", slug, err)
	}

	rewards, err := s.getRewardsForCards(ctx, []int64{int64(detail.ID)})
	if err != nil {
		return nil, err
	}
	detail.Rewards = rewards

	if detail.SignUpBonuses, err = s.getSignUpBonuses(ctx, detail.ID); err != nil {
		return nil, err
	}
	if detail.Benefits, err = s.getBenefits(ctx, detail.ID); err != nil {
		return nil, err
	}
	if detail.TransferPartners, err = s.getTransferPartners(ctx, detail.ID); err != nil {
		return nil, err
	}

	return &detail, nil
}

func (s *CardStore) getSignUpBonuses(ctx context.Context, cardID int) ([]SignUpBonusRow, error) {
	query := `
		SELECT id, card_id, bonus_value, bonus_type, bonus_points, spend_required,
		       spend_period_days, is_current_offer, expires_at
		FROM sign_up_bonuses
		WHERE card_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sign-up bonuses: %w", err)
	}
	defer rows.Close()

	var bonuses []SignUpBonusRow
	for rows.Next() {
		var b SignUpBonusRow
		err := rows.Scan(
			&b.ID,
			&b.CardID,
			&b.BonusValue,
			&b.BonusType,
			&b.BonusPoints,
			&b.SpendRequired,
			&b.SpendPeriodDays,
			&b.IsCurrentOffer,
			&b.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sign-up bonus: %w", err)
		}
		bonuses = append(bonuses, b)
	}

	return bonuses, rows.Err()
}

func (s *CardStore) getBenefits(ctx context.Context, cardID int) ([]BenefitRow, error) {
	query := `
		SELECT id, card_id, category, name, description, estimated_value,
		       activation_method, fine_print
		FROM benefits
		WHERE card_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get benefits: %w", err)
	}
	defer rows.Close()

	var benefits []BenefitRow
	for rows.Next() {
		var b BenefitRow
		err := rows.Scan(
			&b.ID,
			&b.CardID,
			&b.Category,
			&b.Name,
			&b.Description,
			&b.EstimatedValue,
			&b.ActivationMethod,
			&b.FinePrint,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan benefit: %w", err)
		}
		benefits = append(benefits, b)
	}

	return benefits, rows.Err()
}

func (s *CardStore) getTransferPartners(ctx context.Context, cardID int) ([]TransferPartnerRow, error) {
	query := `
		SELECT id, card_id, partner_name, partner_type, transfer_ratio,
		       bonus_multiplier, bonus_expires_at
		FROM transfer_partners
		WHERE card_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer partners: %w", err)
	}
	defer rows.Close()

	var partners []TransferPartnerRow
	for rows.Next() {
		var p TransferPartnerRow
		err := rows.Scan(
			&p.ID,
			&p.CardID,
			&p.PartnerName,
			&p.PartnerType,
			&p.TransferRatio,
			&p.BonusMultiplier,
			&p.BonusExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer partner: %w", err)
		}
		partners = append(partners, p)
	}

	return partners, rows.Err()
}

// GetActiveSlugs retrieves the slugs of all active cards.
func (s *CardStore) GetActiveSlugs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug FROM cards WHERE is_active = TRUE ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to get slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}

	return slugs, rows.Err()
}

// UpsertCard inserts or updates a card by slug and fills in its ID.
func (s *CardStore) UpsertCard(ctx context.Context, c *CardRow) error {
	query := `
		INSERT INTO cards (slug, issuer, name, card_type, network, description,
		                   long_description, annual_fee, intro_apr, regular_apr_min,
		                   regular_apr_max, credit_score_min, foreign_tx_fee,
		                   editor_rating, pros, cons, image_url, apply_url,
		                   affiliate_url, is_active, last_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21)
		ON CONFLICT (slug) DO UPDATE SET
			issuer = EXCLUDED.issuer,
			name = EXCLUDED.name,
			card_type = EXCLUDED.card_type,
			network = EXCLUDED.network,
			description = EXCLUDED.description,
			long_description = EXCLUDED.long_description,
			annual_fee = EXCLUDED.annual_fee,
			intro_apr = EXCLUDED.intro_apr,
			regular_apr_min = EXCLUDED.regular_apr_min,
			regular_apr_max = EXCLUDED.regular_apr_max,
			credit_score_min = EXCLUDED.credit_score_min,
			foreign_tx_fee = EXCLUDED.foreign_tx_fee,
			editor_rating = EXCLUDED.editor_rating,
			pros = EXCLUDED.pros,
			cons = EXCLUDED.cons,
			image_url = EXCLUDED.image_url,
			apply_url = EXCLUDED.apply_url,
			affiliate_url = EXCLUDED.affiliate_url,
			is_active = EXCLUDED.is_active,
			last_verified = EXCLUDED.last_verified
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Slug,
		c.Issuer,
		c.Name,
		c.CardType,
		c.Network,
		c.Description,
		c.LongDescription,
		c.AnnualFee,
		c.IntroApr,
		c.RegularAprMin,
		c.RegularAprMax,
		c.CreditScoreMin,
		c.ForeignTxFee,
		c.EditorRating,
		c.Pros,
		c.Cons,
		c.ImageURL,
		c.ApplyURL,
		c.AffiliateURL,
		c.IsActive,
		c.LastVerified,
	).Scan(&c.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert card %s: %w", c.Slug, err)
	}

	return nil
}

// ReplaceRewards deletes a card's reward rows and inserts the given set.
func (s *CardStore) ReplaceRewards(ctx context.Context, cardID int, rewards []RewardRow) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reward_structures WHERE card_id = $1`, cardID); err != nil {
		return fmt.Errorf("failed to clear rewards for card %d: %w", cardID, err)
	}

	query := `
		INSERT INTO reward_structures (card_id, category, rate, rate_type, cap_amount,
		                               cap_period, is_rotating, rotation_quarter, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, r := range rewards {
		_, err := s.db.ExecContext(ctx, query,
			cardID, r.Category, r.Rate, r.RateType, r.CapAmount, r.CapPeriod,
			r.IsRotating, r.RotationQuarter, r.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reward for card %d: %w", cardID, err)
		}
	}

	return nil
}

// ReplaceSignUpBonuses deletes a card's bonus rows and inserts the given set.
func (s *CardStore) ReplaceSignUpBonuses(ctx context.Context, cardID int, bonuses []SignUpBonusRow) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sign_up_bonuses WHERE card_id = $1`, cardID); err != nil {
		return fmt.Errorf("failed to clear bonuses for card %d: %w", cardID, err)
	}

	query := `
		INSERT INTO sign_up_bonuses (card_id, bonus_value, bonus_type, bonus_points,
		                             spend_required, spend_period_days, is_current_offer, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, b := range bonuses {
		_, err := s.db.ExecContext(ctx, query,
			cardID, b.BonusValue, b.BonusType, b.BonusPoints, b.SpendRequired,
			b.SpendPeriodDays, b.IsCurrentOffer, b.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bonus for card %d: %w", cardID, err)
		}
	}

	return nil
}

// ReplaceBenefits deletes a card's benefit rows and inserts the given set.
func (s *CardStore) ReplaceBenefits(ctx context.Context, cardID int, benefits []BenefitRow) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM benefits WHERE card_id = $1`, cardID); err != nil {
		return fmt.Errorf("failed to clear benefits for card %d: %w", cardID, err)
	}

	query := `
		INSERT INTO benefits (card_id, category, name, description, estimated_value,
		                      activation_method, fine_print)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, b := range benefits {
		_, err := s.db.ExecContext(ctx, query,
			cardID, b.Category, b.Name, b.Description, b.EstimatedValue,
			b.ActivationMethod, b.FinePrint,
		)
		if err != nil {
			return fmt.Errorf("failed to insert benefit for card %d: %w", cardID, err)
		}
	}

	return nil
}

// ReplaceTransferPartners deletes a card's partner rows and inserts the given set.
func (s *CardStore) ReplaceTransferPartners(ctx context.Context, cardID int, partners []TransferPartnerRow) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transfer_partners WHERE card_id = $1`, cardID); err != nil {
		return fmt.Errorf("failed to clear transfer partners for card %d: %w", cardID, err)
	}

	query := `
		INSERT INTO transfer_partners (card_id, partner_name, partner_type,
		                               transfer_ratio, bonus_multiplier, bonus_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, p := range partners {
		_, err := s.db.ExecContext(ctx, query,
			cardID, p.PartnerName, p.PartnerType, p.TransferRatio,
			p.BonusMultiplier, p.BonusExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transfer partner for card %d: %w", cardID, err)
		}
	}

	return nil
}

// CountActive returns the number of active cards.
func (s *CardStore) CountActive(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}
