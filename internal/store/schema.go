package store

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates the card tables if they do not exist. The enum columns
// store the database encoding (upper-case codes); translation to the
// canonical encoding happens in the reconciler.
func InitSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id SERIAL PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			issuer TEXT NOT NULL,
			name TEXT NOT NULL,
			card_type TEXT NOT NULL DEFAULT 'PERSONAL',
			network TEXT,
			description TEXT,
			long_description TEXT,
			annual_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			intro_apr TEXT,
			regular_apr_min NUMERIC(5,2),
			regular_apr_max NUMERIC(5,2),
			credit_score_min TEXT NOT NULL,
			foreign_tx_fee NUMERIC(5,2) NOT NULL DEFAULT 0,
			editor_rating NUMERIC(3,1),
			pros TEXT[] NOT NULL DEFAULT '{}',
			cons TEXT[] NOT NULL DEFAULT '{}',
			image_url TEXT,
			apply_url TEXT,
			affiliate_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_verified TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reward_structures (
			id SERIAL PRIMARY KEY,
			card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			rate NUMERIC(5,2) NOT NULL,
			rate_type TEXT NOT NULL,
			cap_amount NUMERIC(10,2),
			cap_period TEXT,
			is_rotating BOOLEAN NOT NULL DEFAULT FALSE,
			rotation_quarter INTEGER,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sign_up_bonuses (
			id SERIAL PRIMARY KEY,
			card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
			bonus_value NUMERIC(10,2) NOT NULL,
			bonus_type TEXT NOT NULL,
			bonus_points INTEGER,
			spend_required NUMERIC(10,2) NOT NULL,
			spend_period_days INTEGER NOT NULL,
			is_current_offer BOOLEAN NOT NULL DEFAULT TRUE,
			expires_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS benefits (
			id SERIAL PRIMARY KEY,
			card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			estimated_value NUMERIC(10,2),
			activation_method TEXT,
			fine_print TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS transfer_partners (
			id SERIAL PRIMARY KEY,
			card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
			partner_name TEXT NOT NULL,
			partner_type TEXT NOT NULL,
			transfer_ratio NUMERIC(5,2) NOT NULL DEFAULT 1,
			bonus_multiplier NUMERIC(5,2),
			bonus_expires_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_active ON cards(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_rewards_card ON reward_structures(card_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}
