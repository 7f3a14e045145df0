package cmd

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cardwise/cardwise/internal/seed"
	"github.com/cardwise/cardwise/internal/service"
	"github.com/cardwise/cardwise/internal/store"
)

var seedPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the card catalog into Postgres",
	Long: `Seed validates the card catalog and upserts it into PostgreSQL.

Each card is upserted by slug; its reward, bonus, benefit and transfer
partner rows are replaced wholesale so the database mirrors the catalog.

Examples:
  # Seed from the embedded catalog
  ./cardwise seed

  # Seed from a catalog on disk
  ./cardwise seed --file content/cards.json`,
	Run: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "", "Path to a seed catalog (default: embedded)")
}

func runSeed(cmd *cobra.Command, args []string) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	var cards []seed.Card
	var err error
	if seedPath != "" {
		cards, err = seed.Load(seedPath)
	} else {
		cards, err = seed.LoadEmbedded()
	}
	if err != nil {
		log.Fatalf("Seed catalog invalid: %v", err)
	}

	log.Println("Connecting to database...")
	db, err := store.NewDB(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := store.InitSchema(ctx, db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	cardStore := store.NewCardStore(db)

	imported, failed := 0, 0
	for i := range cards {
		if ctx.Err() != nil {
			log.Println("Seed cancelled")
			os.Exit(1)
		}
		if err := seedCard(ctx, cardStore, &cards[i]); err != nil {
			log.Printf("Failed to seed %s: %v", cards[i].Slug, err)
			failed++
			continue
		}
		imported++
	}

	log.Println("")
	log.Println("=== Seed Summary ===")
	log.Printf("Imported: %d", imported)
	log.Printf("Failed:   %d", failed)
	if count, err := cardStore.CountActive(ctx); err == nil {
		log.Printf("Active:   %d", count)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func seedCard(ctx context.Context, cardStore *store.CardStore, c *seed.Card) error {
	row := store.CardRow{
		Slug:            c.Slug,
		Issuer:          c.Issuer,
		Name:            c.Name,
		CardType:        service.CardTypeToDB(c.CardType),
		Description:     toNullString(c.Description),
		LongDescription: toNullString(c.LongDescription),
		AnnualFee:       decimal.NewFromFloat(c.AnnualFee),
		IntroApr:        toNullString(c.IntroApr),
		RegularAprMin:   toNullDecimal(c.RegularAprMin),
		RegularAprMax:   toNullDecimal(c.RegularAprMax),
		CreditScoreMin:  service.CreditTierToDB(c.CreditTierMin),
		ForeignTxFee:    decimal.NewFromFloat(floatOrZero(c.ForeignTxFee)),
		EditorRating:    toNullDecimal(c.EditorRating),
		Pros:            pq.StringArray(sliceOrEmpty(c.Pros)),
		Cons:            pq.StringArray(sliceOrEmpty(c.Cons)),
		ImageURL:        toNullString(c.ImageURL),
		ApplyURL:        toNullString(c.ApplyURL),
		AffiliateURL:    toNullString(c.AffiliateURL),
		IsActive:        c.IsActive == nil || *c.IsActive,
		LastVerified:    parsedTimeOrNow(c.LastVerified),
	}
	if network, ok := service.NetworkToDB(c.Network); ok {
		row.Network = sql.NullString{String: network, Valid: true}
	}

	if err := cardStore.UpsertCard(ctx, &row); err != nil {
		return err
	}

	rewards := make([]store.RewardRow, 0, len(c.Rewards))
	for _, r := range c.Rewards {
		rewards = append(rewards, store.RewardRow{
			Category:        service.SpendingCategoryToDB(r.Category),
			Rate:            decimal.NewFromFloat(floatOrZero(r.Rate)),
			RateType:        service.RateTypeToDB(r.RateType),
			CapAmount:       toNullDecimal(r.CapAmount),
			CapPeriod:       toNullString(r.CapPeriod),
			IsRotating:      r.IsRotating != nil && *r.IsRotating,
			RotationQuarter: toNullInt(r.RotationQuarter),
			Notes:           toNullString(r.Notes),
		})
	}
	if err := cardStore.ReplaceRewards(ctx, row.ID, rewards); err != nil {
		return err
	}

	bonuses := make([]store.SignUpBonusRow, 0, len(c.SignUpBonuses))
	for _, b := range c.SignUpBonuses {
		bonuses = append(bonuses, store.SignUpBonusRow{
			BonusValue:      decimal.NewFromFloat(floatOrZero(b.BonusValue)),
			BonusType:       b.BonusType,
			BonusPoints:     toNullInt(b.BonusPoints),
			SpendRequired:   decimal.NewFromFloat(floatOrZero(b.SpendRequired)),
			SpendPeriodDays: b.SpendPeriodDays,
			IsCurrentOffer:  b.IsCurrentOffer == nil || *b.IsCurrentOffer,
			ExpiresAt:       toNullTime(b.ExpiresAt),
		})
	}
	if err := cardStore.ReplaceSignUpBonuses(ctx, row.ID, bonuses); err != nil {
		return err
	}

	benefits := make([]store.BenefitRow, 0, len(c.Benefits))
	for _, b := range c.Benefits {
		benefits = append(benefits, store.BenefitRow{
			Category:         service.BenefitCategoryToDB(b.Category),
			Name:             b.Name,
			Description:      b.Description,
			EstimatedValue:   toNullDecimal(b.EstimatedValue),
			ActivationMethod: toNullString(b.ActivationMethod),
			FinePrint:        toNullString(b.FinePrint),
		})
	}
	if err := cardStore.ReplaceBenefits(ctx, row.ID, benefits); err != nil {
		return err
	}

	partners := make([]store.TransferPartnerRow, 0, len(c.TransferPartners))
	for _, p := range c.TransferPartners {
		ratio := 1.0
		if p.TransferRatio != nil {
			ratio = *p.TransferRatio
		}
		partners = append(partners, store.TransferPartnerRow{
			PartnerName:     p.PartnerName,
			PartnerType:     service.PartnerTypeToDB(p.PartnerType),
			TransferRatio:   decimal.NewFromFloat(ratio),
			BonusMultiplier: toNullDecimal(p.BonusMultiplier),
			BonusExpiresAt:  toNullTime(p.BonusExpiresAt),
		})
	}
	return cardStore.ReplaceTransferPartners(ctx, row.ID, partners)
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func toNullDecimal(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(*f), Valid: true}
}

func toNullTime(value *string) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func parsedTimeOrNow(value *string) time.Time {
	if value != nil {
		if t, err := time.Parse(time.RFC3339, *value); err == nil {
			return t
		}
	}
	return time.Now()
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func sliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
