package model

// Canonical enum values. Sources encode these differently (the database
// uses upper-case codes); everything past the reconciler speaks these.
const (
	RewardCashback = "cashback"
	RewardPoints   = "points"
	RewardMiles    = "miles"

	TierBuilding  = "building"
	TierFair      = "fair"
	TierGood      = "good"
	TierExcellent = "excellent"

	CategoryAll = "all"
)

// CardRecord is the reconciled list-view projection of a card, merged from
// the database row and the seed overlay. Optional fields are pointers: nil
// means the source had no value, a non-nil zero means the source said zero.
type CardRecord struct {
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Issuer          string   `json:"issuer"`
	CardType        string   `json:"cardType"`
	RewardType      string   `json:"rewardType"`
	TopCategories   []string `json:"topCategories"`
	AnnualFee       float64  `json:"annualFee"`
	CreditTierMin   string   `json:"creditTierMin"`
	Headline        string   `json:"headline"`
	Description     *string  `json:"description,omitempty"`
	LongDescription *string  `json:"longDescription,omitempty"`
	EditorRating    *float64 `json:"editorRating,omitempty"`
	Pros            []string `json:"pros,omitempty"`
	Cons            []string `json:"cons,omitempty"`
}

// RewardDetail is one earning category of a card.
type RewardDetail struct {
	Category        string   `json:"category"`
	Rate            float64  `json:"rate"`
	RateType        string   `json:"rateType"`
	CapAmount       *float64 `json:"capAmount,omitempty"`
	CapPeriod       *string  `json:"capPeriod,omitempty"`
	IsRotating      *bool    `json:"isRotating,omitempty"`
	RotationQuarter *int     `json:"rotationQuarter,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

// SignUpBonusDetail is a welcome offer attached to a card.
type SignUpBonusDetail struct {
	BonusValue      float64 `json:"bonusValue"`
	BonusType       string  `json:"bonusType"`
	BonusPoints     *int    `json:"bonusPoints,omitempty"`
	SpendRequired   float64 `json:"spendRequired"`
	SpendPeriodDays int     `json:"spendPeriodDays"`
	IsCurrentOffer  *bool   `json:"isCurrentOffer,omitempty"`
}

// BenefitDetail is a cardholder perk with an optional dollar valuation.
type BenefitDetail struct {
	Category         string   `json:"category"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	EstimatedValue   *float64 `json:"estimatedValue,omitempty"`
	ActivationMethod *string  `json:"activationMethod,omitempty"`
}

// TransferPartnerDetail is a points transfer partner; ratio defaults to 1:1.
type TransferPartnerDetail struct {
	PartnerName   string  `json:"partnerName"`
	PartnerType   string  `json:"partnerType"`
	TransferRatio float64 `json:"transferRatio"`
}

// CardDetail extends CardRecord with pricing detail and the four owned
// child collections shown on a card's detail page.
type CardDetail struct {
	CardRecord
	Network          *string                 `json:"network,omitempty"`
	IntroApr         *string                 `json:"introApr,omitempty"`
	RegularAprMin    *float64                `json:"regularAprMin,omitempty"`
	RegularAprMax    *float64                `json:"regularAprMax,omitempty"`
	ForeignTxFee     float64                 `json:"foreignTxFee"`
	ApplyURL         *string                 `json:"applyUrl,omitempty"`
	Rewards          []RewardDetail          `json:"rewards"`
	SignUpBonuses    []SignUpBonusDetail     `json:"signUpBonuses"`
	Benefits         []BenefitDetail         `json:"benefits"`
	TransferPartners []TransferPartnerDetail `json:"transferPartners"`
}

// ScoredCard is a CardRecord annotated with its recommendation score.
type ScoredCard struct {
	CardRecord
	Score int `json:"score"`
}
