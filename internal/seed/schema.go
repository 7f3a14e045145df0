package seed

// Card is one record of the static seed catalog. The catalog doubles as the
// fallback data source and as an editorial overlay on top of database rows,
// so optional numerics are pointers: a JSON 0 must survive as 0 and a
// missing key must survive as nil.
type Card struct {
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Issuer          string   `json:"issuer"`
	CardType        *string  `json:"cardType,omitempty"`
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
	Network         *string  `json:"network,omitempty"`
	IntroApr        *string  `json:"introApr,omitempty"`
	RegularAprMin   *float64 `json:"regularAprMin,omitempty"`
	RegularAprMax   *float64 `json:"regularAprMax,omitempty"`
	ForeignTxFee    *float64 `json:"foreignTxFee,omitempty"`
	ImageURL        *string  `json:"imageUrl,omitempty"`
	ApplyURL        *string  `json:"applyUrl,omitempty"`
	AffiliateURL    *string  `json:"affiliateUrl,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
	LastVerified    *string  `json:"lastVerified,omitempty"`

	Rewards          []Reward          `json:"rewards,omitempty"`
	SignUpBonuses    []SignUpBonus     `json:"signUpBonuses,omitempty"`
	Benefits         []Benefit         `json:"benefits,omitempty"`
	TransferPartners []TransferPartner `json:"transferPartners,omitempty"`
}

type Reward struct {
	Category        string   `json:"category"`
	Rate            *float64 `json:"rate"`
	RateType        string   `json:"rateType"`
	CapAmount       *float64 `json:"capAmount,omitempty"`
	CapPeriod       *string  `json:"capPeriod,omitempty"`
	IsRotating      *bool    `json:"isRotating,omitempty"`
	RotationQuarter *int     `json:"rotationQuarter,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

type SignUpBonus struct {
	BonusValue      *float64 `json:"bonusValue"`
	BonusType       string   `json:"bonusType"`
	BonusPoints     *int     `json:"bonusPoints,omitempty"`
	SpendRequired   *float64 `json:"spendRequired"`
	SpendPeriodDays int      `json:"spendPeriodDays"`
	IsCurrentOffer  *bool    `json:"isCurrentOffer,omitempty"`
	ExpiresAt       *string  `json:"expiresAt,omitempty"`
}

type Benefit struct {
	Category         string   `json:"category"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	EstimatedValue   *float64 `json:"estimatedValue,omitempty"`
	ActivationMethod *string  `json:"activationMethod,omitempty"`
	FinePrint        *string  `json:"finePrint,omitempty"`
}

type TransferPartner struct {
	PartnerName     string   `json:"partnerName"`
	PartnerType     string   `json:"partnerType"`
	TransferRatio   *float64 `json:"transferRatio,omitempty"`
	BonusMultiplier *float64 `json:"bonusMultiplier,omitempty"`
	BonusExpiresAt  *string  `json:"bonusExpiresAt,omitempty"`
}
