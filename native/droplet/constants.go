package droplet

// Protocol constants shared by the loan, fee and bucket packages. These are
// fixed by the droplet economics and must not be made configurable: changing
// any of them alters the value backing every outstanding droplet.
const (
	// UnitsPerDroplet is the number of base units one droplet divides into.
	UnitsPerDroplet uint64 = 100_000_000

	// DropletsPerItem is the number of droplets minted per deposited item.
	DropletsPerItem uint64 = 100

	// FullItemValue is the droplet value of one item in base units.
	FullItemValue = DropletsPerItem * UnitsPerDroplet

	// MaxInterestScaler bounds the per-bucket interest scaler.
	MaxInterestScaler uint8 = 100

	// LiquidationRewardPercent is the liquidator's cut of the minted
	// deficit, expressed as a percentage scaled by DropletsPerItem.
	LiquidationRewardPercent uint64 = 20

	// RedeemFeeBps is the flat redemption fee in basis points.
	RedeemFeeBps uint64 = 200

	// SwapFeeBps is the discounted swap fee in basis points.
	SwapFeeBps uint64 = 50

	// DistributorFeeBps is the distributor's share of every collected fee
	// in basis points; the remainder goes to the treasury.
	DistributorFeeBps uint64 = 1000

	// BpsDenominator is the basis point scale used by every split.
	BpsDenominator uint64 = 10_000
)
