package bucket

import "errors"

// Engine errors. Validation and authorization failures are always surfaced
// before any balance-moving call is issued; arithmetic failures abort the
// whole transition.
var (
	errNilState    = errors.New("bucket engine: state not configured")
	errNilLedger   = errors.New("bucket engine: ledger not configured")
	errNilMetadata = errors.New("bucket engine: metadata source not configured")
	errNilFarm     = errors.New("bucket engine: farm not configured")

	// ErrBucketExists is returned when creating a bucket for a droplet
	// mint that already has one.
	ErrBucketExists = errors.New("bucket engine: bucket already exists")

	// ErrBucketNotFound is returned when the target bucket is unknown.
	ErrBucketNotFound = errors.New("bucket engine: bucket not found")

	// ErrBucketEmpty is returned when locking against a bucket that holds
	// no items.
	ErrBucketEmpty = errors.New("bucket engine: no items in bucket")

	// ErrDepositExists is returned when admitting an item that is already
	// held by the bucket.
	ErrDepositExists = errors.New("bucket engine: item already deposited")

	// ErrDepositNotFound is returned when redeeming an item the bucket
	// does not hold directly.
	ErrDepositNotFound = errors.New("bucket engine: no deposit for item")

	// ErrDepositNotAllowed is returned when a swap deposit arrives while
	// the caller still has an unconsumed swap eligibility. Plain deposits
	// stay open.
	ErrDepositNotAllowed = errors.New("bucket engine: close open swap before depositing")

	// ErrSwapNotAllowed is returned when a swap redemption is requested
	// without a prior deposit-for-swap.
	ErrSwapNotAllowed = errors.New("bucket engine: swap redemption not eligible")

	// ErrLockersDisabled is returned when the locking feature is off for
	// the bucket.
	ErrLockersDisabled = errors.New("bucket engine: lockers disabled")

	// ErrLockerExists is returned when locking an item that already
	// collateralizes an open loan.
	ErrLockerExists = errors.New("bucket engine: item already locked")

	// ErrLockerNotFound is returned when the target locker is unknown.
	ErrLockerNotFound = errors.New("bucket engine: locker not found")

	// ErrLockerExpired is returned when unlocking a locker past its term.
	ErrLockerExpired = errors.New("bucket engine: locker expired")

	// ErrLockerActive is returned when liquidating a locker still inside
	// its term.
	ErrLockerActive = errors.New("bucket engine: locker still active")

	// ErrLockerAccessUnauthorized is returned when anyone but the
	// depositor operates on a locker.
	ErrLockerAccessUnauthorized = errors.New("bucket engine: locker not owned by caller")

	// ErrLockerDurationInvalid is returned for zero durations or durations
	// beyond the bucket maximum.
	ErrLockerDurationInvalid = errors.New("bucket engine: locker duration invalid")

	// ErrInterestScalerInvalid is returned for interest scalers above the
	// protocol maximum.
	ErrInterestScalerInvalid = errors.New("bucket engine: interest scaler invalid")

	// ErrDropletsInsufficient is returned when the caller's droplet
	// balance cannot cover the required burn and fees.
	ErrDropletsInsufficient = errors.New("bucket engine: insufficient droplets")

	// ErrAdminAccessUnauthorized guards the administrative surface.
	ErrAdminAccessUnauthorized = errors.New("bucket engine: admin access unauthorized")

	// ErrStakingDisabled is returned when staking is off for the bucket.
	ErrStakingDisabled = errors.New("bucket engine: staking disabled")

	// ErrStakingParamsInvalid is returned when a staking configuration is
	// partially populated.
	ErrStakingParamsInvalid = errors.New("bucket engine: staking params invalid")

	// ErrRevenueDistributionInvalid is returned when a revenue
	// distribution cannot resolve every configured recipient.
	ErrRevenueDistributionInvalid = errors.New("bucket engine: revenue distribution params invalid")
)
