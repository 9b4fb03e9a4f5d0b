package game

// Rules and reach for a 1-on-1 match. Distances in meters.
const (
	GrabRadius        = 1.1
	GrabHeadroom      = 0.6 // reach above the head
	StealRadius       = 1.3
	PickupCooldown    = 0.5 // seconds after any change of possession
	HandHeight        = 1.35
	HandReach         = 0.45
	MinShotSpeed      = 5.0
	MaxShotSpeed      = 14.0
	DefaultPitchDeg   = 52.0
	PointsPerBasket   = 2
	DefaultScoreLimit = 11
)

// Bot behaviour. Shots pick the launch angle that brings the ball down
// through the rim at BotEntrySlope (rise over run) so the ball clears the
// near edge of the ring.
const (
	BotEntrySlope        = 1.5
	BotMinLaunchAngleDeg = 45.0
	BotMaxLaunchAngleDeg = 76.0
	BotFallbackAngleDeg  = 70.0
	BotErrantAngleDeg    = 45.0
	BotShotRange         = 6.5
	BotShotMinRange      = 1.2
	BotSprintDistance    = 4.0
	BotStealDistance     = 1.0
	BotJumpHeight        = 1.9
	BotAimJitterDeg      = 1.5
)
