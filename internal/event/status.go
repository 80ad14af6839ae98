package event

// RobotStatus is the snapshot of a robot's state at the start of a turn.
// Angles are in radians.
type RobotStatus struct {
	Energy             float64 `json:"energy"`
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
	Heading            float64 `json:"heading"`
	GunHeading         float64 `json:"gunHeading"`
	RadarHeading       float64 `json:"radarHeading"`
	Velocity           float64 `json:"velocity"`
	BodyTurnRemaining  float64 `json:"bodyTurnRemaining"`
	RadarTurnRemaining float64 `json:"radarTurnRemaining"`
	GunTurnRemaining   float64 `json:"gunTurnRemaining"`
	DistanceRemaining  float64 `json:"distanceRemaining"`
	GunHeat            float64 `json:"gunHeat"`
	Others             int     `json:"others"`
	RoundNum           int     `json:"roundNum"`
	NumRounds          int     `json:"numRounds"`
	Time               int64   `json:"time"`
}
