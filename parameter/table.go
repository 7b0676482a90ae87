package parameter

// Table outline
const (
	TableWidth  = 800.0
	TableHeight = 1200.0

	// Plunger lane column along the right wall; the ball rests here before launch
	LaneMinX = 760.0
	LaneMinY = 400.0
	LaneMaxX = 800.0
	LaneMaxY = 1200.0

	// Drain gap between the flipper tips
	DrainMinX = 300.0
	DrainMinY = 1170.0
	DrainMaxX = 500.0
	DrainMaxY = 1200.0

	// LaunchX, LaunchY is where a new ball is placed in the lane
	LaunchX = 780.0
	LaunchY = 1180.0
)
