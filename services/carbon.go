package services

// Assumed average speeds (km/h) per activity, matching what the dashboard
// shows users when it previews their totals.
const (
	SpeedWalkKmh  = 5.0
	SpeedRunKmh   = 9.6
	SpeedCycleKmh = 16.0
	SpeedHikeKmh  = 4.0
	SpeedSwimKmh  = 2.0

	// Avoided emissions vs. driving the same distance, kg CO₂ per km,
	// applied uniformly regardless of activity type.
	EmissionFactorKgPerKm = 0.16
)

// CarbonHours is one day's human-powered travel input.
type CarbonHours struct {
	Walk  float64
	Run   float64
	Cycle float64
	Hike  float64
	Swim  float64
}

// Negative reports whether any of the hour fields is below zero.
func (h CarbonHours) Negative() bool {
	return h.Walk < 0 || h.Run < 0 || h.Cycle < 0 || h.Hike < 0 || h.Swim < 0
}

// ComputeCarbonTotals derives distance and avoided CO₂ from the raw hours.
// Totals are always computed from scratch; they are never read-modify-write
// on a previously stored total.
func ComputeCarbonTotals(h CarbonHours) (totalKm, totalCO2 float64) {
	totalKm = h.Walk*SpeedWalkKmh +
		h.Run*SpeedRunKmh +
		h.Cycle*SpeedCycleKmh +
		h.Hike*SpeedHikeKmh +
		h.Swim*SpeedSwimKmh

	totalCO2 = totalKm * EmissionFactorKgPerKm
	return totalKm, totalCO2
}
