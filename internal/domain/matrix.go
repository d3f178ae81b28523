package domain

// MatrixKey identifies one directed pair of locations.
type MatrixKey struct {
	From string
	To   string
}

// TravelMatrix maps ordered pairs of location identifiers to drive minutes.
// Entries are directed; symmetry is not assumed. A matrix supplied for a
// cluster must cover depot<->stop and stop<->stop pairs in both directions.
type TravelMatrix map[MatrixKey]float64

// Minutes returns the directed drive time from one location to another.
// Identical locations are zero minutes. A missing pair is a
// MissingMatrixEntryError, never silently treated as zero or infinite.
func (m TravelMatrix) Minutes(from, to string) (float64, error) {
	if from == to {
		return 0, nil
	}
	minutes, ok := m[MatrixKey{From: from, To: to}]
	if !ok {
		return 0, &MissingMatrixEntryError{From: from, To: to}
	}
	return minutes, nil
}
