package indicators

// BollingerBands calculates the upper, middle and lower bands: the period
// SMA plus/minus stdDev rolling standard deviations.
func BollingerBands(values []float64, period int, stdDev float64) (upper, middle, lower []float64, err error) {
	middle, err = SMA(values, period)
	if err != nil {
		return nil, nil, nil, err
	}
	std, err := RollingStd(values, period)
	if err != nil {
		return nil, nil, nil, err
	}

	upper = make([]float64, len(values))
	lower = make([]float64, len(values))
	for i := range values {
		upper[i] = middle[i] + std[i]*stdDev
		lower[i] = middle[i] - std[i]*stdDev
	}
	return upper, middle, lower, nil
}
