package calculator

import (
	"errors"

	"DrawSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the last period values in the series.
func CalculateSMA(series []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(series) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(series) - period; i < len(series); i++ {
		sum += series[i]
	}
	return sum / float64(period), nil
}

// AppearanceSeries returns a 0/1 series for the last n draws marking whether
// number appeared in each, oldest first. n <= 0 means the whole history.
func AppearanceSeries(draws []model.Draw, p model.Pool, number, n int) []float64 {
	draws = tail(draws, n)
	series := make([]float64, len(draws))
	for i, d := range draws {
		for _, x := range d.Numbers(p) {
			if x == number {
				series[i] = 1
				break
			}
		}
	}
	return series
}

// CumulativeSeries is the running count of appearances of number over the last n draws.
func CumulativeSeries(draws []model.Draw, p model.Pool, number, n int) []float64 {
	series := AppearanceSeries(draws, p, number, n)
	total := 0.0
	for i, v := range series {
		total += v
		series[i] = total
	}
	return series
}

func tail(draws []model.Draw, n int) []model.Draw {
	if n <= 0 || n >= len(draws) {
		return draws
	}
	return draws[len(draws)-n:]
}
