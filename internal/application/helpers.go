package application

import "fortuna/internal/models"

func calculateAccuracy(entries []models.LedgerEntry) (correct int, percent float64) {
	if len(entries) == 0 {
		return 0, 0.0
	}
	for _, e := range entries {
		if e.Correct {
			correct++
		}
	}
	return correct, float64(correct) / float64(len(entries)) * 100
}
