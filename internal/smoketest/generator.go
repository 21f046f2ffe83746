package smoketest

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/finml/creditserve/internal/domain/schema"
	"github.com/finml/creditserve/pkg/logger"
)

const randomFloatDivisor = 1000000

// Record shape variants, chosen per generated record so a run exercises
// imputation and key-dropping as well as the happy path.
const (
	caseFullRecord    = 0
	casePartialRecord = 1
	caseExtraKeys     = 2
	variantCount      = 3
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max).
func getRandomInt(max int64) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(max))
	return int(n.Int64())
}

// generateRecords creates feature records across the shape variants.
func generateRecords(ctx context.Context, config *Config, stats *Stats) []map[string]float64 {
	logger.Get().Info(ctx, "generating records", logger.Int("numRecords", config.NumRecords))

	names := schema.Names()
	records := make([]map[string]float64, config.NumRecords)
	for i := range records {
		records[i] = generateSingleRecord(names)
	}

	stats.RecordsGenerated = len(records)
	return records
}

// generateSingleRecord builds one record. Feature values are centered on 0
// with occasional outliers, roughly matching normalized model inputs.
func generateSingleRecord(names []string) map[string]float64 {
	record := make(map[string]float64, len(names))

	switch getRandomInt(variantCount) {
	case caseFullRecord:
		for _, name := range names {
			record[name] = featureValue()
		}
	case casePartialRecord:
		// Half the features missing; the service imputes 0.0
		for _, name := range names {
			if getRandomInt(2) == 0 {
				record[name] = featureValue()
			}
		}
	case caseExtraKeys:
		for _, name := range names {
			record[name] = featureValue()
		}
		// Unknown keys must be dropped without affecting scores
		record["customer_id"] = float64(getRandomInt(1_000_000))
		record["unused_signal"] = featureValue()
	}
	return record
}

func featureValue() float64 {
	v := getRandomFloat()*2 - 1
	if getRandomInt(10) == 0 {
		v *= 10 // occasional outlier
	}
	return v
}
