package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateRun measures storing a run of many documents in a
// file-backed database.
func BenchmarkCreateRun(b *testing.B) {
	for _, docs := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("documents_%d", docs), func(b *testing.B) {
			db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
			require.NoError(b, db.Open())
			defer db.Close()

			svc := sqlite.NewRunService(db)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				run := &harvest.Run{Profile: "bench", StartedAt: time.Now()}
				for d := range docs {
					res := harvest.NewResult(fmt.Sprintf("https://example.com/search?page=%d", d), run.StartedAt)
					for r := range 10 {
						res.AddRecord(&harvest.Record{Index: r + 1, Fields: []harvest.FieldValue{
							{Name: "recipient", Kind: harvest.FieldText, Value: fmt.Sprintf("Company %d", r)},
							{Name: "loan_amount", Kind: harvest.FieldAmount, Value: "$1,000", Amount: ptr(1000.0)},
						}})
					}
					run.Add(res)
				}
				if err := svc.CreateRun(ctx, run); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
