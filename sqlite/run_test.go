package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var started = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// sampleRun builds a run with one successful document and one blocked one.
func sampleRun(profile string, startedAt time.Time) *harvest.Run {
	ok := harvest.NewResult("https://example.com/search?q=acme", startedAt)
	ok.SearchQuery = "acme"
	ok.ResultHeader = "2 results"
	ok.ContentHash = "abc123"
	ok.AddRecord(&harvest.Record{Index: 1, Fields: []harvest.FieldValue{
		{Name: "recipient", Kind: harvest.FieldText, Value: "Acme LLC", Raw: " Acme LLC ", Strategy: harvest.StrategyStructural},
		{Name: "loan_amount", Kind: harvest.FieldAmount, Value: "$20,833", Raw: "$20,833", Strategy: harvest.StrategyHeuristic, Amount: ptr(20833.0)},
		{Name: "date_approved", Kind: harvest.FieldDate, Value: "April 28, 2020", Raw: "April 28, 2020", Strategy: harvest.StrategyStructural, Date: ptr(time.Date(2020, 4, 28, 0, 0, 0, 0, time.UTC))},
	}})
	ok.AddRecord(&harvest.Record{Index: 3, Fields: []harvest.FieldValue{
		{Name: "recipient", Kind: harvest.FieldText, Value: "Beta Inc", Strategy: harvest.StrategyStructural},
	}})
	ok.AddError(&harvest.ItemError{Kind: harvest.KindExtraction, Index: 2, Message: "record has no identity field", Timestamp: startedAt})

	blocked := harvest.NewResult("https://example.com/blocked", startedAt)
	blocked.AddError(&harvest.ItemError{
		Kind:       harvest.KindAntiBot,
		StatusCode: 403,
		URL:        "https://example.com/blocked",
		Message:    "challenge page detected",
		Suggestion: "slow down requests",
		Timestamp:  startedAt,
	})

	run := &harvest.Run{
		Profile:    profile,
		URLs:       []string{ok.URL, blocked.URL},
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(5 * time.Second),
	}
	run.Add(ok)
	run.Add(blocked)
	return run
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID and round-trips results", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		svc := sqlite.NewRunService(openDB(t))
		run := sampleRun("ppp-loans", started)

		require.NoError(t, svc.CreateRun(ctx, run))
		require.NotEmpty(t, run.ID)

		got, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)

		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, "ppp-loans", got.Profile)
		assert.Equal(t, run.URLs, got.URLs)
		assert.Equal(t, 2, got.TotalRecords)
		assert.Equal(t, 2, got.TotalErrors)
		assert.True(t, got.Success)
		assert.True(t, started.Equal(got.StartedAt))
		assert.True(t, started.Add(5*time.Second).Equal(got.FinishedAt))

		require.Len(t, got.Results, 2)
		first := got.Results[0]
		assert.Equal(t, "https://example.com/search?q=acme", first.URL)
		assert.Equal(t, "acme", first.SearchQuery)
		assert.Equal(t, "2 results", first.ResultHeader)
		assert.Equal(t, "abc123", first.ContentHash)
		assert.Equal(t, 2, first.TotalRecords)

		require.Len(t, first.Records, 2)
		acme := first.Records[0]
		assert.Equal(t, 1, acme.Index)
		require.Len(t, acme.Fields, 3)
		assert.Equal(t, "Acme LLC", acme.Get("recipient"))
		assert.Equal(t, " Acme LLC ", acme.Fields[0].Raw)
		assert.Equal(t, harvest.StrategyHeuristic, acme.Fields[1].Strategy)
		amount, ok := acme.Amount("loan_amount")
		assert.True(t, ok)
		assert.Equal(t, 20833.0, amount)
		require.NotNil(t, acme.Fields[2].Date)
		assert.True(t, time.Date(2020, 4, 28, 0, 0, 0, 0, time.UTC).Equal(*acme.Fields[2].Date))
		assert.Nil(t, acme.Fields[0].Amount)
		assert.Equal(t, 3, first.Records[1].Index)

		require.Len(t, first.Errors, 1)
		assert.Equal(t, harvest.KindExtraction, first.Errors[0].Kind)
		assert.Equal(t, 2, first.Errors[0].Index)

		second := got.Results[1]
		assert.Empty(t, second.Records)
		assert.True(t, second.Blocked())
		require.Len(t, second.Errors, 1)
		assert.Equal(t, harvest.KindAntiBot, second.Errors[0].Kind)
		assert.Equal(t, 403, second.Errors[0].StatusCode)
		assert.Equal(t, "slow down requests", second.Errors[0].Suggestion)
	})

	t.Run("defaults finish time to start time", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		svc := sqlite.NewRunService(openDB(t))
		run := &harvest.Run{Profile: "ppp-loans", StartedAt: started}

		require.NoError(t, svc.CreateRun(ctx, run))
		assert.Equal(t, started, run.FinishedAt)

		got, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)
		assert.False(t, got.Success)
		assert.Empty(t, got.Results)
	})

	t.Run("rejects invalid run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))

		err := svc.CreateRun(context.Background(), &harvest.Run{StartedAt: started})
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewRunService(openDB(t))

	_, err := svc.FindRunByID(context.Background(), "missing")
	assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := sqlite.NewRunService(openDB(t))

	older := sampleRun("ppp-loans", started)
	newer := sampleRun("ppp-loans", started.Add(time.Hour))
	other := sampleRun("grants", started.Add(30*time.Minute))
	for _, run := range []*harvest.Run{older, newer, other} {
		require.NoError(t, svc.CreateRun(ctx, run))
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := svc.FindRuns(ctx, harvest.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, newer.ID, runs[0].ID)
		assert.Equal(t, other.ID, runs[1].ID)
		assert.Equal(t, older.ID, runs[2].ID)
		assert.Empty(t, runs[0].Results)
	})

	t.Run("filters by profile", func(t *testing.T) {
		t.Parallel()

		runs, err := svc.FindRuns(ctx, harvest.RunFilter{Profile: ptr("grants")})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, other.ID, runs[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		runs, err := svc.FindRuns(ctx, harvest.RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, other.ID, runs[0].ID)
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	t.Parallel()

	t.Run("removes run and its results", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)
		svc := sqlite.NewRunService(db)
		run := sampleRun("ppp-loans", started)
		require.NoError(t, svc.CreateRun(ctx, run))

		require.NoError(t, svc.DeleteRun(ctx, run.ID))

		_, err := svc.FindRunByID(ctx, run.ID)
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
		for _, table := range []string{"documents", "records", "record_fields", "item_errors"} {
			var n int
			require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
			assert.Zero(t, n, table)
		}
	})

	t.Run("returns not found for missing run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))

		err := svc.DeleteRun(context.Background(), "missing")
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	})
}
