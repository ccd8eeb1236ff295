package harvest_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("flat object in field order with numeric amounts", func(t *testing.T) {
		t.Parallel()

		amount := 20833.0
		rec := &harvest.Record{Index: 3, Fields: []harvest.FieldValue{
			{Name: "recipient", Kind: harvest.FieldText, Value: "Acme LLC"},
			{Name: "loan_amount", Kind: harvest.FieldAmount, Value: "$20,833", Amount: &amount},
			{Name: "loan_status", Kind: harvest.FieldText, Value: ""},
		}}

		data, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.Equal(t,
			`{"index":3,"recipient":"Acme LLC","loan_amount":"$20,833","loan_amount_numeric":20833,"loan_status":""}`,
			string(data))
	})

	t.Run("unparsed amount is null", func(t *testing.T) {
		t.Parallel()

		rec := &harvest.Record{Index: 1, Fields: []harvest.FieldValue{
			{Name: "loan_amount", Kind: harvest.FieldAmount, Value: "N/A"},
		}}

		data, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.JSONEq(t, `{"index":1,"loan_amount":"N/A","loan_amount_numeric":null}`, string(data))
	})
}

func TestRecord_Accessors(t *testing.T) {
	t.Parallel()

	amount := 1250.5
	rec := &harvest.Record{Index: 1, Fields: []harvest.FieldValue{
		{Name: "recipient", Value: "Acme LLC"},
		{Name: "loan_amount", Kind: harvest.FieldAmount, Value: "$1,250.50", Amount: &amount},
	}}

	assert.Equal(t, "Acme LLC", rec.Get("recipient"))
	assert.Empty(t, rec.Get("missing"))

	got, ok := rec.Amount("loan_amount")
	require.True(t, ok)
	assert.InDelta(t, 1250.5, got, 0.0001)

	_, ok = rec.Amount("recipient")
	assert.False(t, ok)
}

func TestResult(t *testing.T) {
	t.Parallel()

	parsedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("new result serializes empty collections", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(harvest.NewResult("", parsedAt))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"search_query": "",
			"result_header": "",
			"total_records": 0,
			"records": [],
			"errors": [],
			"parsed_at": "2024-05-01T12:00:00Z"
		}`, string(data))
	})

	t.Run("total tracks records", func(t *testing.T) {
		t.Parallel()

		res := harvest.NewResult("https://example.com/", parsedAt)
		res.AddRecord(&harvest.Record{Index: 1})
		res.AddRecord(&harvest.Record{Index: 2})

		assert.Equal(t, 2, res.TotalRecords)
		assert.Len(t, res.Records, 2)
	})

	t.Run("blocked only for document errors", func(t *testing.T) {
		t.Parallel()

		res := harvest.NewResult("", parsedAt)
		res.AddError(&harvest.ItemError{Kind: harvest.KindExtraction, Index: 1})
		res.AddError(&harvest.ItemError{Kind: harvest.KindNoRecords})
		assert.False(t, res.Blocked())

		res.AddError(&harvest.ItemError{Kind: harvest.KindHTTP, StatusCode: 404})
		assert.True(t, res.Blocked())
	})
}

func TestRun_Add(t *testing.T) {
	t.Parallel()

	run := &harvest.Run{Profile: "ppp-loans", StartedAt: time.Now()}
	assert.False(t, run.Success)

	empty := harvest.NewResult("https://example.com/1", time.Now())
	empty.AddError(&harvest.ItemError{Kind: harvest.KindAntiBot})
	run.Add(empty)
	assert.False(t, run.Success)
	assert.Equal(t, 1, run.TotalErrors)

	full := harvest.NewResult("https://example.com/2", time.Now())
	full.AddRecord(&harvest.Record{Index: 1})
	run.Add(full)
	assert.True(t, run.Success)
	assert.Equal(t, 1, run.TotalRecords)
	assert.Len(t, run.Results, 2)
}

func TestRun_Validate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode((&harvest.Run{StartedAt: time.Now()}).Validate()))
	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode((&harvest.Run{Profile: "p"}).Validate()))
	assert.NoError(t, (&harvest.Run{Profile: "p", StartedAt: time.Now()}).Validate())
}
