package corrector

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T, taggers ...Tagger) *Service {
	t.Helper()
	svc, err := NewService(testLexicon(t), Config{}, taggers, nil)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresLexicon(t *testing.T) {
	_, err := NewService(nil, Config{}, nil, nil)
	require.ErrorIs(t, err, ErrLexiconNotReady)
}

func TestProcessRowFullSequence(t *testing.T) {
	svc := testService(t)
	rec, err := svc.ProcessRow(context.Background(), DocumentRow{
		RowID:    "r1",
		ParaText: "H5BC mortgage  offer  dated 04/03/202S",
	})
	require.NoError(t, err)

	assert.Equal(t, "r1", rec.RowID)
	assert.Equal(t, "HSBC mortgage offer dated 04/03/2025", rec.CleanedText)
	assert.Equal(t, []IssueKind{IssueSpacing, IssueCharSubstitution, IssueDate}, rec.DetectedIssues)
	assert.Greater(t, rec.Confidence, 0.0)
	assert.Less(t, rec.Confidence, 1.0)
}

func TestProcessRowCleanTextUntouched(t *testing.T) {
	svc := testService(t)
	rec, err := svc.ProcessRow(context.Background(), DocumentRow{
		RowID:    "r1",
		ParaText: "the mortgage offer dated 04/03/2025",
	})
	require.NoError(t, err)

	assert.Equal(t, rec.OriginalText, rec.CleanedText)
	assert.Empty(t, rec.DetectedIssues)
	assert.Equal(t, 1.0, rec.Confidence)
}

func TestProcessRowSpellCorrection(t *testing.T) {
	svc := testService(t)
	rec, err := svc.ProcessRow(context.Background(), DocumentRow{
		RowID:    "r1",
		ParaText: "the mortgge offer",
	})
	require.NoError(t, err)

	assert.Equal(t, "the mortgage offer", rec.CleanedText)
	assert.Equal(t, []IssueKind{IssueSpelling}, rec.DetectedIssues)
}

func TestProcessRowMalformed(t *testing.T) {
	svc := testService(t)

	_, err := svc.ProcessRow(context.Background(), DocumentRow{RowID: "", ParaText: "text"})
	require.ErrorIs(t, err, ErrMalformedRow)

	_, err = svc.ProcessRow(context.Background(), DocumentRow{RowID: "r1", ParaText: ""})
	require.ErrorIs(t, err, ErrMalformedRow)
}

func TestProcessRowEntityIsNotCorrected(t *testing.T) {
	text := "Smithx signed the offer"
	tagger := stubTagger{
		name:  "stub",
		spans: []EntitySpan{{Start: 0, End: 6, Label: "PER", Confidence: 0.9}},
	}

	withTagger := testService(t, tagger)
	rec, err := withTagger.ProcessRow(context.Background(), DocumentRow{RowID: "r1", ParaText: text})
	require.NoError(t, err)
	assert.Contains(t, rec.CleanedText, "Smithx", "an entity verdict shields the token from spelling correction")

	dictOnly := testService(t)
	rec, err = dictOnly.ProcessRow(context.Background(), DocumentRow{RowID: "r1", ParaText: text})
	require.NoError(t, err)
	assert.Contains(t, rec.CleanedText, "Smith ", "without taggers the token is treated as a misspelling")
}

func TestProcessRowDegradedTaggerMatchesDictionaryOnly(t *testing.T) {
	text := "the mortgge offer signed by Smithx"
	broken := stubTagger{name: "ner", err: ErrTaggerUnavailable}

	degraded := testService(t, broken)
	dictOnly := testService(t)

	recA, err := degraded.ProcessRow(context.Background(), DocumentRow{RowID: "r1", ParaText: text})
	require.NoError(t, err)
	recB, err := dictOnly.ProcessRow(context.Background(), DocumentRow{RowID: "r1", ParaText: text})
	require.NoError(t, err)

	assert.Equal(t, recB.CleanedText, recA.CleanedText)
	assert.Equal(t, recB.DetectedIssues, recA.DetectedIssues)
}

func TestProcessRowsKeepsInputOrder(t *testing.T) {
	svc := testService(t)
	var rows []DocumentRow
	for i := 0; i < 20; i++ {
		rows = append(rows, DocumentRow{
			RowID:    fmt.Sprintf("r%02d", i),
			ParaText: "the mortgge offer",
		})
	}

	records, rowErrs := svc.ProcessRows(context.Background(), rows)
	require.Empty(t, rowErrs)
	require.Len(t, records, len(rows))
	for i, rec := range records {
		assert.Equal(t, rows[i].RowID, rec.RowID)
	}
}

func TestProcessRowsCollectsMalformedRows(t *testing.T) {
	svc := testService(t)
	rows := []DocumentRow{
		{RowID: "r1", ParaText: "the mortgage offer"},
		{RowID: "r2", ParaText: ""},
		{RowID: "r3", ParaText: "the credit agreement"},
	}

	records, rowErrs := svc.ProcessRows(context.Background(), rows)
	require.Len(t, records, 2)
	assert.Equal(t, "r1", records[0].RowID)
	assert.Equal(t, "r3", records[1].RowID)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, "r2", rowErrs[0].RowID)
	assert.ErrorIs(t, rowErrs[0].Err, ErrMalformedRow)
}

func TestProcessRowsEmptyBatch(t *testing.T) {
	svc := testService(t)
	records, rowErrs := svc.ProcessRows(context.Background(), nil)
	assert.Empty(t, records)
	assert.Empty(t, rowErrs)
}
