package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetitionFeed(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	tbl, err := store.EnsureTable(ctx, SheetPetition, petitionHeader)
	require.NoError(t, err)

	rows := []map[string]string{
		{"Timestamp": "2025-01-01T10:00:00.000Z", "Name": "Jane M", "Phone Preview": "••••6452", "Area": "Ward 4"},
		{"Timestamp": "2025-01-02T11:00:00.000Z", "Name": "Anonymous", "Phone Preview": "••••1234"},
		{"Timestamp": "2025-01-03T12:00:00.000Z", "Name": " ", "Phone Preview": "••••9876"},
	}
	for _, vals := range rows {
		r := tbl.NewRow()
		for col, v := range vals {
			tbl.Set(r, col, v)
		}
		require.NoError(t, store.AppendRow(ctx, tbl, r))
	}

	pf, err := svc.BuildPetitionFeed(ctx)
	require.NoError(t, err)
	assert.True(t, pf.Success)
	assert.Equal(t, 3, pf.TotalSignatures)
	assert.Equal(t, 2, pf.AnonymousSignatures)
	require.Len(t, pf.Rows, 3)
	assert.Equal(t, "Jane M", pf.Rows[0].Name)
	assert.Equal(t, "••••6452", pf.Rows[0].PhonePreview)
	assert.Equal(t, "Ward 4", pf.Rows[0].Area)
}

func TestPetitionFeedEmpty(t *testing.T) {
	svc, _ := newTestService()
	pf, err := svc.BuildPetitionFeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pf.TotalSignatures)
	assert.NotNil(t, pf.Rows)
}
