package reconcile

import (
	"testing"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(fileName, actID, repID string) models.DocumentEntry {
	return models.DocumentEntry{FileName: fileName, ActID: actID, RepID: repID}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestFindDatabaseRecord(t *testing.T) {
	records := []models.DatabaseRecord{
		{AccountNumber: "100", OwnerQID: "FIRST", Email: "first@x.com"},
		{AccountNumber: "100", OwnerQID: "SECOND", Email: "second@x.com"},
	}

	t.Run("Expect: the first match to win", func(t *testing.T) {
		lookup := FindDatabaseRecord(records, "100")
		assert.True(t, lookup.Found)
		assert.Equal(t, "FIRST", lookup.OrEmpty().OwnerQID)
	})

	t.Run("Expect: a miss to collapse to empty fields", func(t *testing.T) {
		lookup := FindDatabaseRecord(records, "999")
		assert.False(t, lookup.Found)
		assert.Equal(t, models.DatabaseRecord{}, lookup.OrEmpty())
	})
}

func TestFindRosterRecord(t *testing.T) {
	records := []models.RosterRecord{
		{AccountID: "100", ClientID: "first"},
		{AccountID: "100", ClientID: "second"},
	}

	assert.Equal(t, "first", FindRosterRecord(records, "100").OrEmpty().ClientID)
	assert.Equal(t, models.RosterRecord{}, FindRosterRecord(records, "200").OrEmpty())
}

func TestBuildFileName(t *testing.T) {
	name := BuildFileName(models.ReconciledIdentity{QID: "QW-NWM-1-001214", Email: "leah@example.com"}, "28DAT17", "HJAV", "[old]000029916.pdf")
	assert.Equal(t, "[QW-NWM-1-001214][28DAT17]leah@example.com[HJAV]_[old]000029916.pdf", name)
}

func TestEngine_Reconcile(t *testing.T) {
	engine := NewEngine()

	t.Run("Expect: case-insensitive match to produce no discrepancy", func(t *testing.T) {
		plan := engine.Reconcile(
			[]models.DocumentEntry{entry("doc1.pdf", "100", "R1")},
			[]models.DatabaseRecord{{AccountNumber: "100", OwnerQID: "QID1", Email: "a@x.com"}},
			[]models.RosterRecord{{AccountID: "100", ClientID: "qid1", EmailAddress: "A@X.COM"}},
		)

		assert.Equal(t, 0, plan.Discrepancies.Len())
		require.Len(t, plan.Manifest, 1)
		assert.Equal(t, "[QID1][100]a@x.com[R1]_doc1.pdf", plan.Manifest[0].NewFileName)
		assert.Equal(t, []models.CopyJob{{SourceName: "doc1.pdf", TargetName: "[QID1][100]a@x.com[R1]_doc1.pdf"}}, plan.Copies)
		assert.Equal(t, models.ReconciledIdentity{QID: "QID1", Email: "a@x.com"}, plan.Identities["doc1.pdf"])
	})

	t.Run("Expect: empty roster qid to be flagged and fall back to the database", func(t *testing.T) {
		plan := engine.Reconcile(
			[]models.DocumentEntry{entry("doc1.pdf", "100", "R1")},
			[]models.DatabaseRecord{{AccountNumber: "100", OwnerQID: "QID1", Email: "a@x.com"}},
			[]models.RosterRecord{{AccountID: "100", ClientID: "", EmailAddress: "A@X.COM"}},
		)

		d, ok := plan.Discrepancies.Get("100")
		require.True(t, ok)
		assert.Equal(t, "", deref(d.QIDFromXLSX))
		assert.Equal(t, "QID1", deref(d.QIDFromSQL))
		assert.Nil(t, d.EmailFromXLSX)
		assert.Nil(t, d.EmailFromSQL)
		assert.Equal(t, "QID1", plan.Identities["doc1.pdf"].QID)
	})

	t.Run("Expect: roster value to win over a conflicting database value", func(t *testing.T) {
		plan := engine.Reconcile(
			[]models.DocumentEntry{entry("doc1.pdf", "100", "R1")},
			[]models.DatabaseRecord{{AccountNumber: "100", OwnerQID: "XYZ", Email: "db@x.com"}},
			[]models.RosterRecord{{AccountID: "100", ClientID: "ABC", EmailAddress: "Roster@X.com"}},
		)

		assert.Equal(t, models.ReconciledIdentity{QID: "ABC", Email: "roster@x.com"}, plan.Identities["doc1.pdf"])
		d, ok := plan.Discrepancies.Get("100")
		require.True(t, ok)
		assert.Equal(t, "ABC", deref(d.QIDFromXLSX))
		assert.Equal(t, "XYZ", deref(d.QIDFromSQL))
		assert.Equal(t, "roster@x.com", deref(d.EmailFromXLSX))
		assert.Equal(t, "db@x.com", deref(d.EmailFromSQL))
	})

	t.Run("Expect: empty roster email to be flagged even when the database is empty", func(t *testing.T) {
		plan := engine.Reconcile(
			[]models.DocumentEntry{entry("doc1.pdf", "100", "R1")},
			[]models.DatabaseRecord{{AccountNumber: "100", OwnerQID: "QID1"}},
			[]models.RosterRecord{{AccountID: "100", ClientID: "QID1"}},
		)

		d, ok := plan.Discrepancies.Get("100")
		require.True(t, ok)
		assert.Nil(t, d.QIDFromXLSX)
		assert.Equal(t, "", deref(d.EmailFromXLSX))
		assert.Equal(t, "", deref(d.EmailFromSQL))
		assert.Equal(t, "[QID1][100][R1]_doc1.pdf", plan.Manifest[0].NewFileName)
	})

	t.Run("Expect: account missing from the roster to use database values", func(t *testing.T) {
		plan := engine.Reconcile(
			[]models.DocumentEntry{entry("doc1.pdf", "100", "R1")},
			[]models.DatabaseRecord{{AccountNumber: "100", OwnerQID: "qid1", Email: "A@x.com"}},
			nil,
		)

		assert.Equal(t, models.ReconciledIdentity{QID: "QID1", Email: "a@x.com"}, plan.Identities["doc1.pdf"])
		d, ok := plan.Discrepancies.Get("100")
		require.True(t, ok)
		assert.Equal(t, "", deref(d.QIDFromXLSX))
		assert.Equal(t, "QID1", deref(d.QIDFromSQL))
		assert.Equal(t, "", deref(d.EmailFromXLSX))
		assert.Equal(t, "a@x.com", deref(d.EmailFromSQL))
	})

	t.Run("Expect: account missing everywhere to degrade to empty values", func(t *testing.T) {
		plan := engine.Reconcile([]models.DocumentEntry{entry("doc1.pdf", "404", "R9")}, nil, nil)

		require.Len(t, plan.Manifest, 1)
		assert.Equal(t, "[][404][R9]_doc1.pdf", plan.Manifest[0].NewFileName)
		_, ok := plan.Discrepancies.Get("404")
		assert.True(t, ok)
	})

	t.Run("Expect: one manifest row per entry in index order", func(t *testing.T) {
		entries := []models.DocumentEntry{
			entry("c.pdf", "300", "R3"),
			entry("a.pdf", "100", "R1"),
			entry("b.pdf", "100", "R1"),
		}
		plan := engine.Reconcile(entries,
			[]models.DatabaseRecord{{AccountNumber: "100", OwnerQID: "Q1", Email: "a@x.com"}},
			[]models.RosterRecord{{AccountID: "100", ClientID: "Q1", EmailAddress: "a@x.com"}},
		)

		require.Len(t, plan.Manifest, 3)
		assert.Equal(t, "c.pdf", plan.Manifest[0].IncomingFileName)
		assert.Equal(t, "a.pdf", plan.Manifest[1].IncomingFileName)
		assert.Equal(t, "b.pdf", plan.Manifest[2].IncomingFileName)
		assert.Equal(t, []string{"300"}, plan.Discrepancies.Accounts())
	})

	t.Run("Expect: manifest to carry every normalized source value", func(t *testing.T) {
		plan := engine.Reconcile(
			[]models.DocumentEntry{entry("doc1.pdf", "100", "R1")},
			[]models.DatabaseRecord{{AccountNumber: "100", OwnerQID: "xyz", Email: "DB@X.COM"}},
			[]models.RosterRecord{{AccountID: "100", ClientID: "abc", EmailAddress: "R@X.COM"}},
		)

		assert.Equal(t, models.ManifestRow{
			NewFileName:      "[ABC][100]r@x.com[R1]_doc1.pdf",
			QID:              "ABC",
			AccountNumber:    "100",
			Email:            "r@x.com",
			RepID:            "R1",
			IncomingFileName: "doc1.pdf",
			QIDFromXLSX:      "ABC",
			QIDFromSQL:       "XYZ",
			EmailFromXLSX:    "r@x.com",
			EmailFromSQL:     "db@x.com",
		}, plan.Manifest[0])
	})
}
