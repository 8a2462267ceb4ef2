package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/broadcast-engine/internal/alert"
)

func makeAlert(id string, createdAt time.Time) *alert.Alert {
	return &alert.Alert{
		ID:        id,
		Title:     "Cyclone Watch " + id,
		Type:      alert.TypeCyclone,
		Severity:  alert.SeverityWarning,
		Status:    alert.StatusDraft,
		Languages: []alert.Language{alert.LanguageEnglish},
		MessageTemplates: map[alert.Language]string{
			alert.LanguageEnglish: "CYCLONE WARNING: move to {shelter}.",
		},
		AffectedZones: []alert.Zone{{ID: "chennai-coast", Population: 2100000}},
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestAlertStore(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Create And Get", func(t *testing.T) {
		s := NewAlertStore()
		require.NoError(t, s.Create(makeAlert("a1", now)))

		got, ok := s.Get("a1")
		require.True(t, ok)
		assert.Equal(t, "a1", got.ID)

		_, ok = s.Get("missing")
		assert.False(t, ok)
	})

	t.Run("Duplicate ID Rejected", func(t *testing.T) {
		s := NewAlertStore()
		require.NoError(t, s.Create(makeAlert("a1", now)))
		assert.Error(t, s.Create(makeAlert("a1", now)))
	})

	t.Run("List Newest First", func(t *testing.T) {
		s := NewAlertStore()
		require.NoError(t, s.Create(makeAlert("old", now.Add(-2*time.Hour))))
		require.NoError(t, s.Create(makeAlert("new", now)))
		require.NoError(t, s.Create(makeAlert("mid", now.Add(-time.Hour))))

		list := s.List()
		require.Len(t, list, 3)
		assert.Equal(t, "new", list[0].ID)
		assert.Equal(t, "mid", list[1].ID)
		assert.Equal(t, "old", list[2].ID)
	})

	t.Run("Reads Are Stable", func(t *testing.T) {
		s := NewAlertStore()
		require.NoError(t, s.Create(makeAlert("a1", now)))
		assert.Equal(t, s.List(), s.List())
	})

	t.Run("Stored Record Is Isolated", func(t *testing.T) {
		s := NewAlertStore()
		in := makeAlert("a1", now)
		require.NoError(t, s.Create(in))

		// Mutating the argument after Create must not change the store.
		in.Title = "changed"
		in.AffectedZones[0].Population = 0

		got, _ := s.Get("a1")
		assert.Equal(t, "Cyclone Watch a1", got.Title)
		assert.Equal(t, 2100000, got.AffectedZones[0].Population)

		// Mutating a returned copy must not change the store either.
		got.Status = alert.StatusCancelled
		got.MessageTemplates[alert.LanguageEnglish] = "tampered"

		again, _ := s.Get("a1")
		assert.Equal(t, alert.StatusDraft, again.Status)
		assert.Contains(t, again.MessageTemplates[alert.LanguageEnglish], "CYCLONE WARNING")
	})

	t.Run("Update Mutates Under Lock", func(t *testing.T) {
		s := NewAlertStore()
		require.NoError(t, s.Create(makeAlert("a1", now)))

		err := s.Update("a1", func(a *alert.Alert) error {
			a.Status = alert.StatusScheduled
			return nil
		})
		require.NoError(t, err)

		got, _ := s.Get("a1")
		assert.Equal(t, alert.StatusScheduled, got.Status)

		assert.Error(t, s.Update("missing", func(a *alert.Alert) error { return nil }))
	})
}

func TestLogStore(t *testing.T) {
	entry := func(alertID string, ts time.Time) *alert.LogEntry {
		return &alert.LogEntry{
			ID:        alertID + "-" + ts.Format("150405.000"),
			AlertID:   alertID,
			Timestamp: ts,
			Channel:   alert.ChannelSMS,
			ZoneName:  "Chennai Coast",
			Language:  alert.LanguageEnglish,
			Status:    alert.LogStatusSuccess,
		}
	}

	t.Run("Append And Filter", func(t *testing.T) {
		s := NewLogStore()
		now := time.Now().UTC()
		s.Append(entry("a1", now))
		s.Append(entry("a2", now.Add(time.Second)))
		s.Append(entry("a1", now.Add(2*time.Second)))

		assert.Equal(t, 3, s.Len())
		assert.Len(t, s.List(""), 3)
		assert.Len(t, s.List("a1"), 2)
		assert.Empty(t, s.List("a3"))
	})

	t.Run("Newest First", func(t *testing.T) {
		s := NewLogStore()
		now := time.Now().UTC()
		s.Append(entry("a1", now))
		s.Append(entry("a1", now.Add(time.Second)))

		got := s.List("a1")
		require.Len(t, got, 2)
		assert.True(t, got[0].Timestamp.After(got[1].Timestamp))
	})

	t.Run("Entries Are Isolated", func(t *testing.T) {
		s := NewLogStore()
		e := entry("a1", time.Now().UTC())
		s.Append(e)
		e.Status = alert.LogStatusFailed

		got := s.List("a1")
		require.Len(t, got, 1)
		assert.Equal(t, alert.LogStatusSuccess, got[0].Status)

		got[0].Message = "tampered"
		assert.Empty(t, s.List("a1")[0].Message)
	})
}
