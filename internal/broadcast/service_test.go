package broadcast

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/broadcast-engine/internal/alert"
	"github.com/coastwatch/broadcast-engine/internal/config"
	"github.com/coastwatch/broadcast-engine/internal/metrics"
	"github.com/coastwatch/broadcast-engine/internal/store"
	"github.com/coastwatch/broadcast-engine/internal/template"
)

func testConfig() *config.Config {
	return &config.Config{
		Broadcast: config.BroadcastConfig{
			DefaultContact:        "1554",
			SimulatedDeliveryRate: 0.95,
			// No artificial latency or pacing in tests.
			MinSendDelay:       0,
			MaxSendDelay:       0,
			RateLimitPerSecond: 0,
		},
	}
}

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.NewCollector(prometheus.NewRegistry())
	return NewService(cfg, logger, store.NewAlertStore(), store.NewLogStore(),
		template.NewEngine(logger), collector, nil, nil)
}

var chennaiZone = alert.Zone{
	ID:               "chennai-coast",
	Name:             "Chennai Coast",
	State:            "Tamil Nadu",
	Population:       2100000,
	PrimaryLanguages: []alert.Language{alert.LanguageTamil, alert.LanguageEnglish},
	Shelters:         []string{"Marina Community Hall"},
}

func TestCreateAlert(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults Applied", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:       "Cyclone forming offshore",
			Description: "Depression over the Bay of Bengal",
		})
		require.NoError(t, err)

		assert.Equal(t, alert.TypeCyclone, a.Type)
		assert.Equal(t, alert.SeverityWarning, a.Severity)
		assert.Equal(t, alert.UrgencyMedium, a.UrgencyLevel)
		assert.Equal(t, alert.DefaultLanguages, a.Languages)
		assert.Equal(t, []alert.Channel{alert.ChannelSMS, alert.ChannelCellBroadcast}, a.BroadcastChannels)
		assert.Equal(t, alert.StatusDraft, a.Status)
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, a.CreatedAt, a.UpdatedAt)
		for _, lang := range a.Languages {
			assert.NotEmpty(t, a.MessageTemplates[lang], "no template for %s", lang)
		}
	})

	t.Run("Estimated Reach", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:         "Cyclone warning",
			Description:   "Severe cyclonic storm approaching",
			Type:          alert.TypeCyclone,
			Severity:      alert.SeverityEmergency,
			AffectedZones: []alert.Zone{chennaiZone},
		})
		require.NoError(t, err)
		assert.Equal(t, 1680000, a.EstimatedReach)
	})

	t.Run("Scheduled When Time In Future", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		at := time.Now().UTC().Add(time.Hour)
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:         "High tide advisory",
			Description:   "Spring tide expected tonight",
			Type:          alert.TypeHighTide,
			ScheduledTime: &at,
		})
		require.NoError(t, err)
		assert.Equal(t, alert.StatusScheduled, a.Status)
	})

	t.Run("Tamil Template Resolved", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:       "Cyclone emergency",
			Description: "Landfall within hours",
			Type:        alert.TypeCyclone,
			Severity:    alert.SeverityEmergency,
			Languages:   []alert.Language{alert.LanguageTamil},
		})
		require.NoError(t, err)
		assert.Contains(t, a.MessageTemplates[alert.LanguageTamil], "புயல்")
	})

	t.Run("Validation", func(t *testing.T) {
		svc := newTestService(t, testConfig())

		_, err := svc.CreateAlert(ctx, CreateRequest{Description: "no title"})
		assert.ErrorIs(t, err, ErrInvalidAlertRequest)

		_, err = svc.CreateAlert(ctx, CreateRequest{Title: "no description"})
		assert.ErrorIs(t, err, ErrInvalidAlertRequest)

		_, err = svc.CreateAlert(ctx, CreateRequest{
			Title: "t", Description: "d", Type: alert.Type("earthquake"),
		})
		assert.ErrorIs(t, err, ErrInvalidAlertRequest)

		_, err = svc.CreateAlert(ctx, CreateRequest{
			Title: "t", Description: "d", Severity: alert.Severity("catastrophic"),
		})
		assert.ErrorIs(t, err, ErrInvalidAlertRequest)

		_, err = svc.CreateAlert(ctx, CreateRequest{
			Title: "t", Description: "d",
			BroadcastChannels: []alert.Channel{alert.Channel("email")},
		})
		assert.ErrorIs(t, err, ErrInvalidAlertRequest)
	})
}

func TestBroadcastAlert(t *testing.T) {
	ctx := context.Background()

	t.Run("Full Broadcast", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:             "Cyclone Vayu approaching",
			Description:       "Severe cyclonic storm, landfall expected tonight",
			Type:              alert.TypeCyclone,
			Severity:          alert.SeverityEmergency,
			AffectedZones:     []alert.Zone{chennaiZone},
			Languages:         []alert.Language{alert.LanguageEnglish},
			BroadcastChannels: []alert.Channel{alert.ChannelSMS, alert.ChannelCellBroadcast},
		})
		require.NoError(t, err)

		err = svc.BroadcastAlert(ctx, a.ID, map[string]string{
			"location": "Chennai Coast",
			"shelter":  "Marina Community Hall",
		})
		require.NoError(t, err)

		got, err := svc.GetAlert(a.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.StatusSent, got.Status)

		logs := svc.GetBroadcastLogs(a.ID)
		require.Len(t, logs, 2) // one zone, one language, two channels
		want := "CYCLONE EMERGENCY: Severe cyclone approaching Chennai Coast. " +
			"Evacuate to Marina Community Hall now. Helpline 1554."
		for _, e := range logs {
			assert.Equal(t, want, e.Message)
			assert.True(t, template.ValidateLength(e.Message))
			assert.Equal(t, alert.LogStatusSuccess, e.Status)
			assert.Equal(t, 1680000, e.RecipientCount)
			assert.Equal(t, 0.95, e.DeliveryRate)
			assert.Equal(t, "Chennai Coast", e.ZoneName)
		}

		d := got.DeliveryStatus
		assert.Equal(t, 1680000, d.Total)
		assert.Equal(t, 1680000, d.Sent)
		assert.Equal(t, 1596000, d.Delivered)
		assert.Equal(t, 84000, d.Failed)
		assert.Equal(t, 0, d.Pending)
		assert.Equal(t, d.Total, d.Delivered+d.Failed+d.Pending)

		require.Contains(t, d.Channels, alert.ChannelSMS)
		require.Contains(t, d.Channels, alert.ChannelCellBroadcast)
		assert.Equal(t, 1596000, d.Channels[alert.ChannelSMS].Delivered)
	})

	t.Run("Default Contact Substituted", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:             "Pollution advisory",
			Description:       "Industrial discharge reported",
			Type:              alert.TypePollution,
			Severity:          alert.SeverityWarning,
			AffectedZones:     []alert.Zone{chennaiZone},
			Languages:         []alert.Language{alert.LanguageEnglish},
			BroadcastChannels: []alert.Channel{alert.ChannelSMS},
		})
		require.NoError(t, err)

		require.NoError(t, svc.BroadcastAlert(ctx, a.ID, map[string]string{
			"location": "Ennore Creek",
		}))

		logs := svc.GetBroadcastLogs(a.ID)
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "Helpline 1554")
	})

	t.Run("Unknown Alert", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		err := svc.BroadcastAlert(ctx, "no-such-alert", nil)
		assert.ErrorIs(t, err, ErrAlertNotFound)
		assert.Empty(t, svc.GetBroadcastLogs(""))
	})

	t.Run("No Zones", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:       "Harbour advisory",
			Description: "Routine advisory with no mapped zones",
		})
		require.NoError(t, err)

		require.NoError(t, svc.BroadcastAlert(ctx, a.ID, nil))

		got, err := svc.GetAlert(a.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.StatusSent, got.Status)
		assert.Equal(t, 0, got.DeliveryStatus.Total)
		assert.Equal(t, 0, got.DeliveryStatus.Delivered)
		assert.Equal(t, 0, got.DeliveryStatus.Failed)
		assert.Empty(t, svc.GetBroadcastLogs(a.ID))
	})

	t.Run("Over-Length Message Recorded As Failed", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:             "Cyclone warning",
			Description:       "Severe cyclonic storm",
			Type:              alert.TypeCyclone,
			Severity:          alert.SeverityWarning,
			AffectedZones:     []alert.Zone{chennaiZone},
			Languages:         []alert.Language{alert.LanguageEnglish},
			BroadcastChannels: []alert.Channel{alert.ChannelSMS},
		})
		require.NoError(t, err)

		// An absurdly long location pushes every rendered message past the
		// single-segment budget.
		err = svc.BroadcastAlert(ctx, a.ID, map[string]string{
			"location": strings.Repeat("Kanyakumari ", 30),
			"shelter":  "Marina Community Hall",
		})
		require.NoError(t, err)

		logs := svc.GetBroadcastLogs(a.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, alert.LogStatusFailed, logs[0].Status)
		assert.Equal(t, 0.0, logs[0].DeliveryRate)
		assert.False(t, template.ValidateLength(logs[0].Message))

		got, err := svc.GetAlert(a.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.StatusSent, got.Status)
		assert.Equal(t, 1680000, got.DeliveryStatus.Total)
		assert.Equal(t, 0, got.DeliveryStatus.Delivered)
		assert.Equal(t, 1680000, got.DeliveryStatus.Failed)
	})

	t.Run("Rebroadcast Of Sent Alert Rejected", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:       "Oil spill",
			Description: "Slick spotted off the harbour",
			Type:        alert.TypeOilSpill,
		})
		require.NoError(t, err)

		require.NoError(t, svc.BroadcastAlert(ctx, a.ID, nil))
		err = svc.BroadcastAlert(ctx, a.ID, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Cancelled Alert Cannot Broadcast", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:       "Smuggling watch",
			Description: "Suspicious vessel movement",
			Type:        alert.TypeSmuggling,
		})
		require.NoError(t, err)

		require.NoError(t, svc.UpdateAlertStatus(ctx, a.ID, alert.StatusCancelled))
		err = svc.BroadcastAlert(ctx, a.ID, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Cancellation Halts Remaining Sends", func(t *testing.T) {
		cfg := testConfig()
		cfg.Broadcast.MinSendDelay = 20 * time.Millisecond
		cfg.Broadcast.MaxSendDelay = 30 * time.Millisecond
		svc := newTestService(t, cfg)

		// 1 zone x 2 languages x 5 channels = 10 sends at >=20ms each.
		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:             "Tsunami emergency",
			Description:       "Undersea earthquake detected",
			Type:              alert.TypeTsunami,
			Severity:          alert.SeverityEmergency,
			AffectedZones:     []alert.Zone{chennaiZone},
			Languages:         []alert.Language{alert.LanguageTamil, alert.LanguageEnglish},
			BroadcastChannels: alert.Channels,
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.BroadcastAlert(ctx, a.ID, map[string]string{
				"location": "Chennai Coast",
				"shelter":  "Marina Community Hall",
			}))
		}()

		time.Sleep(60 * time.Millisecond)
		require.NoError(t, svc.UpdateAlertStatus(ctx, a.ID, alert.StatusCancelled))
		wg.Wait()

		got, err := svc.GetAlert(a.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.StatusCancelled, got.Status)
		assert.Less(t, len(svc.GetBroadcastLogs(a.ID)), 10,
			"cancellation should leave part of the send grid unsent")
	})

	t.Run("Context Cancellation Aborts Broadcast", func(t *testing.T) {
		cfg := testConfig()
		cfg.Broadcast.MinSendDelay = 20 * time.Millisecond
		cfg.Broadcast.MaxSendDelay = 30 * time.Millisecond
		svc := newTestService(t, cfg)

		a, err := svc.CreateAlert(ctx, CreateRequest{
			Title:             "Storm surge emergency",
			Description:       "Surge flooding low-lying wards",
			Type:              alert.TypeStormSurge,
			Severity:          alert.SeverityEmergency,
			AffectedZones:     []alert.Zone{chennaiZone},
			Languages:         []alert.Language{alert.LanguageEnglish, alert.LanguageHindi},
			BroadcastChannels: alert.Channels,
		})
		require.NoError(t, err)

		cancelCtx, cancel := context.WithCancel(ctx)
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		err = svc.BroadcastAlert(cancelCtx, a.ID, map[string]string{"location": "Chennai Coast"})
		assert.ErrorIs(t, err, context.Canceled)

		got, err := svc.GetAlert(a.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.StatusBroadcasting, got.Status)
	})
}

func TestUpdateAlertStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid Transition", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{Title: "t", Description: "d"})
		require.NoError(t, err)

		require.NoError(t, svc.UpdateAlertStatus(ctx, a.ID, alert.StatusCancelled))
		got, err := svc.GetAlert(a.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.StatusCancelled, got.Status)
	})

	t.Run("Sent Cannot Return To Draft", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{Title: "t", Description: "d"})
		require.NoError(t, err)
		require.NoError(t, svc.BroadcastAlert(ctx, a.ID, nil))

		err = svc.UpdateAlertStatus(ctx, a.ID, alert.StatusDraft)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		got, err := svc.GetAlert(a.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.StatusSent, got.Status)
	})

	t.Run("Unknown Status", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		a, err := svc.CreateAlert(ctx, CreateRequest{Title: "t", Description: "d"})
		require.NoError(t, err)

		err = svc.UpdateAlertStatus(ctx, a.ID, alert.Status("archived"))
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Unknown Alert", func(t *testing.T) {
		svc := newTestService(t, testConfig())
		err := svc.UpdateAlertStatus(ctx, "no-such-alert", alert.StatusCancelled)
		assert.ErrorIs(t, err, ErrAlertNotFound)
	})
}

func TestGetAlerts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testConfig())

	first, err := svc.CreateAlert(ctx, CreateRequest{Title: "first", Description: "d"})
	require.NoError(t, err)
	second, err := svc.CreateAlert(ctx, CreateRequest{Title: "second", Description: "d"})
	require.NoError(t, err)

	list := svc.GetAlerts()
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)

	// Repeated reads see the same state.
	assert.Equal(t, list, svc.GetAlerts())
}

func TestExportCAP(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testConfig())

	a, err := svc.CreateAlert(ctx, CreateRequest{
		Title:       "Cyclone warning",
		Description: "Severe cyclonic storm approaching",
		Type:        alert.TypeCyclone,
		Languages:   []alert.Language{alert.LanguageEnglish, alert.LanguageTamil},
	})
	require.NoError(t, err)

	doc, err := svc.ExportCAP(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, doc.Identifier)
	assert.Len(t, doc.Info, 2)

	_, err = svc.ExportCAP("no-such-alert")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}
