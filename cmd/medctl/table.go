package main

import (
	"fmt"
	"strings"
	"time"

	"meditation-server/internal/models"
	"meditation-server/internal/poller"
	"meditation-server/internal/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newKeyValueTable(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, Colors: text.Colors{text.Bold}},
		{Number: 2, Align: text.AlignLeft, WidthMax: 80},
	})
	return tw
}

func renderMeditation(m *models.MeditationRequest) string {
	tw := newKeyValueTable("Meditation " + m.ID.String())
	tw.AppendRows([]table.Row{
		{"Status", string(m.Status)},
		{"User", m.UserID.String()},
		{"Duration", fmt.Sprintf("%d min", m.DurationMinutes)},
		{"Voice / background", string(m.Voice) + " / " + string(m.Background)},
		{"Payment", paymentSummary(m)},
		{"Voice file", utils.Deref(m.VoiceFileURL)},
		{"Final audio", utils.Deref(m.FinalAudioURL)},
		{"Delivered", deliverySummary(m)},
		{"Error", utils.Deref(m.Error)},
		{"Created", formatTime(&m.CreatedAt)},
		{"Updated", formatTime(&m.UpdatedAt)},
	})
	return tw.Render()
}

func renderPayments(payments []*models.Payment) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Payments")
	tw.AppendHeader(table.Row{"Provider", "Reference", "Amount", "State", "Created", "Confirmed"})
	for _, p := range payments {
		tw.AppendRow(table.Row{
			string(p.Provider),
			p.ProviderRef,
			formatAmount(p.AmountCents, p.Currency),
			string(p.State),
			formatTime(&p.CreatedAt),
			formatTime(p.ConfirmedAt),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	return tw.Render()
}

func renderSnapshot(s *poller.StatusSnapshot) string {
	tw := newKeyValueTable("Meditation " + s.ID)
	tw.AppendRow(table.Row{"Status", s.Status})
	if s.FinalAudioURL != nil {
		tw.AppendRow(table.Row{"Final audio", *s.FinalAudioURL})
	}
	if s.Error != nil {
		tw.AppendRow(table.Row{"Error", *s.Error})
	}
	return tw.Render()
}

func paymentSummary(m *models.MeditationRequest) string {
	summary := formatAmount(m.AmountCents, m.Currency) + " " + string(m.PaymentState)
	if m.PaymentProvider != nil {
		summary += " via " + string(*m.PaymentProvider)
	}
	return summary
}

func deliverySummary(m *models.MeditationRequest) string {
	var channels []string
	if m.EmailSent {
		channels = append(channels, "email")
	}
	if m.SMSSent {
		channels = append(channels, "sms")
	}
	if m.PushSent {
		channels = append(channels, "push")
	}
	if len(channels) == 0 {
		return "-"
	}
	return strings.Join(channels, ", ")
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, strings.ToUpper(currency))
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
