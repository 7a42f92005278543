package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/donaldgifford/automerch/internal/metrics"
)

const (
	colorGreen  = 0x2ECC71
	colorOrange = 0xE67E22
	colorRed    = 0xE74C3C

	maxEmbeds = 10
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

type discordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendEvent sends a single event as a Discord embed.
func (d *DiscordNotifier) SendEvent(ctx context.Context, ev *Event) error {
	return d.post(ctx, discordWebhookPayload{
		Username: "automerch",
		Embeds:   []discordEmbed{buildEmbed(ev)},
	})
}

// SendBatch sends multiple events as a single Discord message.
func (d *DiscordNotifier) SendBatch(ctx context.Context, events []Event, subject string) error {
	if len(events) == 0 {
		return nil
	}

	limit := min(len(events), maxEmbeds)
	embeds := make([]discordEmbed, 0, limit+1)
	for i := range limit {
		embeds = append(embeds, buildEmbed(&events[i]))
	}

	// Discord allows at most 10 embeds per message.
	if len(events) > maxEmbeds {
		embeds[maxEmbeds-1] = discordEmbed{
			Title:       fmt.Sprintf("... and %d more events for %s", len(events)-maxEmbeds+1, subject),
			Color:       colorOrange,
			Description: "Check the run history for the full list.",
		}
	}

	return d.post(ctx, discordWebhookPayload{Username: "automerch", Embeds: embeds})
}

func buildEmbed(ev *Event) discordEmbed {
	embed := discordEmbed{
		Title:       ev.Title,
		Color:       severityColor(ev.Severity),
		Description: ev.Summary,
	}
	if ev.Job != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Job", Value: ev.Job, Inline: true})
	}
	if ev.ShopID != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Shop", Value: ev.ShopID, Inline: true})
	}

	keys := make([]string, 0, len(ev.Fields))
	for k := range ev.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: k, Value: ev.Fields[k], Inline: true})
	}

	if !ev.Time.IsZero() {
		embed.Timestamp = ev.Time.UTC().Format(time.RFC3339)
	}
	return embed
}

func severityColor(s Severity) int {
	switch s {
	case SeverityError:
		return colorRed
	case SeverityWarning:
		return colorOrange
	default:
		return colorGreen
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	start := time.Now()
	err := d.send(ctx, payload)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
	}
	return err
}

func (d *DiscordNotifier) send(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.New("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
