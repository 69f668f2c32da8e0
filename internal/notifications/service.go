package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pheme/internal/catalog"
	"pheme/internal/change"
	"pheme/internal/config"
)

const userAgent = "Pheme-Go/0.1.0"

// Service is the notification surface the sweeps and the CLI publish to.
// Events are delivered in the order produced.
type Service interface {
	NotifyChanges(ctx context.Context, family catalog.Family, events []change.Event) error
	NotifyBirthdays(ctx context.Context, greetings []string) error
	TestNotification(ctx context.Context) error
}

// NewService picks the backend from configuration: Discord webhooks when any
// is set, otherwise an ntfy topic, otherwise a noop sink.
func NewService(cfg *config.Config) Service {
	n := cfg.Notifications
	timeout := time.Duration(n.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	if n.DiscordMainWebhook != "" || n.DiscordTCGWebhook != "" || n.DiscordSeriesWebhook != "" {
		return &discordService{
			client: client,
			webhooks: map[catalog.Family]string{
				catalog.FamilyGames:  n.DiscordMainWebhook,
				catalog.FamilyCards:  n.DiscordTCGWebhook,
				catalog.FamilySeries: n.DiscordSeriesWebhook,
			},
			fallback: n.DiscordMainWebhook,
		}
	}
	if n.NtfyTopic != "" {
		return &ntfyService{endpoint: n.NtfyTopic, client: client}
	}
	return noopService{}
}

type noopService struct{}

func (noopService) NotifyChanges(context.Context, catalog.Family, []change.Event) error {
	return nil
}

func (noopService) NotifyBirthdays(context.Context, []string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }

// discordService posts plain-text messages to per-family webhooks. Families
// without a dedicated webhook fall back to the main one.
type discordService struct {
	client   *http.Client
	webhooks map[catalog.Family]string
	fallback string
}

func (d *discordService) NotifyChanges(ctx context.Context, family catalog.Family, events []change.Event) error {
	webhook := d.webhookFor(family)
	if webhook == "" {
		return nil
	}
	for _, event := range events {
		if err := d.post(ctx, webhook, event.Message()); err != nil {
			return err
		}
	}
	return nil
}

func (d *discordService) NotifyBirthdays(ctx context.Context, greetings []string) error {
	if d.fallback == "" {
		return nil
	}
	for _, greeting := range greetings {
		if err := d.post(ctx, d.fallback, greeting); err != nil {
			return err
		}
	}
	return nil
}

func (d *discordService) TestNotification(ctx context.Context) error {
	webhook := d.fallback
	if webhook == "" {
		webhook = d.webhookFor(catalog.FamilyCards)
	}
	if webhook == "" {
		webhook = d.webhookFor(catalog.FamilySeries)
	}
	if webhook == "" {
		return nil
	}
	return d.post(ctx, webhook, "Pheme notification test")
}

func (d *discordService) webhookFor(family catalog.Family) string {
	if webhook := d.webhooks[family]; webhook != "" {
		return webhook
	}
	return d.fallback
}

func (d *discordService) post(ctx context.Context, webhook, message string) error {
	body, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("encode discord payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyChanges(ctx context.Context, family catalog.Family, events []change.Event) error {
	for _, event := range events {
		title := "Pheme - " + titleFor(event.Kind)
		if err := n.send(ctx, title, event.Message(), string(family)); err != nil {
			return err
		}
	}
	return nil
}

func (n *ntfyService) NotifyBirthdays(ctx context.Context, greetings []string) error {
	for _, greeting := range greetings {
		if err := n.send(ctx, "Pheme - Birthday", greeting, "birthday"); err != nil {
			return err
		}
	}
	return nil
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, "Pheme - Test", "Pheme notification test", "test")
}

func titleFor(kind change.Kind) string {
	switch kind {
	case change.KindDecrease:
		return "Price Drop"
	case change.KindDiscount:
		return "Discount"
	case change.KindStatus:
		return "New Release"
	case change.KindTracking:
		return "Tracking"
	default:
		return "Update"
	}
}

func (n *ntfyService) send(ctx context.Context, title, message, tag string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", title)
	if tag != "" {
		req.Header.Set("Tags", "pheme,"+tag)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
