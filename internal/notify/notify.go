// Package notify posts high-relevance alerts to a Slack-compatible
// incoming webhook. Delivery is fire-and-forget: failures are logged and
// never block or fail the calling flow.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/types"
)

// block is one Slack block-kit element.
type block struct {
	Type string     `json:"type"`
	Text *blockText `json:"text,omitempty"`
}

type blockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type payload struct {
	Blocks []block `json:"blocks"`
}

// Notifier delivers webhook alerts for high-relevance results.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	log        *zap.Logger
}

// NewNotifier creates a Notifier. An empty webhook URL disables delivery.
func NewNotifier(webhookURL string, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.webhookURL != ""
}

// NotifyHighRelevance posts an alert when the result's alignment score
// meets the notification threshold. Failures are swallowed after logging.
func (n *Notifier) NotifyHighRelevance(ctx context.Context, result *types.AnalysisResult) {
	if !n.Enabled() || result.StrategicAlignment == nil {
		return
	}
	if result.StrategicAlignment.Score < types.HighRelevanceThreshold {
		return
	}

	body, err := json.Marshal(buildPayload(result))
	if err != nil {
		n.log.Warn("failed to encode notification", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.log.Warn("failed to build notification request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.log.Warn("notification delivery failed",
			zap.String("id", result.ID), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.log.Warn("notification rejected",
			zap.String("id", result.ID),
			zap.Int("status", resp.StatusCode))
		return
	}

	n.log.Info("high relevance alert sent", zap.String("id", result.ID))
}

func buildPayload(result *types.AnalysisResult) *payload {
	header := fmt.Sprintf(":rotating_light: High Relevance Intel: *%s*", result.Title)
	detail := fmt.Sprintf("*Score:* %d/100\n*Category:* %s\n%s",
		result.StrategicAlignment.Score, result.Category, result.Summary)

	blocks := []block{
		{Type: "section", Text: &blockText{Type: "mrkdwn", Text: header}},
		{Type: "section", Text: &blockText{Type: "mrkdwn", Text: detail}},
	}
	if lines := topLines("Key Insights", result.KeyInsights); lines != "" {
		blocks = append(blocks, block{Type: "section", Text: &blockText{Type: "mrkdwn", Text: lines}})
	}
	if lines := topLines("Action Items", result.ActionItems); lines != "" {
		blocks = append(blocks, block{Type: "section", Text: &blockText{Type: "mrkdwn", Text: lines}})
	}
	if result.SourceURL != "" {
		blocks = append(blocks, block{
			Type: "section",
			Text: &blockText{Type: "mrkdwn", Text: fmt.Sprintf("<%s|Source>", result.SourceURL)},
		})
	}
	return &payload{Blocks: blocks}
}

// topLines renders up to three items as a titled mrkdwn list.
func topLines(title string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > 3 {
		items = items[:3]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*%s:*", title)
	for _, item := range items {
		fmt.Fprintf(&b, "\n• %s", item)
	}
	return b.String()
}
