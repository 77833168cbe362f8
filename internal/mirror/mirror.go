// Package mirror pushes analyzed results to the shared Postgres knowledge
// base. The local library remains the source of truth; the mirror is a
// best-effort replica other tools read from.
package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/types"
)

// Record is one row of the knowledge_base table.
type Record struct {
	TenantID       string
	Title          string
	SourceURL      string
	Summary        string
	Category       string
	RelevanceScore int
	ClientTags     []string
	ActionItems    []string
	AnalyzedAt     time.Time
}

// clientTagThreshold is the relevance score a client must exceed to be
// tagged on the mirrored row.
const clientTagThreshold = 50

// BuildRecord maps an analysis result onto a mirror row.
func BuildRecord(tenantID string, result *types.AnalysisResult) *Record {
	var tags []string
	for _, s := range result.ClientRelevanceScores {
		if s.Score > clientTagThreshold {
			tags = append(tags, s.ClientName)
		}
	}

	source := result.SourceURL
	if source == "" {
		source = "raw_input"
	}

	score := 0
	if result.StrategicAlignment != nil {
		score = result.StrategicAlignment.Score
	}

	return &Record{
		TenantID:       tenantID,
		Title:          result.Title,
		SourceURL:      source,
		Summary:        result.Summary,
		Category:       result.Category,
		RelevanceScore: score,
		ClientTags:     tags,
		ActionItems:    result.ActionItems,
		AnalyzedAt:     result.Timestamp,
	}
}

// Client mirrors library records into Postgres.
type Client struct {
	conn *pgx.Conn
	log  *zap.Logger
}

// Connect opens a Postgres connection from a connection string.
func Connect(ctx context.Context, databaseURL string, log *zap.Logger) (*Client, error) {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mirror database: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{conn: conn, log: log}, nil
}

// Push inserts one record into the knowledge base.
func (c *Client) Push(ctx context.Context, record *Record) error {
	_, err := c.conn.Exec(ctx,
		`INSERT INTO knowledge_base
		   (tenant_id, title, source_url, summary, category,
		    relevance_score, client_tags, action_items, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.TenantID, record.Title, record.SourceURL, record.Summary,
		record.Category, record.RelevanceScore, record.ClientTags,
		record.ActionItems, record.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("failed to push mirror record: %w", err)
	}

	c.log.Debug("mirrored record",
		zap.String("tenantId", record.TenantID),
		zap.String("title", record.Title))
	return nil
}

// Close releases the database connection.
func (c *Client) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
