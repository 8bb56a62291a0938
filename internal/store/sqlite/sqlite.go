package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"pulse/internal/domain"
	"pulse/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	posts_analyzed INTEGER NOT NULL,
	insufficient_data INTEGER NOT NULL,
	processing_time_ms INTEGER NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE IF NOT EXISTS assignments (
	run_id TEXT NOT NULL,
	post_id TEXT NOT NULL,
	cluster_id INTEGER NOT NULL,
	PRIMARY KEY (run_id, post_id)
);
CREATE TABLE IF NOT EXISTS sentiments (
	run_id TEXT NOT NULL,
	post_id TEXT NOT NULL,
	compound REAL NOT NULL,
	positive REAL NOT NULL,
	negative REAL NOT NULL,
	neutral REAL NOT NULL,
	label TEXT NOT NULL,
	source TEXT NOT NULL,
	PRIMARY KEY (run_id, post_id)
);
CREATE TABLE IF NOT EXISTS summaries (
	run_id TEXT NOT NULL,
	cluster_id INTEGER NOT NULL,
	label TEXT NOT NULL,
	keywords TEXT NOT NULL,
	post_count INTEGER NOT NULL,
	sentiment_avg REAL NOT NULL,
	sentiment_label TEXT NOT NULL,
	PRIMARY KEY (run_id, cluster_id)
);`

// Store persists batch results to a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates a store backed by the SQLite file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveResult writes the run's assignments, sentiments and summaries. Item
// failures are collected into the report instead of aborting the loop, so a
// partial write is visible item by item.
func (s *Store) SaveResult(ctx context.Context, result *domain.BatchResult) (*store.WriteReport, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, posts_analyzed, insufficient_data, processing_time_ms) VALUES (?, ?, ?, ?)`,
		result.RunID, result.PostsAnalyzed, boolToInt(result.InsufficientData), result.ProcessingTimeMs,
	); err != nil {
		return nil, fmt.Errorf("write run %s: %w", result.RunID, err)
	}

	report := &store.WriteReport{}
	for _, sent := range result.Sentiments {
		postID := sent.PostID
		clusterID, ok := result.Assignments[postID]
		if ok {
			if _, err := s.db.ExecContext(ctx,
				`INSERT OR REPLACE INTO assignments (run_id, post_id, cluster_id) VALUES (?, ?, ?)`,
				result.RunID, postID, clusterID,
			); err != nil {
				report.Failures = append(report.Failures, store.ItemError{
					Kind: store.KindAssignment, Key: postID, Err: err.Error(),
				})
			} else {
				report.Written++
			}
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO sentiments (run_id, post_id, compound, positive, negative, neutral, label, source)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, postID, sent.Score.Compound, sent.Score.Positive, sent.Score.Negative,
			sent.Score.Neutral, string(sent.Label), string(sent.Source),
		); err != nil {
			report.Failures = append(report.Failures, store.ItemError{
				Kind: store.KindSentiment, Key: postID, Err: err.Error(),
			})
		} else {
			report.Written++
		}
	}
	for _, summary := range result.Clusters {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO summaries (run_id, cluster_id, label, keywords, post_count, sentiment_avg, sentiment_label)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, summary.ID, summary.Label, strings.Join(summary.Keywords, ","),
			len(summary.PostIDs), summary.SentimentAvg, string(summary.SentimentLabel),
		); err != nil {
			report.Failures = append(report.Failures, store.ItemError{
				Kind: store.KindSummary, Key: strconv.Itoa(summary.ID), Err: err.Error(),
			})
		} else {
			report.Written++
		}
	}
	return report, nil
}

func (s *Store) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
