package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"bintrack/pkg/logger"
)

// Snapshot is a point-in-time JSON dump of all inventory tables.
type Snapshot struct {
	TakenAt    time.Time         `json:"taken_at"`
	Bins       []json.RawMessage `json:"bins"`
	Items      []json.RawMessage `json:"items"`
	Placements []json.RawMessage `json:"placements"`
	History    []json.RawMessage `json:"history"`
}

// Snapshotter dumps and restores database contents as zstd-compressed JSON.
type Snapshotter struct {
	txManager *TxManager
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewSnapshotter creates a snapshotter bound to the given transaction manager.
func NewSnapshotter(txManager *TxManager) (*Snapshotter, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Snapshotter{
		txManager: txManager,
		encoder:   encoder,
		decoder:   decoder,
	}, nil
}

// snapshotTables lists dumped tables in dependency order so Restore can
// replay them with foreign keys intact.
var snapshotTables = []string{"bins", "items", "placements", "history"}

// Dump writes a compressed snapshot into dir and returns the file path.
// The dump runs in a read-only transaction so all tables are consistent.
func (s *Snapshotter) Dump(ctx context.Context, dir string) (string, error) {
	snap := Snapshot{TakenAt: time.Now().UTC()}

	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		for _, table := range snapshotTables {
			rows, err := s.dumpTable(ctx, table)
			if err != nil {
				return fmt.Errorf("dump %s: %w", table, err)
			}
			switch table {
			case "bins":
				snap.Bins = rows
			case "items":
				snap.Items = rows
			case "placements":
				snap.Placements = rows
			case "history":
				snap.History = rows
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	compressed := s.encoder.EncodeAll(raw, nil)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("bintrack_%s.json.zst", snap.TakenAt.Format("20060102_150405")))
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	logger.Info(ctx, "snapshot written",
		"path", path,
		"bins", len(snap.Bins),
		"items", len(snap.Items),
		"placements", len(snap.Placements),
		"history", len(snap.History),
	)
	return path, nil
}

// dumpTable serializes every row of a table to JSON via row_to_json.
func (s *Snapshotter) dumpTable(ctx context.Context, table string) ([]json.RawMessage, error) {
	querier := s.txManager.GetQuerier(ctx)
	rows, err := querier.Query(ctx, fmt.Sprintf("SELECT row_to_json(t) FROM %s t", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var raw json.RawMessage
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}

// Read loads and decompresses a snapshot file.
func (s *Snapshotter) Read(path string) (*Snapshot, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	raw, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// ClearPlacements deletes all placement rows, leaving catalogs and history.
func (s *Snapshotter) ClearPlacements(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		tag, err := s.txManager.GetQuerier(ctx).Exec(ctx, "DELETE FROM placements")
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	return deleted, err
}

// ClearHistory deletes all history rows.
func (s *Snapshotter) ClearHistory(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		tag, err := s.txManager.GetQuerier(ctx).Exec(ctx, "DELETE FROM history")
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	return deleted, err
}
