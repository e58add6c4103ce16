package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS artifacts (
	id            INTEGER PRIMARY KEY,
	slot_key      TEXT NOT NULL,
	set_key       TEXT NOT NULL,
	rarity        TEXT NOT NULL,
	level         TEXT NOT NULL,
	main_stat_key TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS substats (
	artifact_id INTEGER NOT NULL REFERENCES artifacts(id),
	position    INTEGER NOT NULL,
	key         TEXT NOT NULL,
	value       TEXT NOT NULL,
	PRIMARY KEY (artifact_id, position)
);
`

// LoadSQLite reads an inventory database with an artifacts table and a
// substats table keyed by artifact id. Artifacts are read in id order and
// substats in position order.
func LoadSQLite(ctx context.Context, path string) (domain.Pools, Report, error) {
	rep := Report{Source: path}
	if _, err := os.Stat(path); err != nil {
		return domain.Pools{}, rep, fmt.Errorf("open catalog %q: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return domain.Pools{}, rep, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	defer db.Close()

	subs, bad, err := loadSQLiteSubstats(ctx, db)
	if err != nil {
		return domain.Pools{}, rep, fmt.Errorf("read substats from %q: %w", path, err)
	}

	rows, err := db.QueryContext(ctx, `SELECT id, slot_key, set_key, rarity, level, main_stat_key FROM artifacts ORDER BY id`)
	if err != nil {
		return domain.Pools{}, rep, fmt.Errorf("read artifacts from %q: %w", path, err)
	}
	defer rows.Close()

	var pools domain.Pools
	for rows.Next() {
		var id int64
		var rec record
		if err := rows.Scan(&id, &rec.slot, &rec.set, &rec.rarity, &rec.level, &rec.mainStat); err != nil {
			return domain.Pools{}, rep, fmt.Errorf("scan artifact row: %w", err)
		}
		if e, ok := bad[id]; ok {
			rep.skip("artifact %d: %v", id, e)
			continue
		}
		rec.substats = subs[id]
		it, err := rec.item()
		if err != nil {
			rep.skip("artifact %d: %v", id, err)
			continue
		}
		pools.Add(it)
		rep.Loaded++
	}
	if err := rows.Err(); err != nil {
		return domain.Pools{}, rep, err
	}
	return pools, rep, nil
}

func loadSQLiteSubstats(ctx context.Context, db *sql.DB) (map[int64][]domain.Attribute, map[int64]error, error) {
	rows, err := db.QueryContext(ctx, `SELECT artifact_id, key, value FROM substats ORDER BY artifact_id, position`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.Attribute)
	bad := make(map[int64]error)
	for rows.Next() {
		var id int64
		var key, raw string
		if err := rows.Scan(&id, &key, &raw); err != nil {
			return nil, nil, err
		}
		v, err := parseValue(raw)
		if err != nil {
			bad[id] = fmt.Errorf("%s: %w", key, err)
			continue
		}
		out[id] = append(out[id], domain.Attribute{Key: key, Value: v})
	}
	return out, bad, rows.Err()
}

// WriteSQLite creates (or appends to) an inventory database in the layout
// LoadSQLite reads.
func WriteSQLite(ctx context.Context, path string, pools *domain.Pools) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite %q: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for s := range pools {
		for _, it := range pools[s] {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO artifacts (slot_key, set_key, rarity, level, main_stat_key) VALUES (?, ?, ?, ?, ?)`,
				it.Slot.String(), it.SetKey, fmt.Sprint(it.Rarity), fmt.Sprint(it.Level), it.MainStatKey)
			if err != nil {
				return fmt.Errorf("insert artifact: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for pos, sub := range it.Substats {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO substats (artifact_id, position, key, value) VALUES (?, ?, ?, ?)`,
					id, pos, sub.Key, fmt.Sprint(sub.Value)); err != nil {
					return fmt.Errorf("insert substat: %w", err)
				}
			}
		}
	}
	return tx.Commit()
}
