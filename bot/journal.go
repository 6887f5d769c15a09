package bot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Journal 比价流水。机器人把每轮比较结果落到本地 sqlite，
// 方便事后对账和排查。
type Journal struct {
	db *sql.DB
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS comparisons (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  ts         TEXT NOT NULL,
  contract1  TEXT NOT NULL,
  contract2  TEXT NOT NULL,
  price1     REAL NOT NULL,
  price2     REAL NOT NULL,
  difference REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comparisons_ts ON comparisons(ts);
`

// Entry 一条比价记录
type Entry struct {
	ID         int64
	Time       time.Time
	Contract1  string
	Contract2  string
	Price1     float64
	Price2     float64
	Difference float64
}

// OpenJournal 打开（必要时创建）流水数据库
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record 追加一条比价记录。Time 为零值时取当前时间。
func (j *Journal) Record(ctx context.Context, e Entry) error {
	at := e.Time
	if at.IsZero() {
		at = time.Now()
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO comparisons (ts, contract1, contract2, price1, price2, difference)
VALUES (?,?,?,?,?,?)
`, at.UTC().Format(time.RFC3339Nano), e.Contract1, e.Contract2, e.Price1, e.Price2, e.Difference)
	if err != nil {
		return fmt.Errorf("record comparison: %w", err)
	}
	return nil
}

// Recent 取最近的比价记录，最新的在前
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, ts, contract1, contract2, price1, price2, difference
FROM comparisons ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Contract1, &e.Contract2, &e.Price1, &e.Price2, &e.Difference); err != nil {
			return nil, err
		}
		e.Time, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close 关闭数据库
func (j *Journal) Close() error {
	return j.db.Close()
}
