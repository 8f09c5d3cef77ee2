package db

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS brews (
		log_index INTEGER PRIMARY KEY,
		brewed_at DATETIME NOT NULL,
		bean_name TEXT NOT NULL DEFAULT '',
		grinder TEXT NOT NULL DEFAULT '',
		dose REAL NOT NULL,
		grind_size REAL NOT NULL,
		pre_infusion_time REAL NOT NULL,
		yield REAL NOT NULL,
		shot_time REAL NOT NULL,
		sourness INTEGER NOT NULL,
		bitterness INTEGER NOT NULL,
		sweetness INTEGER NOT NULL,
		body INTEGER NOT NULL,
		overall_satisfaction INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		suggestion TEXT NOT NULL DEFAULT '',
		favorite BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_brews_brewed_at ON brews(brewed_at);
	CREATE INDEX IF NOT EXISTS idx_brews_bean_name ON brews(bean_name);
	`

	_, err := db.conn.Exec(schema)
	return err
}
