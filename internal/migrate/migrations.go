// Package migrate brings a taskdash database up to the latest embedded
// schema. The applied version is tracked in sqlite's user_version
// pragma, and the shared id counter every entity kind draws from is
// bootstrapped here rather than in SQL, so a database restored from a
// partial dump never ends up without a counter row.
package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var schemaFS embed.FS

type migration struct {
	version int
	name    string
	stmts   string
}

// load reads the embedded sql/ directory. File names are
// <version>_<name>.sql and apply in version order.
func load() ([]migration, error) {
	entries, err := fs.ReadDir(schemaFS, "sql")
	if err != nil {
		return nil, err
	}
	var migrations []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: missing version prefix", e.Name())
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", e.Name(), err)
		}
		data, err := schemaFS.ReadFile("sql/" + e.Name())
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, migration{version: v, name: e.Name(), stmts: string(data)})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].version < migrations[j].version })
	return migrations, nil
}

// Migrate applies all pending migrations in one transaction and seeds
// the id sequence. Safe to call on every startup.
func Migrate(db *sql.DB) error {
	migrations, err := load()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if _, err := tx.Exec(m.stmts); err != nil {
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("advance user_version: %w", err)
		}
		version = m.version
	}
	if err := ensureSequence(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ensureSequence seeds the shared id counter exactly once. Ids start at
// 1 and only ever increase, even across deletes.
func ensureSequence(tx *sql.Tx) error {
	var rows int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM id_sequence`).Scan(&rows); err != nil {
		return fmt.Errorf("check id_sequence: %w", err)
	}
	if rows == 0 {
		if _, err := tx.Exec(`INSERT INTO id_sequence (next) VALUES (1)`); err != nil {
			return fmt.Errorf("seed id_sequence: %w", err)
		}
	}
	return nil
}
