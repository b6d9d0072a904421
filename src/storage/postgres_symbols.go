package storage

import (
	"fmt"
	"regexp"
)

// Ticker entries of the form schema.table.field are expanded from a Postgres table.
var tableRefRegex = regexp.MustCompile(`^(\w+)\.(\w+)\.(\w+)$`)

// -----------------------------------------------------------------------------

// ExpandTickers resolves table references in the configured ticker list and
// returns plain symbols. Plain entries pass through unchanged.
func (d *PostgresDB) ExpandTickers(raw []string) ([]string, error) {
	var symbols []string

	for _, entry := range raw {
		matches := tableRefRegex.FindStringSubmatch(entry)
		if len(matches) != 4 {
			symbols = append(symbols, entry)
			continue
		}

		loaded, err := d.GetSymbolsFromTable(matches[1], matches[2], matches[3])
		if err != nil {
			return symbols, fmt.Errorf("failed to load symbols from %s: %w", entry, err)
		}
		d.Logger.Info("Loaded %d tickers from %s", len(loaded), entry)
		symbols = append(symbols, loaded...)
	}

	return symbols, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) GetSymbolsFromTable(schema, table, field string) ([]string, error) {
	// \w+ identifiers are safe once quoted
	query := fmt.Sprintf(`SELECT "%s" FROM "%s"."%s"`, field, schema, table)

	rows, err := d.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		if s != "" {
			symbols = append(symbols, s)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return symbols, nil
}
