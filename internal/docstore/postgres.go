package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/2beens/fitnesstracker/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var identifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresStore keeps every collection in its own table of (seq, id, doc JSONB).
// Field filters are JSONB containment (doc @> {...}), ids are stored as text.
// As in MongoDB, a collection without a table reads as empty and gets its
// table on the first insert.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates the tables for the given collections if needed.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool, collections ...string) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	for _, name := range collections {
		if err := createTable(ctx, s.db, name); err != nil {
			return nil, fmt.Errorf("create table %s: %w", name, err)
		}
	}
	return s, nil
}

func createTable(ctx context.Context, db *pgxpool.Pool, name string) error {
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("invalid collection name: %q", name)
	}
	table := pgx.Identifier{name}.Sanitize()
	index := pgx.Identifier{"ix_" + name + "_doc"}.Sanitize()

	if _, err := db.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL,
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		)`, table,
	)); err != nil {
		return err
	}
	_, err := db.Exec(ctx, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (doc jsonb_path_ops)`, index, table,
	))
	return err
}

func (s *PostgresStore) Collection(name string) Collection {
	return &postgresCollection{
		db:    s.db,
		name:  name,
		table: pgx.Identifier{name}.Sanitize(),
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	s.db.Close()
	return nil
}

type postgresCollection struct {
	db    *pgxpool.Pool
	name  string
	table string
}

// where builds the WHERE clause for filter; args numbering starts after offset.
func where(filter Filter, offset int) (string, []any, error) {
	id, fields, err := filter.split()
	if err != nil {
		return "", nil, err
	}

	var conds []string
	var args []any
	if id != nil {
		args = append(args, id.String())
		conds = append(conds, fmt.Sprintf("id = $%d", offset+len(args)))
	}
	if len(fields) > 0 {
		fieldsJson, err := json.Marshal(fields)
		if err != nil {
			return "", nil, fmt.Errorf("encode filter: %w", err)
		}
		args = append(args, string(fieldsJson))
		conds = append(conds, fmt.Sprintf("doc @> $%d::jsonb", offset+len(args)))
	}
	if len(conds) == 0 {
		return "TRUE", nil, nil
	}
	return strings.Join(conds, " AND "), args, nil
}

func (c *postgresCollection) FindOne(ctx context.Context, filter Filter, out any) error {
	cond, args, err := where(filter, 0)
	if err != nil {
		return err
	}

	var doc []byte
	err = c.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE %s ORDER BY seq LIMIT 1`, c.table, cond),
		args...,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) || pkg.IsUndefinedTableError(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(doc, out)
}

func (c *postgresCollection) Find(ctx context.Context, filter Filter, limit int64, out any) error {
	cond, args, err := where(filter, 0)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`SELECT doc FROM %s WHERE %s ORDER BY seq`, c.table, cond)
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	docs := make([]json.RawMessage, 0)
	rows, err := c.db.Query(ctx, query, args...)
	if pkg.IsUndefinedTableError(err) {
		return decodeFields(docs, out)
	}
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("rows scan: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil && !pkg.IsUndefinedTableError(err) {
		return err
	}

	return decodeFields(docs, out)
}

func (c *postgresCollection) InsertOne(ctx context.Context, doc Document) error {
	docJson, err := encodeDoc(doc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, c.table)
	_, err = c.db.Exec(ctx, query, doc.DocumentID().String(), docJson)
	if pkg.IsUndefinedTableError(err) {
		if err := createTable(ctx, c.db, c.name); err != nil {
			return fmt.Errorf("create table %s: %w", c.name, err)
		}
		_, err = c.db.Exec(ctx, query, doc.DocumentID().String(), docJson)
	}
	return c.mapErr(err)
}

func (c *postgresCollection) InsertMany(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, c.table)
	docJsons := make([]string, 0, len(docs))
	for _, doc := range docs {
		docJson, err := encodeDoc(doc)
		if err != nil {
			return err
		}
		docJsons = append(docJsons, docJson)
	}

	sendBatch := func() error {
		batch := &pgx.Batch{}
		for i, doc := range docs {
			batch.Queue(query, doc.DocumentID().String(), docJsons[i])
		}
		br := c.db.SendBatch(ctx, batch)
		for range docs {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return err
			}
		}
		return br.Close()
	}

	err := sendBatch()
	if pkg.IsUndefinedTableError(err) {
		if err := createTable(ctx, c.db, c.name); err != nil {
			return fmt.Errorf("create table %s: %w", c.name, err)
		}
		err = sendBatch()
	}
	return c.mapErr(err)
}

func (c *postgresCollection) UpdateOne(ctx context.Context, filter Filter, set map[string]any) (bool, error) {
	if err := checkSet(set); err != nil {
		return false, err
	}
	setJson, err := json.Marshal(set)
	if err != nil {
		return false, fmt.Errorf("encode update: %w", err)
	}

	cond, args, err := where(filter, 1)
	if err != nil {
		return false, err
	}

	tag, err := c.db.Exec(ctx,
		fmt.Sprintf(
			`UPDATE %[1]s SET doc = doc || $1::jsonb
			WHERE id = (SELECT id FROM %[1]s WHERE %[2]s ORDER BY seq LIMIT 1)`,
			c.table, cond,
		),
		append([]any{string(setJson)}, args...)...,
	)
	if pkg.IsUndefinedTableError(err) {
		return false, nil
	}
	if err != nil {
		return false, c.mapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (c *postgresCollection) DeleteOne(ctx context.Context, filter Filter) (bool, error) {
	cond, args, err := where(filter, 0)
	if err != nil {
		return false, err
	}

	tag, err := c.db.Exec(ctx,
		fmt.Sprintf(
			`DELETE FROM %[1]s WHERE id = (SELECT id FROM %[1]s WHERE %[2]s ORDER BY seq LIMIT 1)`,
			c.table, cond,
		),
		args...,
	)
	if pkg.IsUndefinedTableError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (c *postgresCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	cond, args, err := where(filter, 0)
	if err != nil {
		return 0, err
	}

	tag, err := c.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s`, c.table, cond), args...)
	if pkg.IsUndefinedTableError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *postgresCollection) EnsureUniqueIndex(ctx context.Context, field string, sparse bool) error {
	if !identifierRegex.MatchString(field) {
		return fmt.Errorf("invalid field name: %q", field)
	}

	query := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((doc->>'%s'))`,
		pgx.Identifier{"ux_" + c.name + "_" + field}.Sanitize(), c.table, field,
	)
	if sparse {
		query += fmt.Sprintf(` WHERE doc ? '%s'`, field)
	}

	_, err := c.db.Exec(ctx, query)
	return err
}

func (c *postgresCollection) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if pkg.IsUniqueViolationError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, err)
	}
	return err
}

func encodeDoc(doc Document) (string, error) {
	if doc.DocumentID().IsZero() {
		return "", fmt.Errorf("%w: document without id", ErrInvalidID)
	}
	docJson, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(docJson), nil
}
