// Package pgstore implements the docstore port on a PostgreSQL JSONB table.
//
// Every collection shares the documents table created by the migrations under
// assets/migrations; the collection name is part of the primary key.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/tracker/repository/docstore"
)

const uniqueViolation = "23505"

type Database struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Database {
	return &Database{pool: pool}
}

func (d *Database) Driver() string {
	return "postgres"
}

func (d *Database) Collection(name string) docstore.Collection {
	return &collection{pool: d.pool, name: name}
}

func (d *Database) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

func (d *Database) Close(context.Context) error {
	d.pool.Close()
	return nil
}

type collection struct {
	pool *pgxpool.Pool
	name string
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) FindOne(ctx context.Context, filter docstore.Filter, dst any) error {
	where, args, err := buildWhere(c.name, filter)
	if err != nil {
		return err
	}
	query := `SELECT doc FROM documents WHERE ` + where + ` ORDER BY created_at, id LIMIT 1`

	var raw []byte
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return docstore.ErrNoDocument
		}
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (c *collection) Find(ctx context.Context, filter docstore.Filter, dst any) error {
	where, args, err := buildWhere(c.name, filter)
	if err != nil {
		return err
	}
	query := `SELECT doc FROM documents WHERE ` + where + ` ORDER BY created_at, id`

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		docs = append(docs, append(json.RawMessage(nil), raw...))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dst)
}

func (c *collection) InsertOne(ctx context.Context, doc any) error {
	payload, id, err := encode(doc)
	if err != nil {
		return err
	}

	const query = `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb)`
	if _, err := c.pool.Exec(ctx, query, c.name, id, string(payload)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return docstore.ErrDuplicate
		}
		return err
	}
	return nil
}

func (c *collection) ReplaceOne(ctx context.Context, filter docstore.Filter, doc any) (int64, error) {
	payload, id, err := encode(doc)
	if err != nil {
		return 0, err
	}
	where, args, err := buildWhere(c.name, filter)
	if err != nil {
		return 0, err
	}
	args = append(args, string(payload), id)

	// The row lock taken by the CTE makes concurrent replaces re-evaluate the filter,
	// so two writers holding the same expected version cannot both match.
	query := fmt.Sprintf(`
	WITH target AS (
		SELECT id FROM documents WHERE %s ORDER BY created_at, id LIMIT 1 FOR UPDATE
	)
	UPDATE documents d
	SET doc = $%d::jsonb, updated_at = NOW()
	FROM target
	WHERE d.collection = $1 AND d.id = target.id AND target.id = $%d
	`, where, len(args)-1, len(args))

	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *collection) UpdateOne(ctx context.Context, filter docstore.Filter, set map[string]any) (int64, error) {
	patch, err := json.Marshal(set)
	if err != nil {
		return 0, err
	}
	where, args, err := buildWhere(c.name, filter)
	if err != nil {
		return 0, err
	}
	args = append(args, string(patch))

	query := fmt.Sprintf(`
	WITH target AS (
		SELECT id FROM documents WHERE %s ORDER BY created_at, id LIMIT 1 FOR UPDATE
	)
	UPDATE documents d
	SET doc = jsonb_set(d.doc || $%d::jsonb, '{version}', to_jsonb(COALESCE((d.doc->>'version')::int, 0) + 1)),
		updated_at = NOW()
	FROM target
	WHERE d.collection = $1 AND d.id = target.id
	`, where, len(args))

	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// buildWhere renders filter as a predicate over the documents table. $1 is always the collection.
func buildWhere(collection string, filter docstore.Filter) (string, []any, error) {
	clauses := []string{"collection = $1"}
	args := []any{collection}

	if id, ok := filter.ID(); ok {
		args = append(args, id)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}

	if conds := filter.Conditions(); len(conds) > 0 {
		containment := make(map[string]any)
		for _, cond := range conds {
			setPath(containment, cond.Field, cond.Value)
		}
		payload, err := json.Marshal(containment)
		if err != nil {
			return "", nil, err
		}
		args = append(args, string(payload))
		clauses = append(clauses, fmt.Sprintf("doc @> $%d::jsonb", len(args)))
	}

	if expected, ok := filter.Version(); ok {
		args = append(args, expected)
		clauses = append(clauses, fmt.Sprintf(
			"(doc->'%s' = to_jsonb($%d::int) OR NOT doc ? '%s')",
			docstore.VersionField, len(args), docstore.VersionField))
	}

	return strings.Join(clauses, " AND "), args, nil
}

func setPath(root map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func encode(doc any) ([]byte, string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, "", err
	}
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, "", err
	}
	if head.ID == "" {
		return nil, "", docstore.ErrMissingID
	}
	return payload, head.ID, nil
}
