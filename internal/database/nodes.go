package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cloudshelf/internal/models"
)

const nodeColumns = `id, owner_id, name, node_type, path, size_bytes, mime_type, blob_ref, download_url, created_at, modified_at`

func scanNode(row pgx.Row) (*models.Node, error) {
	var node models.Node
	err := row.Scan(
		&node.ID,
		&node.OwnerID,
		&node.Name,
		&node.NodeType,
		&node.Path,
		&node.SizeBytes,
		&node.MimeType,
		&node.BlobRef,
		&node.DownloadURL,
		&node.CreatedAt,
		&node.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func collectNodes(rows pgx.Rows) ([]models.Node, error) {
	defer rows.Close()

	var nodes []models.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if nodes == nil {
		return []models.Node{}, nil
	}
	return nodes, nil
}

func (q *Queries) CreateNode(ctx context.Context, arg CreateNodeParams) (*models.Node, error) {
	query := `
		INSERT INTO nodes (id, owner_id, name, node_type, path, size_bytes, mime_type, blob_ref, download_url, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + nodeColumns
	now := time.Now()

	node, err := scanNode(q.db.QueryRow(ctx, query,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.NodeType,
		arg.Path,
		arg.SizeBytes,
		arg.MimeType,
		arg.BlobRef,
		arg.DownloadURL,
		now,
		now,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateNodeName
		}
		return nil, err
	}

	return node, nil
}

func (q *Queries) GetNodeByID(ctx context.Context, id string, ownerID int64) (*models.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE id = $1 AND owner_id = $2`

	node, err := scanNode(q.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return node, nil
}

func (q *Queries) ListNodesByPath(ctx context.Context, ownerID int64, path string) ([]models.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE owner_id = $1 AND path = $2`

	rows, err := q.db.Query(ctx, query, ownerID, path)
	if err != nil {
		return nil, err
	}
	return collectNodes(rows)
}

// ListSubtree matches on path segments, not raw prefixes: location "/Docs"
// yields nodes at "/Docs" and "/Docs/...", never at "/DocsBackup".
func (q *Queries) ListSubtree(ctx context.Context, ownerID int64, location string) ([]models.Node, error) {
	query := `
		SELECT ` + nodeColumns + `
		FROM nodes
		WHERE owner_id = $1 AND (path = $2 OR starts_with(path, $3))
	`
	rows, err := q.db.Query(ctx, query, ownerID, location, location+"/")
	if err != nil {
		return nil, err
	}
	return collectNodes(rows)
}

func (q *Queries) NodeExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM nodes WHERE id = $1)`
	err := q.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (q *Queries) NodeExistsAtPath(ctx context.Context, ownerID int64, path, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM nodes WHERE owner_id = $1 AND path = $2 AND name = $3)`
	err := q.db.QueryRow(ctx, query, ownerID, path, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (q *Queries) RenameNode(ctx context.Context, id string, ownerID int64, newName string) (bool, error) {
	query := `
		UPDATE nodes
		SET name = $1, modified_at = $2
		WHERE id = $3 AND owner_id = $4
	`
	res, err := q.db.Exec(ctx, query, newName, time.Now(), id, ownerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, ErrDuplicateNodeName
		}
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

// SetNodePath re-keys a single record to a new parent location. Descendant
// records are not touched; cascades are the service layer's batch.
func (q *Queries) SetNodePath(ctx context.Context, id string, ownerID int64, newPath string) (bool, error) {
	query := `
		UPDATE nodes
		SET path = $1, modified_at = $2
		WHERE id = $3 AND owner_id = $4
	`
	res, err := q.db.Exec(ctx, query, newPath, time.Now(), id, ownerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, ErrDuplicateNodeName
		}
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteNode(ctx context.Context, id string, ownerID int64) (bool, error) {
	query := `DELETE FROM nodes WHERE id = $1 AND owner_id = $2`
	res, err := q.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
