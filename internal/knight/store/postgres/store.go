// Package postgres is the PostgreSQL knight backend. Filtering, ordering and
// pagination run in SQL.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"knights/internal/knight/models"
	"knights/pkg/domain"
	"knights/pkg/platform/sentinel"
	"knights/pkg/platform/tx"
	"knights/pkg/requestcontext"
	"knights/pkg/search"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

const columns = `id, name, nickname, birthday, weapons, attributes, key_attribute, heroified_at, created_at, updated_at`

// orderColumns maps sortable fields to SQL expressions. Names compare
// byte-wise so ordering matches the in-memory backend.
var orderColumns = map[string]string{
	"name":      `name COLLATE "C"`,
	"createdAt": `created_at`,
}

// PostgresStore persists knights in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func New(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the knights table and its indexes when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.conn(ctx).ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply knights schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, k *models.Knight) error {
	if k == nil {
		return fmt.Errorf("knight is required")
	}
	r, err := toRecord(k)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx,
		`INSERT INTO knights (`+columns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.Name, r.Nickname, r.Birthday, r.Weapons, r.Attributes, r.KeyAttribute, r.HeroifiedAt, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert knight %s: %w", r.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert knight: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.KnightID) (*models.Knight, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+columns+` FROM knights WHERE id = $1`, id.String())
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("knight %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find knight: %w", err)
	}
	return toKnight(r, requestcontext.Now(ctx))
}

// FindAll returns every knight, newest first.
func (s *PostgresStore) FindAll(ctx context.Context) ([]*models.Knight, error) {
	return s.query(ctx, `SELECT `+columns+` FROM knights ORDER BY created_at DESC, id`)
}

// Update confirms the knight exists, then writes every mutable column in the
// same transaction.
func (s *PostgresStore) Update(ctx context.Context, k *models.Knight) error {
	if k == nil {
		return fmt.Errorf("knight is required")
	}
	r, err := toRecord(k)
	if err != nil {
		return err
	}
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		if err := s.ensureExists(ctx, k.ID()); err != nil {
			return err
		}
		// heroified_at is write-once; a write based on a stale read matches no row.
		res, err := s.conn(ctx).ExecContext(ctx,
			`UPDATE knights SET name = $2, nickname = $3, birthday = $4, weapons = $5, attributes = $6,
				key_attribute = $7, heroified_at = $8, updated_at = $9
			WHERE id = $1 AND (heroified_at IS NULL OR heroified_at = $8)`,
			r.ID, r.Name, r.Nickname, r.Birthday, r.Weapons, r.Attributes, r.KeyAttribute, r.HeroifiedAt, r.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("update knight %s: %w", r.ID, sentinel.ErrConflict)
			}
			return fmt.Errorf("update knight: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update knight: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("knight %s heroifiedAt: %w", r.ID, sentinel.ErrPreconditionFailed)
		}
		return nil
	})
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.KnightID) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		if err := s.ensureExists(ctx, id); err != nil {
			return err
		}
		if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM knights WHERE id = $1`, id.String()); err != nil {
			return fmt.Errorf("delete knight: %w", err)
		}
		return nil
	})
}

// EnsureNicknameAvailable fails with sentinel.ErrConflict when the nickname
// is already stored.
func (s *PostgresStore) EnsureNicknameAvailable(ctx context.Context, nickname string) error {
	var exists bool
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM knights WHERE nickname = $1)`, nickname,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check nickname: %w", err)
	}
	if exists {
		return fmt.Errorf("nickname %q: %w", nickname, sentinel.ErrConflict)
	}
	return nil
}

// Search runs the count and the page query concurrently over the same
// filter. Unsortable fields fall back to newest first; ties break on id.
func (s *PostgresStore) Search(ctx context.Context, p models.SearchParams) (models.SearchResult, error) {
	where, args := whereClause(p)
	order := p.Order()

	var total int
	var items []*models.Knight

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.conn(gctx).QueryRowContext(gctx, `SELECT COUNT(*) FROM knights`+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("count knights: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n := len(args)
		pageArgs := append(append([]any{}, args...), p.PerPage, p.Offset())
		q := fmt.Sprintf(`SELECT %s FROM knights%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
			columns, where, orderColumns[order.Field], sqlDirection(order.Dir), n+1, n+2)
		var err error
		items, err = s.query(gctx, q, pageArgs...)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.SearchResult{}, err
	}

	return search.NewResult(items, total, p.Params), nil
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]*models.Knight, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query knights: %w", err)
	}
	defer rows.Close()

	now := requestcontext.Now(ctx)
	var out []*models.Knight
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan knight: %w", err)
		}
		k, err := toKnight(r, now)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knights: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) conn(ctx context.Context) tx.Executor {
	return tx.Conn(ctx, s.db)
}

func (s *PostgresStore) ensureExists(ctx context.Context, id domain.KnightID) error {
	var exists bool
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM knights WHERE id = $1)`, id.String(),
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check knight: %w", err)
	}
	if !exists {
		return fmt.Errorf("knight %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func whereClause(p models.SearchParams) (string, []any) {
	var conds []string
	var args []any
	if p.HeroesOnly {
		conds = append(conds, "heroified_at IS NOT NULL")
	}
	if p.FilterBy != "" {
		args = append(args, "%"+escapeLike(p.FilterBy)+"%")
		conds = append(conds, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func sqlDirection(d search.Direction) string {
	if d == search.Desc {
		return "DESC"
	}
	return "ASC"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
