package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/entity"
)

type ContactRepository interface {
	Save(ctx context.Context, c *entity.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	List(ctx context.Context, fromDate, toDate *time.Time) ([]*entity.Contact, error)
	FindBySourceHash(ctx context.Context, hash string) (*entity.Contact, error)
}

type contactRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewContactRepository(db *sql.DB, logger *slog.Logger) ContactRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &contactRepository{
		db:     db,
		logger: logger,
	}
}

// $N placeholders work for both drivers: native in postgres, a supported
// named-parameter form in sqlite.
const contactColumns = `id, name, phone, email, source_path, source_hash, confidence, created_at`

// createdAtLayout is RFC3339 UTC with a fixed-width nanosecond fraction, so
// stored values all have the same length and lexicographic comparison matches
// chronological order. RFC3339Nano would trim trailing zeros and break both
// the range filter and ORDER BY ('.' sorts below 'Z').
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (r *contactRepository) Save(ctx context.Context, c *entity.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (`+contactColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID.String(), c.Name, c.Phone, c.Email,
		c.SourcePath, c.SourceHash, c.Confidence,
		c.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		r.logger.Error("failed to save contact", "contact_id", c.ID, "error", err)
		return common.WrapError(err, "save contact")
	}
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id.String())
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get contact", "contact_id", id, "error", err)
		return nil, common.WrapError(err, "get contact")
	}
	return c, nil
}

func (r *contactRepository) FindBySourceHash(ctx context.Context, hash string) (*entity.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE source_hash = $1 ORDER BY created_at LIMIT 1`, hash)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to find contact by hash", "source_hash", hash, "error", err)
		return nil, common.WrapError(err, "find contact by hash")
	}
	return c, nil
}

func (r *contactRepository) List(ctx context.Context, fromDate, toDate *time.Time) ([]*entity.Contact, error) {
	// created_at is stored fixed-width UTC, so string comparison orders correctly
	q := `SELECT ` + contactColumns + ` FROM contacts`
	var (
		conds []string
		args  []any
	)
	if fromDate != nil {
		args = append(args, fromDate.UTC().Format(createdAtLayout))
		conds = append(conds, "created_at >= $1")
	}
	if toDate != nil {
		args = append(args, toDate.UTC().Format(createdAtLayout))
		if len(conds) == 0 {
			conds = append(conds, "created_at <= $1")
		} else {
			conds = append(conds, "created_at <= $2")
		}
	}
	if len(conds) > 0 {
		q += " WHERE " + conds[0]
		if len(conds) > 1 {
			q += " AND " + conds[1]
		}
	}
	q += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list contacts", "error", err)
		return nil, common.WrapError(err, "list contacts")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.logger.Warn("close rows", "error", cerr)
		}
	}()

	var out []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan contact")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "list contacts")
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*entity.Contact, error) {
	var (
		c         entity.Contact
		idStr     string
		createdAt string
	)
	if err := row.Scan(&idStr, &c.Name, &c.Phone, &c.Email,
		&c.SourcePath, &c.SourceHash, &c.Confidence, &createdAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	c.ID = id
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = ts
	return &c, nil
}
