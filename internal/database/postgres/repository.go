package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/page-analyzer/internal/database"
	"github.com/vadimbarashkov/page-analyzer/internal/models"
)

type urlRecord struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *urlRecord) ToURL() *models.URL {
	return &models.URL{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}

type checkRecord struct {
	ID          int64          `db:"id"`
	URLID       int64          `db:"url_id"`
	StatusCode  sql.NullInt32  `db:"status_code"`
	H1          sql.NullString `db:"h1"`
	Title       sql.NullString `db:"title"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r *checkRecord) ToURLCheck() *models.URLCheck {
	check := &models.URLCheck{
		ID:          r.ID,
		URLID:       r.URLID,
		H1:          r.H1.String,
		Title:       r.Title.String,
		Description: r.Description.String,
		CreatedAt:   r.CreatedAt,
	}

	if r.StatusCode.Valid {
		statusCode := int(r.StatusCode.Int32)
		check.StatusCode = &statusCode
	}

	return check
}

type urlSummaryRecord struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	CreatedAt   time.Time      `db:"created_at"`
	CheckID     sql.NullInt64  `db:"check_id"`
	CheckAt     sql.NullTime   `db:"check_created_at"`
	StatusCode  sql.NullInt32  `db:"status_code"`
	H1          sql.NullString `db:"h1"`
	Title       sql.NullString `db:"title"`
	Description sql.NullString `db:"description"`
}

func (r *urlSummaryRecord) ToURLSummary() models.URLSummary {
	summary := models.URLSummary{
		URL: models.URL{
			ID:        r.ID,
			Name:      r.Name,
			CreatedAt: r.CreatedAt,
		},
	}

	if r.CheckID.Valid {
		summary.LastCheck = &models.URLCheck{
			ID:          r.CheckID.Int64,
			URLID:       r.ID,
			H1:          r.H1.String,
			Title:       r.Title.String,
			Description: r.Description.String,
			CreatedAt:   r.CheckAt.Time,
		}

		if r.StatusCode.Valid {
			statusCode := int(r.StatusCode.Int32)
			summary.LastCheck.StatusCode = &statusCode
		}
	}

	return summary
}

// URLRepository provides access to the urls table.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{
		db: db,
	}
}

// Create inserts a new URL row. The unique constraint on name is the
// mechanism that prevents duplicate-submission races, so a violation is
// mapped to database.ErrURLExists rather than treated as a storage fault.
func (r *URLRepository) Create(ctx context.Context, name string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.Create"

	rec := new(urlRecord)
	query := `INSERT INTO urls(name)
		VALUES ($1)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, name)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLExists)
		}

		return nil, fmt.Errorf("%s: failed to create url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

func (r *URLRepository) GetByName(ctx context.Context, name string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetByName"

	rec := new(urlRecord)
	query := `SELECT * FROM urls WHERE name = $1`

	err := r.db.GetContext(ctx, rec, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

func (r *URLRepository) GetByID(ctx context.Context, id int64) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetByID"

	rec := new(urlRecord)
	query := `SELECT * FROM urls WHERE id = $1`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

// ListWithLatestCheck returns all URLs ordered by creation time descending,
// each paired with its latest check by created_at, or none at all.
func (r *URLRepository) ListWithLatestCheck(ctx context.Context) ([]models.URLSummary, error) {
	const op = "database.postgres.URLRepository.ListWithLatestCheck"

	var recs []urlSummaryRecord
	query := `SELECT u.id, u.name, u.created_at,
			c.id AS check_id, c.created_at AS check_created_at,
			c.status_code, c.h1, c.title, c.description
		FROM urls u
		LEFT JOIN (
			SELECT DISTINCT ON (url_id) *
			FROM url_checks
			ORDER BY url_id, created_at DESC
		) c ON c.url_id = u.id
		ORDER BY u.created_at DESC`

	err := r.db.SelectContext(ctx, &recs, query)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list url records: %w", op, err)
	}

	summaries := make([]models.URLSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, rec.ToURLSummary())
	}

	return summaries, nil
}

// CheckRepository provides access to the url_checks table.
type CheckRepository struct {
	db *sqlx.DB
}

func NewCheckRepository(db *sqlx.DB) *CheckRepository {
	return &CheckRepository{
		db: db,
	}
}

func (r *CheckRepository) Create(ctx context.Context, urlID int64, statusCode int, h1, title, description string) (*models.URLCheck, error) {
	const op = "database.postgres.CheckRepository.Create"

	rec := new(checkRecord)
	query := `INSERT INTO url_checks(url_id, status_code, h1, title, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, urlID, statusCode, h1, title, description)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create check record: %w", op, err)
	}

	return rec.ToURLCheck(), nil
}

func (r *CheckRepository) ListByURL(ctx context.Context, urlID int64) ([]models.URLCheck, error) {
	const op = "database.postgres.CheckRepository.ListByURL"

	var recs []checkRecord
	query := `SELECT * FROM url_checks WHERE url_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &recs, query, urlID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list check records: %w", op, err)
	}

	checks := make([]models.URLCheck, 0, len(recs))
	for _, rec := range recs {
		checks = append(checks, *rec.ToURLCheck())
	}

	return checks, nil
}
