package tableside

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// credentialKey is the single row the store maintains, mirroring the one
// localStorage key the browser client used.
const credentialKey = "token"

type credentialRow struct {
	bun.BaseModel `bun:"table:credentials,alias:crd"`
	Key           string    `bun:"key,pk" json:"key"`
	Token         string    `bun:"token,notnull" json:"token"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// SQLiteTokenStore persists the bearer credential in a local sqlite file so
// sessions survive process restarts.
type SQLiteTokenStore struct {
	db     *bun.DB
	logger Logger
}

// NewSQLiteTokenStore opens (or creates) the credential database at path.
func NewSQLiteTokenStore(ctx context.Context, path string) (*SQLiteTokenStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*credentialRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteTokenStore{db: db, logger: defLogger{}}, nil
}

func (s *SQLiteTokenStore) WithLogger(logger Logger) *SQLiteTokenStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Load satisfies the TokenStore interface. Read faults are logged and
// reported as absence: the recovery path in both cases is a fresh login.
func (s *SQLiteTokenStore) Load(ctx context.Context) (string, bool) {
	row := new(credentialRow)
	err := s.db.NewSelect().
		Model(row).
		Where("key = ?", credentialKey).
		Scan(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("credential load failed: %v", err)
		}
		return "", false
	}
	return row.Token, true
}

// Save satisfies the TokenStore interface, overwriting any prior value.
func (s *SQLiteTokenStore) Save(ctx context.Context, token string) error {
	row := &credentialRow{
		Key:       credentialKey,
		Token:     token,
		UpdatedAt: time.Now(),
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (key) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// Clear satisfies the TokenStore interface. Clearing an empty store is a
// no-op.
func (s *SQLiteTokenStore) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*credentialRow)(nil)).
		Where("key = ?", credentialKey).
		Exec(ctx)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteTokenStore) Close() error {
	return s.db.Close()
}
