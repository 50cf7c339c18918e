package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/blogsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/dmitrijs2005/blogsync/internal/dbx"
)

// Persistence stores the credential and the serialized identity. Both keys
// are always written and cleared together.
type Persistence interface {
	Load(ctx context.Context) (token string, user []byte, err error)
	Save(ctx context.Context, token string, user []byte) error
	Clear(ctx context.Context) error
}

// SQLPersistence keeps the session in the local metadata table.
type SQLPersistence struct {
	db *sql.DB
}

func NewSQLPersistence(db *sql.DB) *SQLPersistence {
	return &SQLPersistence{db: db}
}

var sessionKeys = []string{common.SessionTokenKey, common.SessionUserKey}

// Load returns empty values when nothing is stored.
func (p *SQLPersistence) Load(ctx context.Context) (string, []byte, error) {
	stored, err := metadata.NewSQLiteRepository(p.db).Lookup(ctx, sessionKeys...)
	if err != nil {
		return "", nil, fmt.Errorf("load session: %w", err)
	}
	return string(stored[common.SessionTokenKey]), stored[common.SessionUserKey], nil
}

func (p *SQLPersistence) Save(ctx context.Context, token string, user []byte) error {
	err := dbx.InTx(ctx, p.db, func(tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Put(ctx, map[string][]byte{
			common.SessionTokenKey: []byte(token),
			common.SessionUserKey:  user,
		})
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (p *SQLPersistence) Clear(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(p.db).Remove(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
