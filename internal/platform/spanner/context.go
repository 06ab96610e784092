package spanner

import (
	"context"

	"cloud.google.com/go/spanner"
)

// ReadTransaction is the read surface shared by read-only and read-write
// Spanner transactions. Repositories accept it so the same read code
// works inside either.
type ReadTransaction interface {
	ReadRow(ctx context.Context, table string, key spanner.Key, columns []string) (*spanner.Row, error)
	Read(ctx context.Context, table string, keys spanner.KeySet, columns []string) *spanner.RowIterator
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

// rwTxKey is the context key for storing read-write transactions.
type rwTxKey struct{}

// roTxKey is the context key for storing read-only transactions.
type roTxKey struct{}

// WithReadWriteTx embeds a Spanner ReadWriteTransaction in the context.
func WithReadWriteTx(ctx context.Context, tx *spanner.ReadWriteTransaction) context.Context {
	return context.WithValue(ctx, rwTxKey{}, tx)
}

// ReadWriteTxFromContext extracts a Spanner ReadWriteTransaction from
// context. Returns (nil, false) if no transaction is present.
func ReadWriteTxFromContext(ctx context.Context) (*spanner.ReadWriteTransaction, bool) {
	tx, ok := ctx.Value(rwTxKey{}).(*spanner.ReadWriteTransaction)
	return tx, ok
}

// WithReadOnlyTx embeds a Spanner ReadOnlyTransaction in the context.
func WithReadOnlyTx(ctx context.Context, tx *spanner.ReadOnlyTransaction) context.Context {
	return context.WithValue(ctx, roTxKey{}, tx)
}

// ReadTransactionFromContext extracts a read surface from context: the
// read-write transaction if one is present, else the read-only one.
func ReadTransactionFromContext(ctx context.Context) (ReadTransaction, bool) {
	if tx, ok := ReadWriteTxFromContext(ctx); ok {
		return tx, true
	}
	if tx, ok := ctx.Value(roTxKey{}).(*spanner.ReadOnlyTransaction); ok {
		return tx, true
	}
	return nil, false
}
