package cockroach

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/nicolasparada/go-errs"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultPageSize = 50

// Cursor points at the last item of a page. Messages are keyed by
// (created_at, id) so ties on the server timestamp stay stable.
type Cursor struct {
	ID        string    `msgpack:"i"`
	CreatedAt time.Time `msgpack:"t"`
}

func EncodeCursor(cursor Cursor) (string, error) {
	b, err := msgpack.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("msgpack marshal cursor: %w", err)
	}

	return base58.Encode(b), nil
}

func DecodeCursor(s string) (Cursor, error) {
	var c Cursor

	b := base58.Decode(s)
	if err := msgpack.Unmarshal(b, &c); err != nil {
		return c, errs.InvalidArgumentError("invalid cursor")
	}

	return c, nil
}
