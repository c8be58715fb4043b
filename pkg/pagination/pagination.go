package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a keyset page request: an opaque cursor from the previous page
// and a requested size.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the keyset position (newest first): rows strictly older than
// (At, ID) belong to the next page.
type Cursor struct {
	At time.Time
	ID uuid.UUID
}

type cursorWire struct {
	At int64     `json:"t"`
	ID uuid.UUID `json:"i"`
}

func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer is the row count to fetch so one extra row signals a next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

func EncodeCursor(c Cursor) string {
	raw, _ := json.Marshal(cursorWire{At: c.At.UTC().UnixNano(), ID: c.ID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// ParseCursor decodes a cursor from EncodeCursor. Blank input means the
// first page and returns nil without error.
func ParseCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	var wire cursorWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	if wire.ID == uuid.Nil || wire.At <= 0 {
		return nil, errors.New("cursor is incomplete")
	}
	return &Cursor{At: time.Unix(0, wire.At).UTC(), ID: wire.ID}, nil
}

// Cut trims rows fetched with LimitWithBuffer to the page size. When more
// rows exist it returns the cursor for the next page, built from the last
// kept row by position.
func Cut[T any](rows []T, limit int, position func(T) Cursor) ([]T, string) {
	size := NormalizeLimit(limit)
	if len(rows) <= size {
		return rows, ""
	}
	page := rows[:size]
	return page, EncodeCursor(position(page[size-1]))
}
