package sqlstore

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablekeep/tablekeep/internal/model"
)

func TestRebind(t *testing.T) {
	pg := &Store{dialect: Postgres}
	lite := &Store{dialect: SQLite}

	q := "UPDATE t SET a = ?, b = ? WHERE user_id = ? AND id = ?"
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE user_id = $3 AND id = $4", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap(nil, "op"))
	assert.True(t, errors.Is(wrap(sql.ErrNoRows, "get"), model.ErrNotFound))

	boom := errors.New("boom")
	err := wrap(boom, "insert")
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "insert")
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, intPtr(nullInt(nil)))
	assert.Equal(t, 7, *intPtr(nullInt(model.Ptr(7))))
	assert.Nil(t, timePtr(nullTime(nil)))
}
