// Package store keeps client-local read state: which threads this
// machine has already looked at. Purely a convenience layer on top of
// the server feed; nothing here is ever written back to the server.
package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Trung-Hieu-Le/forum-cli/model"
	"github.com/Trung-Hieu-Le/forum-cli/utils"
)

type ReadStateDB struct {
	Filename string
	DB       *sql.DB
}

func OpenReadState(path string) (rdb *ReadStateDB, err error) {
	var existing bool
	if existing, err = utils.PathExists(path); err == nil {
		var db *sql.DB
		if db, err = sql.Open("sqlite3", path); err == nil {
			rdb = &ReadStateDB{Filename: path, DB: db}
			if !existing {
				err = rdb.initTables()
			}
		}
	}
	if err != nil && rdb != nil {
		rdb.DB.Close()
		rdb = nil
	}
	return
}

func (rdb *ReadStateDB) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS read_threads (
		thread_id INTEGER PRIMARY KEY,
		read_at INTEGER NOT NULL
	);`
	_, err := rdb.DB.Exec(schema)
	return err
}

func (rdb *ReadStateDB) Close() {
	rdb.DB.Close()
}

// MarkRead records that the viewer has seen a thread. Re-marking an
// already-read thread refreshes its timestamp.
func (rdb *ReadStateDB) MarkRead(id model.ThreadID, when time.Time) error {
	_, err := rdb.DB.Exec(
		`INSERT INTO read_threads (thread_id, read_at) VALUES (?, ?)
		 ON CONFLICT (thread_id) DO UPDATE SET read_at = excluded.read_at`,
		int64(id), when.Unix())
	return err
}

// IsRead reports whether a thread has been marked read.
func (rdb *ReadStateDB) IsRead(id model.ThreadID) (read bool, err error) {
	var count int
	err = rdb.DB.QueryRow(
		`SELECT COUNT(*) FROM read_threads WHERE thread_id = ?`, int64(id)).Scan(&count)
	read = count > 0
	return
}

// ReadIDs returns the subset of ids already marked read, keyed for the
// list renderer's unread highlighting.
func (rdb *ReadStateDB) ReadIDs(ids []model.ThreadID) (read map[model.ThreadID]bool, err error) {
	read = make(map[model.ThreadID]bool)
	for _, id := range ids {
		var isRead bool
		if isRead, err = rdb.IsRead(id); err != nil {
			return nil, err
		}
		if isRead {
			read[id] = true
		}
	}
	return
}
