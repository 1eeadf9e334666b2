package storage

import "io"

// Archive is a write-once sink for CSV export snapshots.
type Archive interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
