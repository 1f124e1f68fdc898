// Package journal keeps a local record of processed uploads in a bolt
// database. It is bookkeeping only: the delivery pipeline never consults it
// to decide what to upload.
package journal

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/blake2b-simd"
	bolt "go.etcd.io/bbolt"

	"github.com/snapcourier/snapcourier/pkg/model"
)

const uploadsBucket = "uploads"

// Entry is one processed task and its per-destination outcome.
type Entry struct {
	Path       string          `json:"path"`
	Size       int64           `json:"size"`
	Hash       string          `json:"hash,omitempty"`
	Outcomes   map[string]bool `json:"outcomes"`
	AnySuccess bool            `json:"anySuccess"`
	RecordedAt int64           `json:"recordedAt"` // Unix micros
}

// Journal wraps the bolt database holding upload records.
type Journal struct {
	db *bolt.DB
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(uploadsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal bucket: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores the outcome of one processed task. The file hash is computed
// best-effort; a file that disappeared after upload is recorded without one.
func (j *Journal) Record(task model.UploadTask, outcomes map[string]bool) error {
	anySuccess := false
	for _, ok := range outcomes {
		if ok {
			anySuccess = true
			break
		}
	}

	entry := Entry{
		Path:       task.Path,
		Size:       task.Size,
		Outcomes:   outcomes,
		AnySuccess: anySuccess,
		RecordedAt: time.Now().UnixMicro(),
	}
	if hash, err := fileHash(task.Path); err == nil {
		entry.Hash = hash
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	key := fmt.Sprintf("%020d-%s", entry.RecordedAt, filepath.Base(task.Path))
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(uploadsBucket)).Put([]byte(key), value)
	})
}

// List returns all recorded entries in insertion (chronological) order.
func (j *Journal) List() ([]Entry, error) {
	entries := make([]Entry, 0)
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(uploadsBucket)).ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal journal entry %s: %w", k, err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// fileHash computes the BLAKE2b-256 digest of the file at path.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake2b.New256()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
