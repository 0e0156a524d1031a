package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/ttma1046/launchmeow/core"
)

// Key layout:
//   launch/<id>        -> core.Launch JSON
//   post/<id>          -> "1" once the post has been consumed
//   cursor/social      -> last seen post ID
const (
	launchPrefix = "launch/"
	postPrefix   = "post/"
	cursorKey    = "cursor/social"
)

// Store is the pipeline's persistent state: launches, the processed-post
// dedupe set, and the social poll cursor.
type Store interface {
	SaveLaunch(launch core.Launch) error
	GetLaunch(id string) (core.Launch, error)
	ListLaunches() ([]core.Launch, error)

	MarkPostProcessed(postID string) error
	IsPostProcessed(postID string) (bool, error)

	SetCursor(postID string) error
	GetCursor() (string, error)

	Close() error
	RunGC() error
}

// ErrNotFound is returned when a launch is not in the store.
var ErrNotFound = badger.ErrKeyNotFound

type DBMetrics struct {
	PutCount int64
	GetCount int64
	Errors   int64
}

// DBStore is a BadgerDB-backed Store.
type DBStore struct {
	db      *badger.DB
	config  BadgerDBConfig
	metrics DBMetrics
	stopGC  chan struct{}
}

// Open opens (or creates) the store under config.DataDir.
func Open(config BadgerDBConfig) (*DBStore, error) {
	opts := badger.DefaultOptions(filepath.Join(config.DataDir, "badgerdb"))
	if config.DisableLogging {
		opts.Logger = nil
	}
	opts.InMemory = config.InMemory
	opts.SyncWrites = config.SyncWrites
	if config.InMemory {
		opts.Dir = ""
		opts.ValueDir = ""
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %v", err)
	}

	s := &DBStore{db: db, config: config, stopGC: make(chan struct{})}
	if config.GCInterval > 0 {
		go s.gcLoop(time.Duration(config.GCInterval) * time.Second)
	}
	return s, nil
}

func (s *DBStore) gcLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.RunGC(); err != nil && err != badger.ErrNoRewrite {
				log.Printf("BadgerDB GC failed: %v", err)
			}
		case <-s.stopGC:
			return
		}
	}
}

func (s *DBStore) put(key string, value []byte) error {
	atomic.AddInt64(&s.metrics.PutCount, 1)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		atomic.AddInt64(&s.metrics.Errors, 1)
		log.Printf("BadgerDB put failed for key %s: %v", key, err)
	}
	return err
}

func (s *DBStore) get(key string) ([]byte, error) {
	atomic.AddInt64(&s.metrics.GetCount, 1)
	var valCopy []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	return valCopy, err
}

// SaveLaunch upserts a launch record.
func (s *DBStore) SaveLaunch(launch core.Launch) error {
	data, err := json.Marshal(launch)
	if err != nil {
		return fmt.Errorf("marshal launch %s: %w", launch.ID, err)
	}
	return s.put(launchPrefix+launch.ID, data)
}

// GetLaunch returns the launch with the given ID, or ErrNotFound.
func (s *DBStore) GetLaunch(id string) (core.Launch, error) {
	var launch core.Launch
	data, err := s.get(launchPrefix + id)
	if err != nil {
		return launch, err
	}
	if err := json.Unmarshal(data, &launch); err != nil {
		return launch, fmt.Errorf("unmarshal launch %s: %w", id, err)
	}
	return launch, nil
}

// ListLaunches returns all launches, newest first.
func (s *DBStore) ListLaunches() ([]core.Launch, error) {
	var launches []core.Launch
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(launchPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var launch core.Launch
				if err := json.Unmarshal(val, &launch); err != nil {
					return err
				}
				launches = append(launches, launch)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(launches, func(i, j int) bool {
		return launches[i].CreatedAt > launches[j].CreatedAt
	})
	return launches, nil
}

// MarkPostProcessed records that a post has been consumed.
func (s *DBStore) MarkPostProcessed(postID string) error {
	return s.put(postPrefix+postID, []byte("1"))
}

// IsPostProcessed reports whether a post was already consumed.
func (s *DBStore) IsPostProcessed(postID string) (bool, error) {
	_, err := s.get(postPrefix + postID)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetCursor saves the newest post ID seen by the poller.
func (s *DBStore) SetCursor(postID string) error {
	return s.put(cursorKey, []byte(postID))
}

// GetCursor returns the saved poll cursor, "" if none yet.
func (s *DBStore) GetCursor() (string, error) {
	data, err := s.get(cursorKey)
	if err == badger.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Metrics returns a snapshot of operation counters.
func (s *DBStore) Metrics() DBMetrics {
	return DBMetrics{
		PutCount: atomic.LoadInt64(&s.metrics.PutCount),
		GetCount: atomic.LoadInt64(&s.metrics.GetCount),
		Errors:   atomic.LoadInt64(&s.metrics.Errors),
	}
}

// RunGC triggers a badger value-log GC pass.
func (s *DBStore) RunGC() error {
	return s.db.RunValueLogGC(0.5)
}

// Close stops the GC loop and closes the database.
func (s *DBStore) Close() error {
	close(s.stopGC)
	return s.db.Close()
}
