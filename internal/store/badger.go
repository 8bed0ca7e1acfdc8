package store

import (
	"errors"
	"fmt"
	"log"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
)

// The whole log lives under a single key as a JSON envelope, mirroring
// the browser build that kept the serialized event array under one
// localStorage key. Append is read-push-write; acceptable because the
// log stays small (one deployment's worth of interactions).
const logKey = "analytics_log"

// envelopeVersion tags the persisted format so a future change can be
// migrated instead of being misread as an empty log.
const envelopeVersion = 1

type envelope struct {
	Version      int           `json:"version"`
	Interactions []Interaction `json:"interactions"`
}

// readState distinguishes why a read produced no data. Callers of
// ReadAll only ever see an empty slice; the state drives diagnostics.
type readState int

const (
	readOK readState = iota
	readMissing
	readCorrupt
	readBadVersion
)

var corruptLogReads = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "vidinsight",
	Name:      "corrupt_log_reads_total",
	Help:      "Number of log reads that found unparseable or wrong-version data.",
})

func init() {
	prometheus.MustRegister(corruptLogReads)
}

// BadgerStore persists the interaction log in a local BadgerDB, for
// deployments without a database URL.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the log database under dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Append(ev Interaction) error {
	return s.db.Update(func(txn *badger.Txn) error {
		current, state := loadEnvelope(txn)
		if state == readCorrupt || state == readBadVersion {
			// Unreadable history cannot be extended; start a fresh log
			// rather than refusing every future append.
			log.Printf("store: discarding unreadable log before append (state=%d)", state)
		}
		current = append(current, ev)
		data, err := json.Marshal(envelope{Version: envelopeVersion, Interactions: current})
		if err != nil {
			return fmt.Errorf("marshal log: %w", err)
		}
		return txn.Set([]byte(logKey), data)
	})
}

func (s *BadgerStore) ReadAll() []Interaction {
	var events []Interaction
	var state readState
	err := s.db.View(func(txn *badger.Txn) error {
		events, state = loadEnvelope(txn)
		return nil
	})
	if err != nil {
		log.Printf("store: read log: %v", err)
		return nil
	}
	switch state {
	case readCorrupt:
		corruptLogReads.Inc()
		log.Printf("store: stored log is unparseable, treating as empty")
	case readBadVersion:
		corruptLogReads.Inc()
		log.Printf("store: stored log has unknown envelope version, treating as empty")
	}
	return events
}

func (s *BadgerStore) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(logKey))
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// loadEnvelope reads and decodes the log key inside txn. It never fails:
// every problem maps to (nil, state) so both the read and append paths
// share one recovery rule.
func loadEnvelope(txn *badger.Txn) ([]Interaction, readState) {
	item, err := txn.Get([]byte(logKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, readMissing
	}
	if err != nil {
		log.Printf("store: get log key: %v", err)
		return nil, readCorrupt
	}

	var env envelope
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &env)
	})
	if err != nil {
		return nil, readCorrupt
	}
	if env.Version != envelopeVersion {
		return nil, readBadVersion
	}
	return env.Interactions, readOK
}
