// Package journal persists the results of consolidation runs so they can
// be reviewed after the process exits.
package journal

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	klog "github.com/OpTi9/MENA/internal/log"
	"github.com/OpTi9/MENA/internal/storage"
	"github.com/OpTi9/MENA/pkg/crypto"
	"github.com/OpTi9/MENA/pkg/types"
)

// Key namespaces.
var (
	prefixRuns    = []byte("runs/")
	prefixResults = []byte("results/")
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run describes one consolidation batch.
type Run struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Source    string    `json:"source,omitempty"`
	Wallets   int       `json:"wallets"`
	Started   time.Time `json:"started"`
	Updated   time.Time `json:"updated"`
	Processed int       `json:"processed"`
	Succeeded int       `json:"succeeded"`
	Solutions int       `json:"solutions"`
}

// Done reports whether every wallet of the run has a result.
func (r Run) Done() bool {
	return r.Processed >= r.Wallets
}

// NewRunID derives a short id from the run's recipient, source and start time.
func NewRunID(recipient, source string, started time.Time) string {
	buf := make([]byte, 0, len(recipient)+len(source)+8)
	buf = append(buf, recipient...)
	buf = append(buf, source...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(started.UnixNano()))
	h := crypto.Hash(buf)
	return hex.EncodeToString(h[:8])
}

// Store keeps runs and their results in a storage.DB.
type Store struct {
	db      storage.DB
	runs    *storage.PrefixDB
	results *storage.PrefixDB
	now     func() time.Time
}

// Open opens the Badger-backed journal in dir.
func Open(dir string) (*Store, error) {
	db, err := storage.NewBadger(dir)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return New(db), nil
}

// New creates a Store on db. Closing the Store closes db.
func New(db storage.DB) *Store {
	return &Store{
		db:      db,
		runs:    storage.NewPrefixDB(db, prefixRuns),
		results: storage.NewPrefixDB(db, prefixResults),
		now:     time.Now,
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin registers a new run for wallets wallets and returns it.
func (s *Store) Begin(recipient, source string, wallets int) (Run, error) {
	started := s.now().UTC()
	run := Run{
		ID:        NewRunID(recipient, source, started),
		Recipient: recipient,
		Source:    source,
		Wallets:   wallets,
		Started:   started,
		Updated:   started,
	}
	if err := s.putRun(run); err != nil {
		return Run{}, err
	}
	klog.Journal.Debug().Str("run", run.ID).Int("wallets", wallets).Msg("Run started")
	return run, nil
}

// Record stores a results snapshot for runID and updates the run's
// counters. Results are keyed by position, so recording a longer
// snapshot of the same run overwrites the earlier entries.
func (s *Store) Record(runID string, results []types.WalletResult) error {
	run, err := s.Run(runID)
	if err != nil {
		return err
	}

	b := s.results.NewBatch()
	run.Succeeded, run.Solutions = 0, 0
	for i, r := range results {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode result %d: %w", i, err)
		}
		if err := b.Put(resultKey(runID, i), data); err != nil {
			return fmt.Errorf("stage result %d: %w", i, err)
		}
		if r.Status == types.StatusSuccess {
			run.Succeeded++
			run.Solutions += r.SolutionsConsolidated
		}
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	run.Processed = len(results)
	run.Updated = s.now().UTC()
	return s.putRun(run)
}

// Sink returns a progress callback that records every snapshot of runID.
// Write failures are logged; they never stop the batch.
func (s *Store) Sink(runID string) func([]types.WalletResult) {
	return func(results []types.WalletResult) {
		if err := s.Record(runID, results); err != nil {
			klog.Journal.Error().Err(err).Str("run", runID).Msg("Failed to record results")
		}
	}
}

// Run returns the run with the given id.
func (s *Store) Run(id string) (Run, error) {
	data, err := s.runs.Get([]byte(id))
	if errors.Is(err, storage.ErrNotFound) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, nil
}

// Runs lists all runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.runs.ForEach(nil, func(key, value []byte) error {
		var run Run
		if err := json.Unmarshal(value, &run); err != nil {
			return fmt.Errorf("decode run %s: %w", key, err)
		}
		runs = append(runs, run)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Started.After(runs[j].Started)
	})
	return runs, nil
}

// Latest returns the most recently started run.
func (s *Store) Latest() (Run, error) {
	runs, err := s.Runs()
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrRunNotFound
	}
	return runs[0], nil
}

// Results returns the recorded results of runID in wallet order.
func (s *Store) Results(runID string) ([]types.WalletResult, error) {
	if _, err := s.Run(runID); err != nil {
		return nil, err
	}
	var results []types.WalletResult
	err := s.results.ForEach([]byte(runID+"/"), func(key, value []byte) error {
		var r types.WalletResult
		if err := json.Unmarshal(value, &r); err != nil {
			return fmt.Errorf("decode result %s: %w", key, err)
		}
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes a run and its results.
func (s *Store) Delete(runID string) error {
	if _, err := s.Run(runID); err != nil {
		return err
	}
	ns := storage.NewPrefixDB(s.results, []byte(runID+"/"))
	if err := ns.DeleteAll(); err != nil {
		return fmt.Errorf("delete results of %s: %w", runID, err)
	}
	return s.runs.Delete([]byte(runID))
}

func (s *Store) putRun(run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	if err := s.runs.Put([]byte(run.ID), data); err != nil {
		return fmt.Errorf("write run %s: %w", run.ID, err)
	}
	return nil
}

// resultKey orders results by position within a run.
func resultKey(runID string, index int) []byte {
	return []byte(fmt.Sprintf("%s/%08d", runID, index))
}
