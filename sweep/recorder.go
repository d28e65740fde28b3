package sweep

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

// A Recorder stores sweep results.
type Recorder interface {
	// Record stores one result.
	Record(r Result) error

	// Close flushes buffered results and releases the recorder.
	Close() error
}

const createResultsTableSQL = `CREATE TABLE IF NOT EXISTS sweep_results (
	run_id TEXT,
	axis TEXT,
	value TEXT,
	name TEXT,
	capacity INTEGER,
	associativity INTEGER,
	line_size INTEGER,
	latency INTEGER,
	write_through INTEGER,
	write_allocate INTEGER,
	num_access INTEGER,
	num_miss INTEGER,
	time INTEGER,
	miss_rate REAL,
	amat REAL
);`

const insertResultSQL = `INSERT INTO sweep_results VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteRecorder writes results into the sweep_results table of a SQLite
// database. Results are buffered and written in batches.
type SQLiteRecorder struct {
	db        *sql.DB
	runID     string
	path      string
	batchSize int
	pending   []Result
	closed    bool
}

// NewSQLiteRecorder opens (or creates) the database at path. An empty path
// creates a uniquely named database in the working directory. Recorders still
// open at program exit are flushed and closed then.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	runID := xid.New().String()
	if path == "" {
		path = "cachesim_sweep_" + runID + ".sqlite3"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sweep database: %w", err)
	}

	if _, err := db.Exec(createResultsTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sweep_results table: %w", err)
	}

	r := &SQLiteRecorder{
		db:        db,
		runID:     runID,
		path:      path,
		batchSize: 1000,
	}

	openRecorders.add(r)

	logrus.WithField("path", path).Info("recording sweep results")

	return r, nil
}

// recorderRegistry tracks the recorders that are still open, so that a single
// exit handler can close them all.
type recorderRegistry struct {
	once sync.Once
	mu   sync.Mutex
	open map[*SQLiteRecorder]struct{}
}

var openRecorders = &recorderRegistry{
	open: make(map[*SQLiteRecorder]struct{}),
}

func (reg *recorderRegistry) add(r *SQLiteRecorder) {
	reg.once.Do(func() { atexit.Register(reg.closeAll) })

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.open[r] = struct{}{}
}

func (reg *recorderRegistry) remove(r *SQLiteRecorder) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.open, r)
}

func (reg *recorderRegistry) len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.open)
}

func (reg *recorderRegistry) closeAll() {
	reg.mu.Lock()
	recorders := make([]*SQLiteRecorder, 0, len(reg.open))
	for r := range reg.open {
		recorders = append(recorders, r)
	}
	reg.mu.Unlock()

	for _, r := range recorders {
		if err := r.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing sweep database %s: %v\n", r.path, err)
		}
	}
}

// Path returns the database file name.
func (r *SQLiteRecorder) Path() string {
	return r.path
}

// RunID returns the identifier stored with every row of this recorder.
func (r *SQLiteRecorder) RunID() string {
	return r.runID
}

// DB returns the underlying database handle.
func (r *SQLiteRecorder) DB() *sql.DB {
	return r.db
}

// Record buffers a result and writes the buffer once it is full.
func (r *SQLiteRecorder) Record(result Result) error {
	if r.closed {
		return fmt.Errorf("sweep recorder %s is closed", r.path)
	}

	r.pending = append(r.pending, result)
	if len(r.pending) >= r.batchSize {
		return r.Flush()
	}
	return nil
}

// Flush writes all buffered results in one transaction.
func (r *SQLiteRecorder) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(insertResultSQL)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, res := range r.pending {
		_, err := stmt.Exec(
			r.runID,
			string(res.Axis),
			res.Value,
			res.Config.Name,
			res.Config.Capacity,
			res.Config.Associativity,
			res.Config.LineSize,
			res.Config.Latency,
			res.Config.WriteThrough,
			res.Config.WriteAllocate,
			res.Stats.NumAccess,
			res.Stats.NumMiss,
			res.Stats.Time,
			res.MissRate,
			res.AMAT,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert %s: %w", res.Config.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.pending = r.pending[:0]
	return nil
}

// Close flushes and closes the database. Closing twice is a no-op.
func (r *SQLiteRecorder) Close() error {
	if r.closed {
		return nil
	}

	flushErr := r.Flush()
	r.closed = true
	openRecorders.remove(r)

	if err := r.db.Close(); err != nil {
		return err
	}
	return flushErr
}
