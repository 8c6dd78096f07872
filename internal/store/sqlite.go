package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kderr/jobctl/internal/job"
)

// SQLiteStore is a SQLite-backed Store, the default persistence layer for
// jobctl: one file, WAL mode for concurrent reads, transactional batch
// writes. A single writer connection avoids SQLITE_BUSY under the
// Submission Engine's one-invocation-at-a-time write pattern (§5).
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open creates (or reuses) a SQLite-backed store at path. ":memory:" is
// accepted for tests.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS jobs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cluster_id TEXT NOT NULL DEFAULT '',
			pipeline TEXT NOT NULL,
			name TEXT NOT NULL,
			state TEXT NOT NULL,
			archived INTEGER NOT NULL DEFAULT 0,
			interpreter TEXT NOT NULL DEFAULT '',
			command TEXT NOT NULL DEFAULT '',
			working_directory TEXT NOT NULL DEFAULT '',
			queue TEXT NOT NULL DEFAULT '',
			priority INTEGER NOT NULL DEFAULT 0,
			threads INTEGER NOT NULL DEFAULT 0,
			max_time_ns INTEGER NOT NULL DEFAULT 0,
			max_memory INTEGER NOT NULL DEFAULT 0,
			account TEXT NOT NULL DEFAULT '',
			dependencies TEXT NOT NULL DEFAULT '[]',
			group_from INTEGER NOT NULL DEFAULT 0,
			group_to INTEGER NOT NULL DEFAULT 0,
			input_files TEXT NOT NULL DEFAULT '[]',
			output_files TEXT NOT NULL DEFAULT '[]',
			additional_options TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqlBatch adapts a *sql.Tx to the Batch interface used by
// graph.FinalizeIDs.
type sqlBatch struct {
	tx *sql.Tx
}

const insertJobSQL = `
	INSERT INTO jobs (
		cluster_id, pipeline, name, state, archived, interpreter, command,
		working_directory, queue, priority, threads, max_time_ns, max_memory,
		account, dependencies, group_from, group_to, input_files,
		output_files, additional_options
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Insert persists j and returns the DB-assigned autoincrement id, the
// DB-backed id-assignment policy graph.FinalizeIDs expects (§3 "assigned on
// persistence").
func (b *sqlBatch) Insert(j *job.Job) (job.ID, error) {
	deps, err := json.Marshal(j.Dependencies)
	if err != nil {
		return 0, err
	}
	inputs, err := json.Marshal(j.InputFiles)
	if err != nil {
		return 0, err
	}
	outputs, err := json.Marshal(j.OutputFiles)
	if err != nil {
		return 0, err
	}
	opts, err := json.Marshal(j.AdditionalOptions)
	if err != nil {
		return 0, err
	}

	res, err := b.tx.Exec(insertJobSQL,
		string(j.ClusterID), j.Pipeline, j.Name, string(j.State), boolToInt(j.Archived),
		j.Interpreter, j.Command, j.WorkingDirectory, j.Queue, j.Priority, j.Threads,
		int64(j.MaxTime), j.MaxMemory, j.Account, string(deps), int64(j.GroupFrom),
		int64(j.GroupTo), string(inputs), string(outputs), string(opts),
	)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return job.ID(id), nil
}

// Batch runs fn against one transaction, committing on success and rolling
// back on error or panic.
func (s *SQLiteStore) Batch(ctx context.Context, fn func(Batch) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&sqlBatch{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update persists the current in-memory state of j, including a refreshed
// updated_at, and is also how FinalizeIDs's group_to back-patch (§4.D) and
// the state machine's transitions reach the database.
func (s *SQLiteStore) Update(ctx context.Context, j *job.Job) error {
	deps, err := json.Marshal(j.Dependencies)
	if err != nil {
		return err
	}
	inputs, err := json.Marshal(j.InputFiles)
	if err != nil {
		return err
	}
	outputs, err := json.Marshal(j.OutputFiles)
	if err != nil {
		return err
	}
	opts, err := json.Marshal(j.AdditionalOptions)
	if err != nil {
		return err
	}

	const update = `
		UPDATE jobs SET
			cluster_id = ?, pipeline = ?, name = ?, state = ?, archived = ?,
			interpreter = ?, command = ?, working_directory = ?, queue = ?,
			priority = ?, threads = ?, max_time_ns = ?, max_memory = ?,
			account = ?, dependencies = ?, group_from = ?, group_to = ?,
			input_files = ?, output_files = ?, additional_options = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err = s.db.ExecContext(ctx, update,
		string(j.ClusterID), j.Pipeline, j.Name, string(j.State), boolToInt(j.Archived),
		j.Interpreter, j.Command, j.WorkingDirectory, j.Queue, j.Priority, j.Threads,
		int64(j.MaxTime), j.MaxMemory, j.Account, string(deps), int64(j.GroupFrom),
		int64(j.GroupTo), string(inputs), string(outputs), string(opts), int64(j.ID),
	)
	if err != nil {
		return fmt.Errorf("update job %d: %w", j.ID, err)
	}
	return nil
}

// Delete removes the given jobs outright (§3 "deleted only by explicit user
// action"; also used by the Submission Engine's rollback path, §4.G step 6).
func (s *SQLiteStore) Delete(ctx context.Context, ids []job.ID) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = int64(id)
	}

	query := fmt.Sprintf("DELETE FROM jobs WHERE id IN (%s)", strings.Join(placeholders, ","))
	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete jobs: %w", err)
	}
	return nil
}

// ByIDs returns jobs matching either local ids or cluster ids (union), honoring
// the "never silently return the whole table" rule from §4.A: with both id
// lists empty, it returns nil without querying.
func (s *SQLiteStore) ByIDs(ctx context.Context, ids []job.ID, clusterIDs []job.ClusterID, archived *bool) ([]*job.Job, error) {
	if len(ids) == 0 && len(clusterIDs) == 0 {
		return nil, nil
	}

	var clauses []string
	var args []interface{}

	if len(ids) > 0 {
		placeholders := make([]string, len(ids))
		for i, id := range ids {
			placeholders[i] = "?"
			args = append(args, int64(id))
		}
		clauses = append(clauses, fmt.Sprintf("id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(clusterIDs) > 0 {
		placeholders := make([]string, len(clusterIDs))
		for i, cid := range clusterIDs {
			placeholders[i] = "?"
			args = append(args, string(cid))
		}
		clauses = append(clauses, fmt.Sprintf("cluster_id IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf("SELECT %s FROM jobs WHERE (%s)", jobColumns, strings.Join(clauses, " OR "))
	if archived == nil {
		query += " AND archived = 0"
	} else {
		query += fmt.Sprintf(" AND archived = %d", boolToInt(*archived))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs by id: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// ActiveWithOutputs returns every job in {Queued, Running, Hold}, the set
// the Reconciler scans for output-path collisions (§4.E step 2).
func (s *SQLiteStore) ActiveWithOutputs(ctx context.Context) ([]*job.Job, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM jobs WHERE state IN (?, ?, ?) AND archived = 0",
		jobColumns,
	)
	rows, err := s.db.QueryContext(ctx, query, string(job.StateQueued), string(job.StateRunning), string(job.StateHold))
	if err != nil {
		return nil, fmt.Errorf("query active jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

const jobColumns = `
	id, cluster_id, pipeline, name, state, archived, interpreter, command,
	working_directory, queue, priority, threads, max_time_ns, max_memory,
	account, dependencies, group_from, group_to, input_files, output_files,
	additional_options, created_at, updated_at
`

func scanJobs(rows *sql.Rows) ([]*job.Job, error) {
	var result []*job.Job
	for rows.Next() {
		var (
			j                                     job.Job
			id, groupFrom, groupTo, archived       int64
			clusterID, state                       string
			deps, inputs, outputs, opts            string
			maxTimeNS                              int64
			createdAt, updatedAt                   time.Time
		)

		if err := rows.Scan(
			&id, &clusterID, &j.Pipeline, &j.Name, &state, &archived, &j.Interpreter,
			&j.Command, &j.WorkingDirectory, &j.Queue, &j.Priority, &j.Threads,
			&maxTimeNS, &j.MaxMemory, &j.Account, &deps, &groupFrom, &groupTo,
			&inputs, &outputs, &opts, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}

		j.ID = job.ID(id)
		j.ClusterID = job.ClusterID(clusterID)
		j.State = job.State(state)
		j.Archived = archived != 0
		j.MaxTime = time.Duration(maxTimeNS)
		j.GroupFrom = job.ID(groupFrom)
		j.GroupTo = job.ID(groupTo)
		j.CreatedAt = createdAt
		j.UpdatedAt = updatedAt

		if err := json.Unmarshal([]byte(deps), &j.Dependencies); err != nil {
			return nil, fmt.Errorf("decode dependencies: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &j.InputFiles); err != nil {
			return nil, fmt.Errorf("decode input files: %w", err)
		}
		if err := json.Unmarshal([]byte(outputs), &j.OutputFiles); err != nil {
			return nil, fmt.Errorf("decode output files: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &j.AdditionalOptions); err != nil {
			return nil, fmt.Errorf("decode additional options: %w", err)
		}

		result = append(result, &j)
	}
	return result, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
