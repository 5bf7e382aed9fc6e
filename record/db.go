// Package record persists the per-iteration records of a colony run: a
// plain text dump for plotting, sql tables, a redis stream and
// OpenTelemetry metrics.  Every recorder is an abc.Observer.
package record

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Baaaaam/optim/abc"
	"github.com/google/uuid"
)

const (
	// TblBest is the name of the sql database table that contains the
	// global best position and value for each iteration.
	TblBest = "abcbest"
	// TblFoods is the name of the sql database table that contains every
	// food source's position, value and bookkeeping for each iteration.
	TblFoods = "abcfoods"
	// TblRuns is the name of the sql database table that maps run ids to
	// the colony's run counter.
	TblRuns = "abcruns"
)

// DB records iterations into an sql database.  Each run is given a fresh
// uuid so several colonies can share one database.
type DB struct {
	db    *sql.DB
	ndim  int
	run   int
	RunID string
}

// NewDB creates the recording tables in db if necessary.  ndim is the
// dimension of the recorded colony.
func NewDB(ctx context.Context, db *sql.DB, ndim int) (*DB, error) {
	r := &DB{db: db, ndim: ndim}
	if err := r.initdb(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DB) initdb(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS " + TblRuns + " (id TEXT PRIMARY KEY, run INTEGER, ndim INTEGER);",
		"CREATE TABLE IF NOT EXISTS " + TblBest + " (id TEXT, iter INTEGER, evals INTEGER, val REAL" + r.xdbsql("define") + ");",
		"CREATE TABLE IF NOT EXISTS " + TblFoods + " (id TEXT, iter INTEGER, food INTEGER, val REAL, fitness REAL, trials INTEGER, prob REAL" + r.xdbsql("define") + ");",
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("record: creating tables: %w", err)
		}
	}
	return nil
}

func (r *DB) xdbsql(op string) string {
	s := ""
	for i := 0; i < r.ndim; i++ {
		switch op {
		case "?":
			s += ",?"
		case "define":
			s += fmt.Sprintf(",x%v REAL", i)
		case "x":
			s += fmt.Sprintf(",x%v", i)
		default:
			panic("invalid db op " + op)
		}
	}
	return s
}

func pos2iface(pos []float64) []interface{} {
	iface := make([]interface{}, 0, len(pos))
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}

func (r *DB) Observe(ctx context.Context, it abc.Iteration) (err error) {
	if it.Best.Len() != r.ndim {
		return fmt.Errorf("record: colony has %v dimensions, table has %v", it.Best.Len(), r.ndim)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if it.Run != r.run {
		r.run = it.Run
		r.RunID = uuid.NewString()
		_, err = tx.ExecContext(ctx, "INSERT INTO "+TblRuns+" (id,run,ndim) VALUES (?,?,?);", r.RunID, it.Run, r.ndim)
		if err != nil {
			return err
		}
	}

	s1 := "INSERT INTO " + TblBest + " (id,iter,evals,val" + r.xdbsql("x") + ") VALUES (?,?,?,?" + r.xdbsql("?") + ");"
	args := []interface{}{r.RunID, it.Iter, it.Evals, it.Best.Val}
	args = append(args, pos2iface(it.Best.Pos())...)
	if _, err = tx.ExecContext(ctx, s1, args...); err != nil {
		return err
	}

	s2 := "INSERT INTO " + TblFoods + " (id,iter,food,val,fitness,trials,prob" + r.xdbsql("x") + ") VALUES (?,?,?,?,?,?,?" + r.xdbsql("?") + ");"
	for i, f := range it.Foods {
		args := []interface{}{r.RunID, it.Iter, i, f.Val, f.Fitness, f.Trials, f.Prob}
		args = append(args, pos2iface(f.Pos())...)
		if _, err = tx.ExecContext(ctx, s2, args...); err != nil {
			return err
		}
	}
	return nil
}

// Convergence reads back the best value of every iteration of the run with
// the given id, ordered by iteration.
func Convergence(ctx context.Context, db *sql.DB, id string) ([]float64, error) {
	rows, err := db.QueryContext(ctx, "SELECT val FROM "+TblBest+" WHERE id = ? ORDER BY iter;", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vals []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, rows.Err()
}

// RunIDs lists the recorded run ids in run order.
func RunIDs(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT id FROM "+TblRuns+" ORDER BY run;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func joinPos(pos []float64, sep string) string {
	parts := make([]string, len(pos))
	for i, v := range pos {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, sep)
}
