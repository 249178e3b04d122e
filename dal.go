package main

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"slash-history/db"
	"slash-history/models"

	"github.com/charmbracelet/log"
)

type Scanner interface {
	Scan() []any
}

type DAL struct {
	DB          *db.DB
	Invocations Repository[*models.Invocation]
	MutedRoles  Repository[*models.MutedRole]
}

func NewDAL(d *db.DB) *DAL {
	return &DAL{
		d,
		makeRepository[*models.Invocation](d.Conn, "invocations"),
		makeRepository[*models.MutedRole](d.Conn, "muted_roles"),
	}
}

type Repository[T Scanner] struct {
	conn  db.Tx
	Table string

	// List of database column names for T. Fields on T that are saved in the
	// database must have a "db" struct-tag. All tagged fields should be returned
	// by t.Scan().
	columns string

	// Parametrized string inserted into VALUES-expressions with the appropriate
	// number of parameters. The number of struct fields for a given Repository[T]
	// is constant, such that this can be calculated during creation.
	values string
}

func makeRepository[T Scanner](conn db.Tx, tbl string) Repository[T] {
	// Determine database columns from struct tags
	rt := reflect.TypeOf((*T)(nil)).Elem().Elem()
	col := make([]string, 0, rt.NumField())

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		v, ok := f.Tag.Lookup("db")
		if ok {
			col = append(col, v)
		}
	}

	b := bytes.Repeat([]byte{'?', ','}, len(col))
	val := ""
	if len(b) != 0 {
		val = string(b[:len(b)-1])
	}

	return Repository[T]{conn, tbl, strings.Join(col, ","), val}
}

// Instantiate concrete value for T. Direct instantiation is not possible in
// cases where T is a pointer type.
func (r *Repository[T]) getT() T {
	var t T

	rt := reflect.TypeOf(t)
	if rt.Kind() == reflect.Ptr {
		t = reflect.New(rt.Elem()).Interface().(T)
	}

	return t
}

func (r *Repository[T]) WithTx(tx db.Tx) *Repository[T] {
	return &Repository[T]{tx, r.Table, r.columns, r.values}
}

func (r *Repository[T]) Get(id string) (T, error) {
	log.Info("Getting entity", "tbl", r.Table, "id", id)
	stmt := fmt.Sprintf("select %s from %s where id = ?", r.columns, r.Table)

	t := r.getT()

	row := r.conn.QueryRow(stmt, id)
	if err := row.Scan(t.Scan()...); err != nil {
		log.Debug("Get failed", "tbl", r.Table, "id", id, "stmt", stmt, "err", err)
		return t, err
	}

	log.Debug("Get complete", "tbl", r.Table, "id", id, "t", t)
	return t, nil
}

func (r *Repository[T]) GetAll() ([]T, error) {
	return r.Where("1 = 1")
}

// Where returns all entities matching the given SQL condition. The condition
// may be followed by ordering and limit clauses.
func (r *Repository[T]) Where(cond string, args ...any) ([]T, error) {
	log.Info("Querying entities", "tbl", r.Table, "cond", cond, "args", args)
	stmt := fmt.Sprintf("select %s from %s where %s", r.columns, r.Table, cond)

	rows, err := r.conn.Query(stmt, args...)
	if err != nil {
		log.Error("Query failed", "tbl", r.Table, "stmt", stmt, "err", err)
		return nil, err
	}
	defer rows.Close()

	var s []T
	for rows.Next() {
		t := r.getT()

		if err := rows.Scan(t.Scan()...); err != nil {
			log.Error("Query scan failed", "tbl", r.Table, "stmt", stmt, "err", err)
			return nil, err
		}

		s = append(s, t)
	}
	if err := rows.Err(); err != nil {
		log.Error("Query iteration failed", "tbl", r.Table, "stmt", stmt, "err", err)
		return nil, err
	}

	log.Debug("Query complete", "tbl", r.Table, "entities", len(s))
	return s, nil
}

// CountWhere returns the number of entities matching the given SQL condition.
func (r *Repository[T]) CountWhere(cond string, args ...any) (int64, error) {
	stmt := fmt.Sprintf("select count(*) from %s where %s", r.Table, cond)

	var n int64
	if err := r.conn.QueryRow(stmt, args...).Scan(&n); err != nil {
		log.Error("Count failed", "tbl", r.Table, "stmt", stmt, "err", err)
		return 0, err
	}

	return n, nil
}

func (r *Repository[T]) Create(id string, t T) error {
	log.Info("Creating entity", "tbl", r.Table, "id", id, "entity", t)
	stmt := fmt.Sprintf("insert into %s (%s) values (%s)", r.Table, r.columns, r.values)

	if _, err := r.conn.Exec(stmt, t.Scan()...); err != nil {
		log.Error("Create failed", "tbl", r.Table, "id", id, "entity", t, "stmt", stmt, "err", err)
		return err
	}

	log.Debug("Create complete", "tbl", r.Table, "id", id, "entity", t)
	return nil
}

func (r *Repository[T]) Delete(id string) error {
	log.Info("Deleting entity", "tbl", r.Table, "id", id)
	_, err := r.DeleteWhere("id = ?", id)
	return err
}

func (r *Repository[T]) DeleteAll() error {
	log.Info("Deleting all entities", "tbl", r.Table)
	_, err := r.DeleteWhere("1 = 1")
	return err
}

// DeleteWhere deletes all entities matching the given SQL condition and returns
// the number of deleted rows.
func (r *Repository[T]) DeleteWhere(cond string, args ...any) (int64, error) {
	stmt := fmt.Sprintf("delete from %s where %s", r.Table, cond)

	res, err := r.conn.Exec(stmt, args...)
	if err != nil {
		log.Error("Delete failed", "tbl", r.Table, "stmt", stmt, "err", err)
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		log.Error("Delete row count failed", "tbl", r.Table, "stmt", stmt, "err", err)
		return 0, err
	}
	log.Debug("Delete complete", "tbl", r.Table, "cond", cond, "rows", n)
	return n, nil
}
