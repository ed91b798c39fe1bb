package kupon

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/argunvaran/wizard-scrap/internal/logger"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var db *sql.DB

// Persistable interface defines methods that persistent objects must implement
type Persistable interface {
	GetTableName() string
	GetPrimaryKey() map[string]any
	SetPrimaryKey(map[string]any) error
	BeforeSave() error
	AfterSave() error
	BeforeDelete() error
	AfterDelete() error
}

// OpenDatabase opens (or creates) the sqlite database at the given path and
// installs it as the package connection
func OpenDatabase(path string) error {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err = d.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if db != nil {
		db.Close()
	}
	db = d
	logger.Info("Database initialized successfully", path)
	return nil
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// GetDB returns the database connection, lazily opening the configured path
func GetDB() (*sql.DB, error) {
	if db == nil {
		if err := OpenDatabase(Config.DbPath); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// CreateTables creates all tables used by the engine
func CreateTables() error {
	logger.Info("Creating database tables")

	for _, obj := range []Persistable{
		&Standing{}, &Fixture{}, &Player{}, &BulletinMatch{}, &Coupon{}, &CouponItem{},
	} {
		if err := CreateTable(obj); err != nil {
			return fmt.Errorf("failed to create %s table: %w", obj.GetTableName(), err)
		}
	}

	logger.Info("Database tables created successfully")
	return nil
}

// CreateTable creates a table for the given persistable object using struct tags
func CreateTable(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	tableName := obj.GetTableName()
	createSQL := generateCreateTableSQL(obj, tableName)

	logger.Debug("Creating table with SQL", createSQL)

	if _, err = d.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	for _, query := range generateIndexSQL(obj, tableName) {
		logger.Debug("Creating index with SQL", query)
		if _, err := d.Exec(query); err != nil {
			logger.Warn("Failed to create index", err)
		}
	}

	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Struct Tag Reflection
/////////////////////////////////////////////////////////////////////////

// fieldMeta describes one persisted struct field
type fieldMeta struct {
	index   int
	column  string
	dbType  string
	primary bool
	indexed bool
	fk      string
	fkDel   string
}

// persistedFields walks the struct tags and returns the persisted columns in
// declaration order. Fields without a dbtype tag, or tagged persist:"false",
// are not persisted.
func persistedFields(objType reflect.Type) []fieldMeta {
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}

	var fields []fieldMeta
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Tag.Get("persist") == "false" {
			continue
		}
		dbType := field.Tag.Get("dbtype")
		if dbType == "" {
			continue
		}
		column := field.Tag.Get("column")
		if column == "" {
			column = strings.ToLower(field.Name)
		}
		fields = append(fields, fieldMeta{
			index:   i,
			column:  column,
			dbType:  dbType,
			primary: field.Tag.Get("primary") == "true",
			indexed: field.Tag.Get("index") == "true",
			fk:      field.Tag.Get("fk"),
			fkDel:   field.Tag.Get("fk_delete"),
		})
	}
	return fields
}

// generateCreateTableSQL generates CREATE TABLE SQL from struct tags
func generateCreateTableSQL(obj any, tableName string) string {
	var columns []string
	var primaryKeys []string
	var foreignKeys []string

	for _, f := range persistedFields(reflect.TypeOf(obj)) {
		if f.primary {
			primaryKeys = append(primaryKeys, f.column)
		}
		columns = append(columns, fmt.Sprintf("%s %s", f.column, f.dbType))

		// Foreign key tag format: "table.column"
		if f.fk != "" {
			fkParts := strings.Split(f.fk, ".")
			if len(fkParts) == 2 {
				onDelete := f.fkDel
				if onDelete == "" {
					onDelete = "RESTRICT"
				}
				foreignKeys = append(foreignKeys,
					fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE %s",
						f.column, fkParts[0], fkParts[1], onDelete))
			}
		}
	}

	if len(primaryKeys) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}
	columns = append(columns, foreignKeys...)

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(columns, ", "))
}

// generateIndexSQL generates index creation SQL from struct tags
func generateIndexSQL(obj any, tableName string) []string {
	var indexSQL []string
	for _, f := range persistedFields(reflect.TypeOf(obj)) {
		if !f.indexed {
			continue
		}
		indexName := fmt.Sprintf("idx_%s_%s", tableName, f.column)
		indexSQL = append(indexSQL,
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", indexName, tableName, f.column))
	}
	return indexSQL
}

/////////////////////////////////////////////////////////////////////////
////// Value Conversion
/////////////////////////////////////////////////////////////////////////

// toDBValue converts field values that database/sql cannot store directly.
// Times are stored as RFC3339 text, decimals as their exact string form.
func toDBValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(time.RFC3339Nano)
	case decimal.Decimal:
		return v.String()
	default:
		return value
	}
}

// scanDestination returns a scan holder for the given field. Time and decimal
// fields scan through a NullString and are converted afterwards.
func scanDestination(fieldValue reflect.Value) any {
	switch fieldValue.Interface().(type) {
	case time.Time, decimal.Decimal:
		return &sql.NullString{}
	default:
		return fieldValue.Addr().Interface()
	}
}

// applyScanned writes converted holder values back into time/decimal fields
func applyScanned(fieldValue reflect.Value, holder any) error {
	ns, ok := holder.(*sql.NullString)
	if !ok {
		return nil // scanned directly into the field
	}
	if !ns.Valid || ns.String == "" {
		return nil
	}

	switch fieldValue.Interface().(type) {
	case time.Time:
		t, err := time.Parse(time.RFC3339Nano, ns.String)
		if err != nil {
			return fmt.Errorf("failed to parse stored time %q: %w", ns.String, err)
		}
		fieldValue.Set(reflect.ValueOf(t))
	case decimal.Decimal:
		d, err := decimal.NewFromString(ns.String)
		if err != nil {
			return fmt.Errorf("failed to parse stored decimal %q: %w", ns.String, err)
		}
		fieldValue.Set(reflect.ValueOf(d))
	}
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// CRUD
/////////////////////////////////////////////////////////////////////////

// execer covers *sql.DB and *sql.Tx so saves can run inside a transaction
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Save persists the object to the database (INSERT or UPDATE)
func Save(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}
	return saveWith(d, obj)
}

// saveWith persists the object using the given executor
func saveWith(e execer, obj Persistable) error {
	if err := obj.BeforeSave(); err != nil {
		return fmt.Errorf("before save hook failed: %w", err)
	}

	exists, err := existsWith(e, obj)
	if err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}

	if exists {
		err = update(e, obj)
	} else {
		err = insert(e, obj)
	}
	if err != nil {
		return err
	}

	if err := obj.AfterSave(); err != nil {
		return fmt.Errorf("after save hook failed: %w", err)
	}
	return nil
}

// insert adds a new record to the database
func insert(e execer, obj Persistable) error {
	tableName := obj.GetTableName()
	objValue := reflect.ValueOf(obj).Elem()

	var columns, placeholders []string
	var values []any
	for _, f := range persistedFields(reflect.TypeOf(obj)) {
		columns = append(columns, f.column)
		placeholders = append(placeholders, "?")
		values = append(values, toDBValue(objValue.Field(f.index).Interface()))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	logger.Debug("Insert SQL", query)

	if _, err := e.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", tableName, err)
	}
	return nil
}

// update modifies an existing record in the database
func update(e execer, obj Persistable) error {
	tableName := obj.GetTableName()
	objValue := reflect.ValueOf(obj).Elem()

	var setPairs []string
	var values []any
	for _, f := range persistedFields(reflect.TypeOf(obj)) {
		if f.primary {
			continue
		}
		setPairs = append(setPairs, fmt.Sprintf("%s = ?", f.column))
		values = append(values, toDBValue(objValue.Field(f.index).Interface()))
	}

	whereClause, whereValues := buildWhereClause(obj.GetPrimaryKey())
	values = append(values, whereValues...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", tableName, strings.Join(setPairs, ", "), whereClause)

	logger.Debug("Update SQL", query)

	if _, err := e.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to update %s: %w", tableName, err)
	}
	return nil
}

// Exists checks if the object exists in the database
func Exists(obj Persistable) (bool, error) {
	d, err := GetDB()
	if err != nil {
		return false, err
	}
	return existsWith(d, obj)
}

// existsWith runs the existence check through the given executor so the
// result reflects any transaction in progress
func existsWith(e execer, obj Persistable) (bool, error) {
	tableName := obj.GetTableName()
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", tableName, whereClause)

	var count int
	if err := e.QueryRow(query, values...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", tableName, err)
	}
	return count > 0, nil
}

// Delete removes the object from the database
func Delete(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	if err := obj.BeforeDelete(); err != nil {
		return fmt.Errorf("before delete hook failed: %w", err)
	}

	tableName := obj.GetTableName()
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", tableName, whereClause)
	if _, err = d.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", tableName, err)
	}

	if err := obj.AfterDelete(); err != nil {
		return fmt.Errorf("after delete hook failed: %w", err)
	}
	return nil
}

// FindByPrimaryKey retrieves an object by its primary key
func FindByPrimaryKey(obj Persistable, primaryKey map[string]any) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	tableName := obj.GetTableName()
	fields := persistedFields(reflect.TypeOf(obj))
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.column
	}
	whereClause, values := buildWhereClause(primaryKey)

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), tableName, whereClause)

	logger.Debug("FindByPrimaryKey SQL", query)

	objValue := reflect.ValueOf(obj).Elem()
	holders := make([]any, len(fields))
	for i, f := range fields {
		holders[i] = scanDestination(objValue.Field(f.index))
	}

	row := d.QueryRow(query, values...)
	if err = row.Scan(holders...); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("record not found in %s", tableName)
		}
		return fmt.Errorf("failed to scan row from %s: %w", tableName, err)
	}

	for i, f := range fields {
		if err := applyScanned(objValue.Field(f.index), holders[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindAll retrieves all records of the given type
func FindAll(obj Persistable) ([]any, error) {
	return FindWhere(obj, "1 = 1")
}

// FindWhere executes a custom WHERE query and returns new instances of the
// given type, one per matching row
func FindWhere(obj Persistable, whereClause string, args ...any) ([]any, error) {
	d, err := GetDB()
	if err != nil {
		return nil, err
	}

	tableName := obj.GetTableName()
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}
	fields := persistedFields(objType)
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.column
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), tableName, whereClause)

	logger.Debug("FindWhere SQL", query)

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		newObj := reflect.New(objType)
		objValue := newObj.Elem()

		holders := make([]any, len(fields))
		for i, f := range fields {
			holders[i] = scanDestination(objValue.Field(f.index))
		}
		if err := rows.Scan(holders...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", tableName, err)
		}
		for i, f := range fields {
			if err := applyScanned(objValue.Field(f.index), holders[i]); err != nil {
				return nil, err
			}
		}

		results = append(results, newObj.Interface())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", tableName, err)
	}
	return results, nil
}

// BulkSave saves multiple objects in a transaction
func BulkSave(objects []Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, obj := range objects {
		if err := saveWith(tx, obj); err != nil {
			return fmt.Errorf("failed to save object: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// buildWhereClause builds a WHERE clause from a primary key map
func buildWhereClause(primaryKey map[string]any) (string, []any) {
	var conditions []string
	var values []any
	for column, value := range primaryKey {
		conditions = append(conditions, fmt.Sprintf("%s = ?", column))
		values = append(values, toDBValue(value))
	}
	return strings.Join(conditions, " AND "), values
}
