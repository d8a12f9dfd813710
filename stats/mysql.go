package stats

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/structs"

	// Need to use MySQL connections.
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// MySQLRecorder persists the epoch statistics into a MySQL server, for
// sweeps whose results are aggregated centrally. Credentials come from
// the MRAMSIM_STATS_USERNAME, MRAMSIM_STATS_PASSWORD, MRAMSIM_STATS_IP
// and MRAMSIM_STATS_PORT environment variables.
type MySQLRecorder struct {
	*sql.DB

	username  string
	password  string
	ipAddress string
	port      int
	dbName    string

	tables     map[string]*table
	batchSize  int
	entryCount int
}

// NewMySQLRecorder returns a recorder connected to a freshly created
// database. It flushes itself at exit.
func NewMySQLRecorder() *MySQLRecorder {
	r := &MySQLRecorder{
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	r.getCredentials()
	r.connect("")
	r.createDatabase()

	atexit.Register(func() { r.Flush() })

	return r
}

func (r *MySQLRecorder) getCredentials() {
	r.username = os.Getenv("MRAMSIM_STATS_USERNAME")
	if r.username == "" {
		panic(`stats username is not set, use environment variable ` +
			`MRAMSIM_STATS_USERNAME to set it.`)
	}

	r.password = os.Getenv("MRAMSIM_STATS_PASSWORD")
	r.ipAddress = os.Getenv("MRAMSIM_STATS_IP")
	if r.ipAddress == "" {
		r.ipAddress = "127.0.0.1"
	}

	portString := os.Getenv("MRAMSIM_STATS_PORT")
	if portString == "" {
		portString = "3306"
	}

	port, err := strconv.Atoi(portString)
	if err != nil {
		panic(err)
	}
	r.port = port
}

func (r *MySQLRecorder) connect(dbName string) {
	connectStr := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		r.username, r.password, r.ipAddress, r.port, dbName)

	db, err := sql.Open("mysql", connectStr)
	if err != nil {
		panic(err)
	}

	r.DB = db
}

func (r *MySQLRecorder) createDatabase() {
	r.dbName = "mramsim_stats_" + xid.New().String()
	log.Printf("Statistics are collected in database: %s\n", r.dbName)

	r.mustExecute("CREATE DATABASE " + r.dbName)
	r.mustExecute("USE " + r.dbName)
}

// CreateTable creates a table shaped after the sample entry.
func (r *MySQLRecorder) CreateTable(tableName string, sampleEntry any) {
	columns := structs.Names(sampleEntry)

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = c + " double null"
	}

	r.mustExecute("CREATE TABLE " + tableName +
		" (\n\t" + strings.Join(defs, ",\n\t") + "\n);")

	r.tables[tableName] = &table{columns: columns}
}

// InsertData buffers one entry for the table.
func (r *MySQLRecorder) InsertData(tableName string, entry any) {
	t, exists := r.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.entries = append(t.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.Flush()
	}
}

// ListTables returns the names of all created tables.
func (r *MySQLRecorder) ListTables() []string {
	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	return tables
}

// Flush writes all buffered entries into the database.
func (r *MySQLRecorder) Flush() {
	if r.entryCount == 0 {
		return
	}

	for tableName, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		r.flushTable(tableName, t)
	}

	r.entryCount = 0
}

func (r *MySQLRecorder) flushTable(tableName string, t *table) {
	placeholders := "(" + strings.TrimSuffix(
		strings.Repeat("?, ", len(t.columns)), ", ") + ")"

	sqlStr := "INSERT INTO " + tableName + " VALUES"
	vals := []any{}

	for i, entry := range t.entries {
		if i > 0 {
			sqlStr += ","
		}
		sqlStr += placeholders
		vals = append(vals, structs.Values(entry)...)
	}

	stmt, err := r.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	if _, err := stmt.Exec(vals...); err != nil {
		panic(err)
	}

	if err := stmt.Close(); err != nil {
		panic(err)
	}

	t.entries = nil
}

func (r *MySQLRecorder) mustExecute(query string) sql.Result {
	res, err := r.Exec(query)
	if err != nil {
		panic(err)
	}

	return res
}
