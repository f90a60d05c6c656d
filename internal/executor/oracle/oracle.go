// Package oracle implements executor.Conn by shelling out to sqlplus in
// silent mode with CSV markup (`SET MARKUP CSV ON`), rather than a Go
// driver: no Oracle driver exists anywhere in the reference corpus (see
// /root/module/DESIGN.md), and CSV markup is sqlplus's own documented
// machine-readable output mode.
package oracle

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/DanielChung520/AI-Box-sub009/internal/config"
	"github.com/DanielChung520/AI-Box-sub009/internal/executor"
)

type runner func(ctx context.Context, stdin string) (stdout []byte, err error)

// Conn serializes queries through a mutex: sqlplus sessions are not safe
// for concurrent use from multiple goroutines against one connect string.
type Conn struct {
	connectString string
	mu            sync.Mutex
	run           runner
}

// Open builds a Conn for the given Oracle config. The handle itself is
// cheap (just a connect-string holder); the sqlplus process is spawned
// fresh per Query.
func Open(ctx context.Context, cfg *config.OracleConfig) (*Conn, error) {
	cs := fmt.Sprintf("%s/%s@%s:%d/%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.ServiceName)
	return &Conn{connectString: cs, run: execSqlplus}, nil
}

func execSqlplus(ctx context.Context, stdin string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "sqlplus", "-S", "/nolog")
	cmd.Stdin = bytes.NewBufferString(stdin)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("sqlplus: %w: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}

func (c *Conn) Query(ctx context.Context, sql string) (*executor.ResultSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	run := c.run
	if run == nil {
		run = execSqlplus
	}

	script := fmt.Sprintf(
		"SET MARKUP CSV ON\nSET PAGESIZE 50000\nSET FEEDBACK OFF\nSET HEADING ON\n%s\nEXIT;\n",
		strings.TrimRight(sql, "; \t\n")+";",
	)
	out, err := run(ctx, "connect "+c.connectString+"\n"+script)
	if err != nil {
		return nil, err
	}
	return parseCSV(out)
}

func (c *Conn) Close() error { return nil }

func parseCSV(out []byte) (*executor.ResultSet, error) {
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(out)))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("oracle: parsing csv output: %w", err)
	}
	if len(records) == 0 {
		return &executor.ResultSet{}, nil
	}

	columns := records[0]
	result := &executor.ResultSet{Columns: columns, Rows: make([]executor.Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(executor.Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
