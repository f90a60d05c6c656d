package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	"github.com/DanielChung520/AI-Box-sub009/internal/config"
	"github.com/DanielChung520/AI-Box-sub009/internal/executor"
	"github.com/DanielChung520/AI-Box-sub009/internal/i18n"
	"github.com/DanielChung520/AI-Box-sub009/internal/masterdata"
	"github.com/DanielChung520/AI-Box-sub009/internal/parser"
	"github.com/DanielChung520/AI-Box-sub009/internal/resolver"
	"github.com/DanielChung520/AI-Box-sub009/internal/sqlgen"
	"github.com/DanielChung520/AI-Box-sub009/internal/validator"
)

type fakeMasterSource struct{ items []string }

func (f *fakeMasterSource) LoadItems(context.Context) ([]string, error)        { return f.items, nil }
func (f *fakeMasterSource) LoadWarehouses(context.Context) ([]string, error)   { return nil, nil }
func (f *fakeMasterSource) LoadWorkstations(context.Context) ([]string, error) { return nil, nil }

type fakeConn struct{ rows []executor.Row }

func (c *fakeConn) Query(_ context.Context, _ string) (*executor.ResultSet, error) {
	return &executor.ResultSet{Columns: []string{"item_no", "qty"}, Rows: c.rows}, nil
}
func (c *fakeConn) Close() error { return nil }

type fakeErrConn struct{}

func (c *fakeErrConn) Query(context.Context, string) (*executor.ResultSet, error) {
	return nil, errors.New("backend exploded: table ITEM locked")
}
func (c *fakeErrConn) Close() error { return nil }

func newTestApp(t *testing.T) *App {
	t.Helper()
	return newTestAppWithConn(t, &fakeConn{rows: []executor.Row{{"item_no": "A100", "qty": 42}}}, "info")
}

func newTestAppWithConn(t *testing.T, conn executor.Conn, logLevel string) *App {
	t.Helper()
	cat := catalog.New(
		[]catalog.Concept{
			{Name: "ITEM_NO", Kind: catalog.KindDimension},
			{Name: "INVENTORY_QTY", Kind: catalog.KindMetric},
		},
		[]catalog.Intent{
			{
				Name:            "QUERY_INVENTORY",
				RequiredFilters: []string{"ITEM_NO"},
				Filters:         []string{"ITEM_NO"},
				Metrics:         []string{"INVENTORY_QTY"},
				Dimensions:      []string{"ITEM_NO"},
			},
		},
		[]catalog.Binding{
			{Concept: "ITEM_NO", Dialect: catalog.DialectMySQL, Table: "ITEM", Column: "item_no"},
			{Concept: "INVENTORY_QTY", Dialect: catalog.DialectMySQL, Table: "ITEM", Column: "qty", Aggregation: catalog.AggSum},
		},
	)
	store := catalog.NewStore(cat)

	mdStore := masterdata.NewStore(&fakeMasterSource{items: []string{"A100"}})
	require.NoError(t, mdStore.EnsureLoaded(context.Background(), false))

	gen := &sqlgen.Generator{Dialect: catalog.DialectMySQL}

	cfg := &config.Config{SystemID: "jp_tiptop_erp", DefaultTimeoutSecs: 30, MaxResults: 1000, LogLevel: logLevel}

	return &App{
		Config:     cfg,
		Log:        newLogger(logLevel),
		Dialect:    catalog.DialectMySQL,
		Catalog:    store,
		MasterData: mdStore,
		Parser: &parser.Cascade{
			Cache:           parser.NewCacheLayer(10, time.Hour),
			UltraFast:       parser.NewUltraFastParser(),
			DefaultPageSize: 20,
		},
		Validator: validator.New(store, mdStore),
		Resolver:  resolver.New(store, gen),
		Executor: &executor.Executor{
			Open: func(context.Context) (executor.Conn, error) { return conn, nil },
		},
		I18n: i18n.Load(),
	}
}

func TestExecuteHappyPath(t *testing.T) {
	a := newTestApp(t)
	resp := a.Execute(context.Background(), ExecuteRequest{
		TaskData: ExecuteTaskData{NLQ: "查詢料號 A100 庫存"},
	})
	require.Equal(t, "success", resp.Status)
	assert.Contains(t, resp.SQL, "ITEM")
	assert.Equal(t, 1, resp.Pagination.TotalRows)
	assert.Len(t, resp.Data, 1)
	assert.NotEmpty(t, resp.TaskID)
}

func TestExecuteReturnsErrorResponseOnUnknownIntent(t *testing.T) {
	a := newTestApp(t)
	resp := a.Execute(context.Background(), ExecuteRequest{
		TaskData: ExecuteTaskData{NLQ: "今天天氣如何"},
	})
	require.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTENT_UNCLEAR", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestExecuteLocalizesErrorMessage(t *testing.T) {
	a := newTestApp(t)
	resp := a.Execute(context.Background(), ExecuteRequest{
		Locale:   "en",
		TaskData: ExecuteTaskData{NLQ: "今天天氣如何"},
	})
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, a.I18n.Message("en", "error.INTENT_UNCLEAR"), resp.Error.Message)
}

func TestExecutePreservesCallerTaskID(t *testing.T) {
	a := newTestApp(t)
	resp := a.Execute(context.Background(), ExecuteRequest{
		TaskID:   "task-123",
		TaskData: ExecuteTaskData{NLQ: "查詢料號 A100 庫存"},
	})
	assert.Equal(t, "task-123", resp.TaskID)
}

func TestExecuteHidesExceptionAtDefaultLogLevel(t *testing.T) {
	a := newTestAppWithConn(t, &fakeErrConn{}, "info")
	resp := a.Execute(context.Background(), ExecuteRequest{
		TaskData: ExecuteTaskData{NLQ: "查詢料號 A100 庫存"},
	})
	require.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Exception)
}

func TestExecuteSurfacesExceptionAtDebugLogLevel(t *testing.T) {
	a := newTestAppWithConn(t, &fakeErrConn{}, "debug")
	resp := a.Execute(context.Background(), ExecuteRequest{
		TaskData: ExecuteTaskData{NLQ: "查詢料號 A100 庫存"},
	})
	require.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Exception, "backend exploded")
}
