package gviz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketingflorenza/onlinebornsong/internal/resilience"
)

const sampleBody = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","status":"ok","table":{
"cols":[{"id":"A","label":"ชื่อ","type":"string"},{"id":"B","label":"วันที่","type":"date"},{"id":"C","label":"","type":"number"}],
"rows":[
{"c":[{"v":"สมชาย"},{"v":"Date(2024,5,9)"},{"v":1500.5}]},
{"c":[{"v":"สมหญิง"},null,{"v":null}]},
{"c":[{"v":"สมศรี"}]}
]}});`

func TestParseResponse(t *testing.T) {
	table, err := ParseResponse([]byte(sampleBody))
	require.NoError(t, err)

	assert.Equal(t, []string{"ชื่อ", "วันที่", "C"}, table.Columns)
	require.Len(t, table.Records, 3)

	assert.Equal(t, "สมชาย", table.Records[0]["ชื่อ"])
	assert.Equal(t, "Date(2024,5,9)", table.Records[0]["วันที่"])
	assert.Equal(t, 1500.5, table.Records[0]["C"])

	// Null cells and short rows both surface as nil values.
	assert.Nil(t, table.Records[1]["วันที่"])
	assert.Nil(t, table.Records[1]["C"])
	assert.Nil(t, table.Records[2]["วันที่"])
}

func TestParseResponseNoJSON(t *testing.T) {
	_, err := ParseResponse([]byte("google.visualization.Query.setResponse();"))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	var gotPath, gotSheet string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSheet = r.URL.Query().Get("sheet")
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	table, err := client.Fetch(context.Background(), "sheet-id-123", "SUM")
	require.NoError(t, err)

	assert.Equal(t, "/spreadsheets/d/sheet-id-123/gviz/tq", gotPath)
	assert.Equal(t, "SUM", gotSheet)
	assert.Len(t, table.Records, 3)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	// 403 is not transient so a single attempt is made.
	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Fetch(context.Background(), "sheet-id-123", "SUM")
	assert.Error(t, err)
}

func TestFetchRetriesTransientFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL),
		WithRetryPolicy(resilience.Policy{Attempts: 3, BaseDelay: time.Millisecond}))
	table, err := client.Fetch(context.Background(), "sheet-id-123", "SUM")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, table.Records, 3)
}
