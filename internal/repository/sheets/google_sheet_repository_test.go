package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestWriteRowAppendsToRange(t *testing.T) {
	var gotPath, gotQuery string
	var body struct {
		Values [][]interface{} `json:"values"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRange":"Digest!A2:H2","updatedRows":1}}`))
	}))
	defer srv.Close()

	sheet, err := newDigestSheet(context.Background(), "sheet-1", nil,
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication(), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	err = sheet.WriteRow(context.Background(), "Digest!A:H", []interface{}{"2024-06-10", "bee@example.com", 3})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/spreadsheets/sheet-1/values/Digest!A:H:append"), gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=USER_ENTERED")
	assert.Contains(t, gotQuery, "insertDataOption=INSERT_ROWS")
	require.Len(t, body.Values, 1)
	assert.Equal(t, "bee@example.com", body.Values[0][1])
}

func TestWriteRowRejectsEmptyRange(t *testing.T) {
	sheet := &DigestSheet{}
	assert.Error(t, sheet.WriteRow(context.Background(), "", nil))
}

func TestNewDigestSheetRequiresSpreadsheet(t *testing.T) {
	_, err := newDigestSheet(context.Background(), "", nil, option.WithoutAuthentication())
	assert.Error(t, err)
}
