package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	Type      string
	EntityID  string
	Namespace string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer serves an HTML view over the raw Badger keyspace.
// Diagnostic only; it binds all interfaces and has no authentication, so
// it is only started at debug log level on local runs.
func StartDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = DefaultMapper
	}

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "chat:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}

		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// DefaultMapper understands the two document namespaces, "chat:" and
// "user:", and falls back to a raw size readout for anything else.
func DefaultMapper(key string, val []byte) InspectRow {
	namespace, entityID, _ := strings.Cut(key, ":")
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		EntityID:  entityID,
		Namespace: namespace,
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	switch namespace {
	case "chat":
		var doc struct {
			Version  uint64            `json:"version"`
			Messages []json.RawMessage `json:"messages"`
		}
		if err := json.Unmarshal(val, &doc); err == nil {
			row.Type = "CHAT"
			row.Detail = fmt.Sprintf("v%d, %d messages", doc.Version, len(doc.Messages))
		}
	case "user":
		var doc struct {
			Name   string `json:"name"`
			Gender string `json:"gender"`
		}
		if err := json.Unmarshal(val, &doc); err == nil {
			row.Type = "USER"
			row.Detail = fmt.Sprintf("%s (%s)", doc.Name, doc.Gender)
		}
	}
	return row
}
