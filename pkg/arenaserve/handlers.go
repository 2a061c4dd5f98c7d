package arenaserve

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/arenatree/pkg/arenatree"
)

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		s.recordOp("put", start, false)
		sendError(w, "key is required", http.StatusBadRequest)
		return
	}
	value := r.URL.Query().Get("value")

	s.mu.Lock()
	_, hadPrev := s.tree.Insert(key, value)
	s.mu.Unlock()

	s.recordOp("put", start, true)
	sendSuccess(w, map[string]interface{}{"key": key, "replaced": hadPrev})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		s.recordOp("get", start, false)
		sendError(w, "key is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	value, ok := s.tree.Get(key)
	s.mu.Unlock()

	if !ok {
		s.recordOp("get", start, false)
		sendError(w, "key not found", http.StatusNotFound)
		return
	}
	s.recordOp("get", start, true)
	sendSuccess(w, map[string]string{"key": key, "value": value})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		s.recordOp("delete", start, false)
		sendError(w, "key is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, removed := s.tree.Remove(key)
	s.mu.Unlock()

	if !removed {
		s.recordOp("delete", start, false)
		sendError(w, "key not found", http.StatusNotFound)
		return
	}
	s.recordOp("delete", start, true)
	sendSuccess(w, map[string]string{"key": key})
}

func parseBound(raw string, excl bool) arenatree.Bound[string] {
	if raw == "" {
		return arenatree.Unbounded[string]()
	}
	if excl {
		return arenatree.Excluded(raw)
	}
	return arenatree.Included(raw)
}

// handleRange serves ?start=&end=&startExcl=1&endExcl=1, each bound
// defaulting to unbounded/inclusive when absent.
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	startBound := parseBound(q.Get("start"), q.Get("startExcl") == "1")
	endBound := parseBound(q.Get("end"), q.Get("endExcl") == "1")

	type entry struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	s.mu.Lock()
	it := s.tree.Range(startBound, endBound)
	var entries []entry
	for {
		kv, ok := it.Next()
		if !ok {
			break
		}
		entries = append(entries, entry{Key: kv.Key, Value: kv.Value})
	}
	s.mu.Unlock()

	s.recordOp("range", start, true)
	sendSuccess(w, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.tree.Stats()
	height := s.tree.Height()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.UpdateTreeStats(stats, height)
	}
	sendSuccess(w, map[string]interface{}{
		"capacity":             stats.Capacity,
		"len":                  stats.Len,
		"height":               height,
		"leaf_utilization":     stats.Leaves.Utilization,
		"branch_utilization":   stats.Branches.Utilization,
		"leaf_fragmentation":   stats.Leaves.Fragmentation,
		"branch_fragmentation": stats.Branches.Fragmentation,
		"splits":               stats.Splits,
		"merges":               stats.Merges,
		"rebalances":           stats.Rebalances,
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.tree.Check()
	s.mu.Unlock()

	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"status": "consistent"})
}
