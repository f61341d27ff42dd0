package mcp

import (
	"encoding/json"
	"time"

	"github.com/pixelmill/pixelmill/internal/core/domain"
)

// Names of the stats tools served directly from the monitor. They never go
// through the executor: reading counters must work even when the pool is
// saturated.
const (
	toolGetStats   = "get_performance_stats"
	toolResetStats = "reset_performance_stats"
)

func (s *Server) handleToolsList(req *Request) *Response {
	ops := s.dispatcher.Descriptors()
	tools := make([]toolDescriptor, 0, len(ops)+2)
	for _, op := range ops {
		tools = append(tools, toolDescriptor{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: op.InputSchema,
		})
	}

	emptySchema := map[string]any{"type": "object", "properties": map[string]any{}}
	tools = append(tools,
		toolDescriptor{
			Name:        toolGetStats,
			Description: "Report request, cache, and latency statistics",
			InputSchema: emptySchema,
		},
		toolDescriptor{
			Name:        toolResetStats,
			Description: "Reset all performance statistics",
			InputSchema: emptySchema,
		},
	)

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  map[string]any{"tools": tools},
	}
}

// statsPayload is the serialized monitor snapshot.
type statsPayload struct {
	UptimeSeconds     float64                 `json:"uptime_seconds"`
	TotalRequests     uint64                  `json:"total_requests"`
	RequestsPerSecond float64                 `json:"requests_per_second"`
	CacheHits         uint64                  `json:"cache_hits"`
	CacheMisses       uint64                  `json:"cache_misses"`
	CacheEvictions    uint64                  `json:"cache_evictions"`
	CacheHitRate      float64                 `json:"cache_hit_rate"`
	ErrorRate         float64                 `json:"error_rate"`
	Errors            map[string]uint64       `json:"errors,omitempty"`
	Operations        map[string]opStatsEntry `json:"operations,omitempty"`
	InFlight          int64                   `json:"in_flight"`
	PeakHeapBytes     uint64                  `json:"peak_heap_bytes"`
}

type opStatsEntry struct {
	Count        uint64  `json:"count"`
	Errors       uint64  `json:"errors"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

func buildStatsPayload(snap domain.MonitorSnapshot) statsPayload {
	payload := statsPayload{
		UptimeSeconds:     snap.Uptime.Seconds(),
		TotalRequests:     snap.TotalRequests,
		RequestsPerSecond: snap.RequestsPerSecond(),
		CacheHits:         snap.CacheHits,
		CacheMisses:       snap.CacheMisses,
		CacheEvictions:    snap.CacheEvictions,
		CacheHitRate:      snap.HitRate(),
		ErrorRate:         snap.ErrorRate(),
		InFlight:          snap.InFlight,
		PeakHeapBytes:     snap.PeakHeapBytes,
	}
	if len(snap.Errors) > 0 {
		payload.Errors = make(map[string]uint64, len(snap.Errors))
		for kind, n := range snap.Errors {
			payload.Errors[string(kind)] = n
		}
	}
	if len(snap.Operations) > 0 {
		payload.Operations = make(map[string]opStatsEntry, len(snap.Operations))
		for name, stats := range snap.Operations {
			payload.Operations[name] = opStatsEntry{
				Count:        stats.Count,
				Errors:       stats.Errors,
				AvgLatencyMS: float64(stats.AverageLatency()) / float64(time.Millisecond),
			}
		}
	}
	return payload
}

func (s *Server) handleStatsTool(id any, name string) *Response {
	switch name {
	case toolGetStats:
		payload, err := json.Marshal(buildStatsPayload(s.dispatcher.Snapshot()))
		if err != nil {
			return s.errorResponse(id, CodeInternal, "failed to serialize stats", err.Error())
		}
		return s.textResult(id, string(payload))
	case toolResetStats:
		s.dispatcher.ResetStats()
		return s.textResult(id, `{"reset":true}`)
	default:
		return nil
	}
}

func (s *Server) textResult(id any, text string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]any{
			"content": []any{textContent{Type: "text", Text: text}},
		},
	}
}
