// Package events emits the structured observability records for the pipeline.
//
// Each agent invocation produces exactly one ExecutionRecord. Records are always
// written to stdout as single-line JSON for log shippers to scrape; when a Redis
// address is configured they are additionally published on a namespaced channel
// and retained in a capped list for external aggregation stacks.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/genesisforge/genesis/pkg/pipeline"
)

// serviceName tags every record for log aggregation.
const serviceName = "genesis_pipeline"

// agentLogMaxLen caps the Redis retention list.
const agentLogMaxLen = 1000

// ExecutionRecord is the observability contract for one agent invocation.
type ExecutionRecord struct {
	Service       string          `json:"service"`
	Instance      string          `json:"instance"`
	RunID         string          `json:"run_id"`
	Agent         string          `json:"agent"`
	ExecutionTime float64         `json:"execution_time"` // Seconds
	TokensUsed    int             `json:"tokens_used"`
	Status        pipeline.Status `json:"status"`
	Error         string          `json:"error,omitempty"`
	Timestamp     string          `json:"timestamp"` // RFC 3339, UTC
}

// RecordFromMetric builds an ExecutionRecord from a pipeline metric.
func RecordFromMetric(instance, runID string, m pipeline.Metric) ExecutionRecord {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return ExecutionRecord{
		Service:       serviceName,
		Instance:      instance,
		RunID:         runID,
		Agent:         m.Agent,
		ExecutionTime: m.Duration.Seconds(),
		TokensUsed:    m.TokensUsed,
		Status:        m.Status,
		Error:         m.Error,
		Timestamp:     ts.UTC().Format(time.RFC3339),
	}
}

// Logger writes execution records and pipeline lifecycle events.
// A nil *Logger is valid and drops everything, so callers never need nil checks.
type Logger struct {
	instance string
	rdb      *redis.Client // nil when no Redis sink is configured
}

// NewLogger creates a logger for the given instance. redisAddr is optional;
// when empty, records go to stdout only.
func NewLogger(instance, redisAddr string) *Logger {
	l := &Logger{instance: instance}
	if redisAddr != "" {
		l.rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
	}
	return l
}

// Close releases the Redis connection, if any.
func (l *Logger) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

// LogExecution emits one agent execution record. Redis failures are logged and
// swallowed: observability must never fail the run.
func (l *Logger) LogExecution(ctx context.Context, rec ExecutionRecord) {
	if l == nil {
		return
	}
	if rec.Service == "" {
		rec.Service = serviceName
	}
	if rec.Instance == "" {
		rec.Instance = l.instance
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		log.Printf("[Events] Failed to marshal execution record: %v", err)
		return
	}
	log.Println(string(payload))

	if l.rdb == nil {
		return
	}
	channel := AgentEventsChannel(l.instance)
	if err := l.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("[Events] Failed to publish execution record: %v", err)
		return
	}
	key := AgentLogKey(l.instance)
	pipe := l.rdb.Pipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, -agentLogMaxLen, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Events] Failed to retain execution record: %v", err)
	}
}

// LogMetric emits the execution record for one pipeline metric.
func (l *Logger) LogMetric(ctx context.Context, runID string, m pipeline.Metric) {
	if l == nil {
		return
	}
	l.LogExecution(ctx, RecordFromMetric(l.instance, runID, m))
}

// Event emits a structured pipeline lifecycle event (run started, run complete,
// artifact written) to stdout as single-line JSON.
func (l *Logger) Event(eventType string, data map[string]interface{}) {
	if l == nil {
		return
	}
	if data == nil {
		data = make(map[string]interface{})
	}
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["service"] = serviceName
	data["instance"] = l.instance
	data["event_type"] = eventType

	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Events] Failed to marshal event: %v", err)
		return
	}
	log.Println(string(payload))
}

// Ping verifies Redis connectivity when a sink is configured. Useful at startup
// to warn early about a misconfigured address.
func (l *Logger) Ping(ctx context.Context) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Ping(ctx).Err()
}
