package events

import "fmt"

// Redis key pattern helpers
//
// All keys and Pub/Sub channels are namespaced by instance name so multiple
// genesis deployments can share a Redis server without interference.
//
// Key pattern: genesis:{instance}:{entity}
// Channel pattern: genesis:{instance}:{event_type}_events

// AgentEventsChannel returns the Pub/Sub channel carrying per-agent execution
// records for live consumers (the external aggregation/visualization stack).
// Pattern: genesis:{instance}:agent_events
func AgentEventsChannel(instance string) string {
	return fmt.Sprintf("genesis:%s:agent_events", instance)
}

// AgentLogKey returns the key of the capped list holding recent execution
// records for after-the-fact inspection.
// Pattern: genesis:{instance}:agent_log
func AgentLogKey(instance string) string {
	return fmt.Sprintf("genesis:%s:agent_log", instance)
}
