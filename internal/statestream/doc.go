// Package statestream materialises a live view of Home Assistant entities
// from the mqtt_statestream integration.
//
// Home Assistant publishes retained messages to
// {base_topic}/{domain}/{object_id}/{attribute}; the leaf "state" carries
// the entity's state value and every other leaf carries one attribute,
// JSON-encoded. The Consumer subscribes to the whole tree and folds each
// message into a Store, from which the preview engine takes point-in-time
// snapshots for binding evaluation.
//
// Because statestream messages are retained, a fresh subscription replays
// the full entity population; the designer needs no request/response
// handshake with Home Assistant to warm up.
package statestream
