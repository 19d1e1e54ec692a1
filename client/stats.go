package client

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pingcap/errors"
)

// StatsModules are the server modules the stats command can introspect.
var StatsModules = []string{"server", "forwarder", "sequencer", "scheduler"}

// PrintStats pretty-prints a stats JSON blob returned by the server.
// Unknown fields are preserved; list fields are truncated at truncate
// entries.
func PrintStats(w io.Writer, module, statsJSON string, level uint64, truncate int) error {
	var stats map[string]json.RawMessage
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		return errors.Annotate(err, "parse stats json")
	}
	switch module {
	case "server":
		printScalar(w, stats, "txn_id_counter", "Txn id counter")
		printScalar(w, stats, "num_pending_responses", "Pending responses")
		printScalar(w, stats, "num_partially_finished_txns", "Partially finished txns")
		if level >= 1 {
			printList(w, stats, "pending_responses", "Pending responses (txn_id, stream_id)", truncate)
			printList(w, stats, "partially_finished_txns", "Partially finished txns", truncate)
		}
	case "forwarder":
		printScalar(w, stats, "batch_size", "Batch size")
		printScalar(w, stats, "num_pending_txns", "Num pending txns")
		printList(w, stats, "latencies_ns", "Latencies (ns)", truncate)
		if level > 0 {
			printList(w, stats, "pending_txns", "Pending txns", truncate)
		}
	case "sequencer":
		printScalar(w, stats, "batch_size", "Batch size")
		printScalar(w, stats, "num_future_txns", "Num future txns")
		if level > 0 {
			printList(w, stats, "future_txns", "Future txns", truncate)
		}
	case "scheduler":
		printScalar(w, stats, "num_all_txns", "Number of active txns")
		printScalar(w, stats, "num_txns_waiting_for_lock", "Waiting txns")
		printScalar(w, stats, "num_locked_keys", "Locked keys")
		if level >= 1 {
			printList(w, stats, "all_txns", "Active transactions", truncate)
		}
		if level >= 2 {
			printList(w, stats, "lock_table", "Lock table", truncate)
		}
	default:
		return errors.Errorf("invalid module: %s, modules are: server, forwarder, sequencer, scheduler", module)
	}
	return nil
}

func printScalar(w io.Writer, stats map[string]json.RawMessage, key, label string) {
	if raw, ok := stats[key]; ok {
		fmt.Fprintf(w, "%s: %s\n", label, string(raw))
	}
}

func printList(w io.Writer, stats map[string]json.RawMessage, key, label string, truncate int) {
	raw, ok := stats[key]
	if !ok {
		return
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		fmt.Fprintf(w, "%s: %s\n", label, string(raw))
		return
	}
	fmt.Fprintf(w, "%s:\n", label)
	for i, item := range items {
		if truncate > 0 && i >= truncate {
			fmt.Fprintln(w, "(truncated)")
			return
		}
		fmt.Fprintf(w, "\t%s\n", string(item))
	}
}
