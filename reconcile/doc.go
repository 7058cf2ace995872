// Package reconcile tracks desired vs. confirmed state for a fixed set of
// named renderer settings and keeps the remote renderer converged on the
// client's intent.
//
// # Overview
//
// A Store owns one Setting per key, registered once at construction. Writers
// update the desired state through Set; the store serializes and sends the
// change over the session transport, then either assumes it applied (for
// settings the server never confirms) or waits for a completion notification.
// A periodic staleness poll re-sends unconfirmed changes and, after a bounded
// number of missed confirmations, marks the session timed out and forces a
// disconnect.
//
// # Usage
//
//	store, err := reconcile.NewStore(tr, reconcile.DefaultSettings(), reconcile.DefaultConfig())
//	if err != nil { ... }
//	defer store.Close()
//
//	store.Set("viewingMode", protocol.VariantSelection{
//	    PrimPath:   "/Root/Purse",
//	    VariantSet: "viewingMode",
//	    Variant:    "tabletop",
//	})
//
//	if store.IsAwaitingCompletion("viewingMode") {
//	    // show a spinner until the renderer confirms
//	}
//
// # Concurrency
//
// All reads and mutations of the setting map funnel through one mutex. The
// public accessors, the acknowledgment listener, and the staleness poll never
// observe a torn intermediate state; a reconciliation pass scans and sends
// for every divergent key inside a single critical section.
//
// # Failure Model
//
// Writes to unknown keys or to keys awaiting completion are dropped and
// logged, not queued. Malformed inbound messages are dropped. The only fatal
// condition is confirmation starvation: once a key misses its retry budget
// the store sets the TimedOut flag, fires OnTimeout callbacks, and disconnects
// the transport. The consumer reacts by surfacing the failure and calling
// Resync after reconnecting.
package reconcile
