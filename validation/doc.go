// Package validation drains the deferred validation queue. Ingestion
// enqueues entities whose automated analysis looked shaky; the worker here
// claims them in priority order, re-runs the analysis authoritatively, and
// either completes the item or returns it to the queue for another
// attempt. The worker runs independently of ingestion jobs.
package validation
