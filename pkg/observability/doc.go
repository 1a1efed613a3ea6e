/*
Package observability provides monitoring for paint boards.

It turns board lifecycle hooks into Prometheus metrics and structured log lines, so
servers can expose /metrics and audit every toggle, undo and redo.
*/
package observability
