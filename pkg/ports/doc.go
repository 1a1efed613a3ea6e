/*
Package ports defines the driven ports (interfaces) for the paint board.

These interfaces decouple board sessions from external implementations, allowing
the session manager to work with various storage backends and lock providers.

# Key Interfaces

  - BoardStore: Holds live session snapshots (memory for a single process, Redis for replicas).
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
