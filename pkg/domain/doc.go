/*
Package domain contains the core domain models for the paint board.

It defines the value types shared by every layer: coordinates and their lookup keys,
the recorded paint actions, and the serializable board snapshot. This package is kept
pure and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Coordinate: An (x, y) integer pair identifying a grid cell. Identity is by value.
  - CoordinateKey: The collision-free string form of a Coordinate used for lookups.
  - Action: A recorded PAINT or DELETE mutation together with its coordinate.
  - Snapshot: The full state of one board session (painted cells plus both history stacks).
  - BoardDiff: The cells painted or erased between two snapshots, for incremental rendering.
*/
package domain
