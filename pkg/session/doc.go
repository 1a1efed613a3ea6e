/*
Package session implements board session management.

It serializes toggle/undo/redo on each board across goroutines (and, with a
DistributedLocker, across replicas), loading the board snapshot from a ports.BoardStore,
applying the operation and saving the result under one lock.
*/
package session
