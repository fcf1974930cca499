// Package orchestrator runs catalog operations off the consumer's thread
// and hands their results back onto it.
//
// Every submission belongs to a slot. Submitting to a slot makes all earlier
// submissions to the same slot stale; a stale result is still computed but
// is dropped on the consumer thread instead of being delivered. Downloads
// use the empty slot and are never dropped.
package orchestrator
