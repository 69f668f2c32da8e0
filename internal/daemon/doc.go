// Package daemon runs the background sweep schedule: periodic price and
// status sweeps, the daily birthday pass, and the keep-alive HTTP endpoint,
// under a single-instance file lock.
package daemon
