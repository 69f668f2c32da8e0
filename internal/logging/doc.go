// Package logging builds the process-wide slog logger: a key=value console
// handler for interactive use and a JSON handler for log files, selected by
// configuration. Components attach themselves with NewComponentLogger so the
// console line reads "component: message".
package logging
