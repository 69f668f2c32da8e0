// Package birthday reads the pipe-delimited birthday file and produces the
// day's greetings.
package birthday
