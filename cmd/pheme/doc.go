// Command pheme is the tracker CLI and daemon entry point.
package main
