// Package notifications pushes change events and birthday greetings to the
// configured destination: Discord webhooks routed per category family, an
// ntfy topic, or a noop sink when nothing is configured.
package notifications
