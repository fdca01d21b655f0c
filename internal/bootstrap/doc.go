// Package bootstrap brings a network service from "not running" to "accepting
// connections" exactly once per process and back down again.
//
// A Service owns its listening socket for its whole lifetime. Start binds the
// socket, logs one startup line after the bind succeeds, and hands the
// listener to a Server transport; the returned Running handle is the only way
// to stop it. Stop refuses new connections at once, then gives in-flight
// connections a bounded grace period before force-closing them.
//
// Lifecycle:
//
//	NotStarted -> Starting -> Listening -> Stopping -> Stopped
//	              Starting -> Stopped (bind failure)
package bootstrap
