// Package session manages named session files that capture editor workspace
// state.
//
// Sessions live in two namespaces: a global directory holding any number of
// session files, and a single local file with a fixed name in the working
// directory. A Registry caches what was found on disk; a Service composes the
// registry with the host's snapshot, document and current-session
// collaborators to read, write and delete sessions.
//
// Invariants:
// - The registry holds at most one record per name.
// - A local record shadows a global record of the same name.
// - Only Detect lists directories; Read, Write and Delete keep the registry
// consistent with disk.
// - Every guard failure aborts before any side effect.
//
// Usage:
//
//	svc, _ := session.NewService(session.ServiceOptions{Config: cfg, Snapshots: ws, Documents: ws, Current: ws})
//	svc.Detect()
//	_ = svc.Write(session.Named("work.json"), cfg.Defaults(session.ActionWrite))
//	_ = svc.Read(session.Default(), cfg.Defaults(session.ActionRead))
package session
