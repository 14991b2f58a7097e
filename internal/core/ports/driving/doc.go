// Package driving defines the interfaces external actors (TUI, CLI)
// use to reach core services. These are the "driving" ports in
// hexagonal architecture terminology - they drive the application.
//
// The ports:
//
//   - AnnotationTracker: Registers annotations on a document and keeps
//     their spans correct while the user edits
//   - DocumentSearch: A find/replace session over one open document
//   - WorkspaceSearch: A scan session over every file in the workspace
//   - OverlayService: Maps annotation spans to anchored overlay geometry
//   - Settings: Application settings access and persistence
//
// Implementations live in internal/core/services.
package driving
