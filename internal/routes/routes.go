// Package routes defines HTTP route constants for the application.
package routes

// Ops
const (
	RobotsPath     = "/robots.txt"
	MetricsPath    = "/metrics"
	SyntaxThemeGet = "/syntax-theme/{theme}"
)

// Editor API
const (
	APISessions = "/api/editor/sessions"

	// Relative to APISessions/{id}
	SessionDraft         = "/draft"
	SessionGenerate      = "/generate"
	SessionImprove       = "/improve/{kind}"
	SessionUndo          = "/undo"
	SessionRedo          = "/redo"
	SessionKeys          = "/keys"
	SessionImages        = "/images/{purpose}"
	SessionFeaturedImage = "/images/featured"
	SessionPreview       = "/preview"
	SessionExport        = "/export"
	SessionPublish       = "/publish"
	SessionEvents        = "/events"
)

// Published posts
const (
	APIPosts = "/api/posts"
	APIPost  = "/api/posts/{id}"
)
