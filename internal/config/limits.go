package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxPathDepth bounds every ancestor-chain walk (path materialization,
	// cycle detection, breadcrumbs). Hitting the cap means the chain is
	// corrupt; walks stop and return the partial result instead of looping.
	MaxPathDepth = 20

	// MaxTreeRenderDepth caps how deep the presentation tree nests.
	// Purely a rendering concern: deeper folders still appear, with empty
	// child slices. Not related to MaxPathDepth, which is a correctness cap.
	MaxTreeRenderDepth = 3

	// MaxMoveBatchSize bounds a single smart-move request.
	MaxMoveBatchSize = 100
)
