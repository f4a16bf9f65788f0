package registry

// Package registry owns every tracked project. It diffs the desired identifier
// set against what is live or dormant, moves projects between the Active and
// Completed containers, and keeps the presentation surface in step with each
// successful scrape and each clock tick.
