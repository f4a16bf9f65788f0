package model

// Package model defines domain data structures used across the app: scraped
// project snapshots, tracked project entities, and lifecycle enums. Structures
// are designed for direct rendering in the UI and explicit state transitions.
