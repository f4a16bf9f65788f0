package scheduler

// Package scheduler runs the periodic jobs of the tracker: the data refresh
// that re-reads settings, reconciles and re-scrapes, and the one second clock
// tick that drives countdowns and deadline transitions.
