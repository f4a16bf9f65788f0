package platform

// Package platform contains OS/platform integration: the clock capability,
// per-user config directories, and opening project pages in the browser.
