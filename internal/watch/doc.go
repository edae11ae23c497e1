// Package watch triggers rebuilds when files under a source tree change.
//
// Directories are watched recursively with fsnotify; new directories are
// added as they appear. Bursts of events are coalesced by a debounce timer
// and rebuilds never overlap: a change that arrives while a rebuild runs
// schedules exactly one follow-up rebuild.
package watch
