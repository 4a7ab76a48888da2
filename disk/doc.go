// Package disk is a thin, serialising wrapper over a diskkv.Engine. It
// holds a mutex around every engine call and exposes a byte-level,
// opaque-payload cache surface: contains/get/set/remove/remove_all plus
// count/size/trim operations. It additionally chooses, per value, between
// inline and external storage using an inline_threshold, and derives
// external filenames deterministically from the key.
package disk
