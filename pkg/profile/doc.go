// Package profile defines the captured faces of a facesvg document.
// A Collection is produced fresh by each evaluation of a capture script and
// is never mutated once returned.
package profile
