// Package createdat derives a best-effort creation timestamp for an image
// from its decoded EXIF fields, its filename and its modification time.
package createdat
