package models

import "time"

// Image is the metadata row for one processed attachment. StorageKey is the
// object key in the S3-compatible backend; the blob itself never touches the
// database.
type Image struct {
	ID           int64
	StorageKey   string
	OriginalName string
	Size         int64
	CreatedAt    time.Time
}
