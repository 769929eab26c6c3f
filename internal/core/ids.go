package core

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Record IDs are content-addressed so repeated syncs of unchanged source data
// converge on the same rows instead of duplicating them. The digest inputs
// below are a stable contract; changing them orphans every previously synced
// record.
//
// Purchase IDs are keyed by sheet name and 0-based data-row index, which means
// inserting or deleting a row mid-sheet reassigns the IDs of everything below
// it. That is a known property of the scheme, not something to correct here.

func hashKey(parts ...string) string {
	var combined string
	for i, p := range parts {
		if i > 0 {
			combined += "_"
		}
		combined += p
	}
	sum := md5.Sum([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// PurchaseID derives the stable ID of a purchase from its sheet and data-row
// index (header row excluded).
func PurchaseID(sheetName string, rowIndex int) string {
	return hashKey(sheetName, fmt.Sprintf("%d", rowIndex))
}

// TripID derives the stable ID of a trip from its natural key.
func TripID(name string, start, end Date) string {
	return hashKey(name, start.String(), end.String())
}

// TotalID derives the stable ID of a totals row. tripName is empty for
// monthly totals.
func TotalID(sheetName, totalType, tripName string) string {
	if tripName != "" {
		return hashKey(sheetName, totalType, tripName)
	}
	return hashKey(sheetName, totalType)
}
