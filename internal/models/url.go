// Package models defines the domain types shared across the application:
// tracked URLs and the checks recorded against them.
package models

import "time"

// URL represents a tracked page in its normalized scheme://host form.
type URL struct {
	// ID is the unique identifier for the tracked URL record.
	ID int64
	// Name is the normalized scheme://host form of the submitted URL.
	// It is unique across all rows.
	Name string
	// CreatedAt is the timestamp indicating when the URL was submitted.
	CreatedAt time.Time
}

// URLCheck represents one fetch-and-extract attempt against a tracked URL.
type URLCheck struct {
	// ID is the unique identifier for the check record.
	ID int64
	// URLID references the URL this check was run against.
	URLID int64
	// StatusCode is the HTTP status of the fetch. It is nil only for
	// rows whose fetch yielded no response.
	StatusCode *int
	// H1 is the trimmed text of the first h1 element, empty when absent.
	H1 string
	// Title is the trimmed text of the first title element, empty when absent.
	Title string
	// Description is the content of the first meta description, empty when absent.
	Description string
	// CreatedAt is the timestamp of the check attempt.
	CreatedAt time.Time
}

// URLSummary pairs a tracked URL with its most recent check, if any.
type URLSummary struct {
	URL
	// LastCheck is the check with the maximum CreatedAt among the URL's
	// checks, or nil if the URL has never been checked.
	LastCheck *URLCheck
}
