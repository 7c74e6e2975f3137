// Package service coordinates the marketplace entities.
//
// ListingCatalog publishes and finds listings, ReservationLedger drives the
// reservation lifecycle and its side effects on listings and the calendar,
// TransactionLedger settles purchases, RatingService records ratings and
// AccountRegistry holds the members.
//
// The services keep their state in memory and are not safe for concurrent
// use: callers that share them between goroutines serialize access.
package service
