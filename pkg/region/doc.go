// Package region keeps the published track layout of every region.
//
// A scan builds a fresh [pipeline.Result] off to the side and publishes it
// with a single atomic pointer swap, so readers never observe a partially
// built layout. Scans of the same region are serialized; scans of different
// regions may run concurrently. A failed scan publishes nothing and readers
// keep seeing the previous result.
package region
