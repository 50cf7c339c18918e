// Package services contains the application services of the blogsync
// client. PostService and DraftService compose the fetch coordinator, the
// mutation controller and the session into the reads and writes the CLI
// offers.
package services
