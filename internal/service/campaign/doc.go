// Package campaign persists finalized campaign drafts.
//
// The service validates the mapped form data and delegates storage to a
// Repository: the CMS client in cms/, repository/postgres/ or
// repository/memory/.
package campaign
