// Package service contains the card management use cases: listing, editing,
// soft deletion and restore, export, and saving accepted AI suggestions.
//
// Study scheduling lives in the study subpackage and token validation in the
// auth subpackage. Services depend only on the store interfaces, never on a
// specific database driver.
package service
