// Package store implements the syncengine store interfaces on gorm and object storage.
//
// Every failure is returned as an *errors.PersistenceError naming the operation.
package store
