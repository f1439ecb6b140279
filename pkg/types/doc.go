// Package types defines the Store, Tx and Collection interfaces, the survey
// record types (Village, House, Member, AadhaarImage, Setting), and the
// standard errors shared by the census packages.
//
// Records move through a Collection as pointers to these structs; Get and
// GetAll return any and callers type-assert to the concrete record.
package types
