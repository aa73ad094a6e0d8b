// Package services contains the core business logic, orchestrating the
// driven ports behind the driving interfaces.
package services
