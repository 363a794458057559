// Package main provides the entry point of the quality-assurance office back-office.
// It starts a Fiber based JSON API that manages roles, their permission sets and
// their user memberships on top of a gorm backed relational store.
package main
