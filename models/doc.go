// Package models contains value types shared across the edge server.
package models
