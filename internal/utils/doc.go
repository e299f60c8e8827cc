// Package utils holds small HTTP helpers shared by the edge handlers.
package utils
