// Package handlers implements HTTP handlers for the partscout API.
package handlers
