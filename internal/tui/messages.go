package tui

import (
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/listing"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StateMsg carries a list snapshot from the orchestrator
type StateMsg struct {
	State listing.State
}

// GenresLoadedMsg signals that the genre dictionary is available
type GenresLoadedMsg struct {
	Genres *domain.GenreDictionary
}

// GenresFailedMsg signals that genres could not be loaded
type GenresFailedMsg struct {
	Err error
}

// DetailLoadedMsg signals that a title's detail has been loaded
type DetailLoadedMsg struct {
	Detail *domain.TitleDetail
}

// DetailFailedMsg signals that a title's detail could not be loaded
type DetailFailedMsg struct {
	ID  string
	Err error
}

// ClearToastMsg hides the toast with the given id if it is still showing
type ClearToastMsg struct {
	ID int
}
