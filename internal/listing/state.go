package listing

import (
	"fmt"

	"github.com/mmcdole/cinelist/internal/domain"
)

// Phase is the lifecycle position of the list
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResetting
	PhaseReady
	PhaseLoadingMore
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResetting:
		return "resetting"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loading_more"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is an immutable snapshot of the list.
// Items are the exposed items: post-filtered when a search carries genres.
// Revision increases with every change; observers can drop snapshots older
// than the last one they rendered.
type State struct {
	Items         []domain.CatalogItem   `json:"items"`
	IsLoading     bool                   `json:"isLoading"`
	IsLoadingMore bool                   `json:"isLoadingMore"`
	Err           string                 `json:"error,omitempty"`
	HasMore       bool                   `json:"hasMore"`
	Phase         Phase                  `json:"phase"`
	Params        domain.QueryParameters `json:"params"`
	Revision      uint64                 `json:"revision"`
}

// Empty reports whether a settled list has nothing to show and nothing more
// to fetch. A filtered page can expose no items while later pages still match.
func (s State) Empty() bool {
	return !s.IsLoading && s.Err == "" && len(s.Items) == 0 && !s.HasMore && s.Phase != PhaseIdle
}

// Observer is notified after every state change
type Observer interface {
	OnStateChange(State)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(State)

func (f ObserverFunc) OnStateChange(s State) { f(s) }

// ChannelObserver forwards snapshots to a channel for Bubble Tea.
// When the reader falls behind the older pending snapshot is replaced, so
// the channel always ends up holding the latest state.
type ChannelObserver struct {
	ch chan State
}

// NewChannelObserver creates an observer backed by a single-slot channel
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{ch: make(chan State, 1)}
}

// C returns the receive side
func (o *ChannelObserver) C() <-chan State {
	return o.ch
}

func (o *ChannelObserver) OnStateChange(s State) {
	for {
		select {
		case o.ch <- s:
			return
		default:
		}
		// Drop the stale pending snapshot
		select {
		case old := <-o.ch:
			if old.Revision > s.Revision {
				s = old
			}
		default:
		}
	}
}
