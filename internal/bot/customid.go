package bot

import "strings"

// ComponentKind says which step of a game a component continues
type ComponentKind int

const (
	ComponentAccept ComponentKind = iota + 1
	ComponentSelectChoice
)

var componentPrefixes = map[ComponentKind]string{
	ComponentAccept:       "accept-",
	ComponentSelectChoice: "select-",
}

// ComponentID is the decoded custom id of a button or select menu. The game id
// rides along in the component so no other state is needed between round trips.
type ComponentID struct {
	Kind   ComponentKind
	GameID string
}

// String encodes the id as "accept-<game>" or "select-<game>"
func (c ComponentID) String() string {
	return componentPrefixes[c.Kind] + c.GameID
}

// ParseComponentID decodes a custom id. Unknown prefixes and empty game ids
// are rejected.
func ParseComponentID(customID string) (ComponentID, bool) {
	for kind, prefix := range componentPrefixes {
		if gameID, ok := strings.CutPrefix(customID, prefix); ok && gameID != "" {
			return ComponentID{Kind: kind, GameID: gameID}, true
		}
	}
	return ComponentID{}, false
}
