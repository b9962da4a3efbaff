/*
codec.go - JSON backup and restore for the player roster

PURPOSE:
  Backup produces the pretty-printed JSON the operator downloads; Restore
  validates an uploaded payload and replaces the roster wholesale. There is
  no merge. A malformed payload leaves the prior state untouched.

SHAPE VALIDATION:
  The import contract is deliberately loose — "a sequence of player-shaped
  records" — but the check is explicit and typed rather than trusting
  structure: the payload must be a JSON array whose elements decode into
  Player with a non-empty name. Unknown categories normalize to the general
  tier; missing numerics decode as zero.
*/
package loyalty

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalBackup renders the full roster as pretty-printed JSON.
func MarshalBackup(players []Player) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(players); err != nil {
		return nil, fmt.Errorf("marshal players: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseBackup decodes a backup payload into a player list. The result either
// fully replaces the roster or the payload is rejected; there is no partial
// import.
func ParseBackup(data []byte) ([]Player, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}

	players := make([]Player, 0, len(raw))
	for i, msg := range raw {
		var p Player
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedBackup, i, err)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: record %d has no name", ErrMalformedBackup, i)
		}
		if !p.Category.Valid() {
			p.Category = CategoryGeneral
		}
		players = append(players, p)
	}
	return players, nil
}
