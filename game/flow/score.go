package flow

import (
	"strings"

	"github.com/lixenwraith/vi-pinball/parameter"
)

// ScoreFor maps a contact identifier to points by its prefix, "bumper.2" scores as a bumper
func ScoreFor(contactID string) int64 {
	kind, _, _ := strings.Cut(contactID, ".")
	switch kind {
	case "bumper":
		return parameter.ScoreBumper
	case "sling":
		return parameter.ScoreSling
	case "target":
		return parameter.ScoreTarget
	case "saucer":
		return parameter.ScoreSaucer
	}
	return 0
}
