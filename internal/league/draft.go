package league

import (
	"context"
	"regexp"
	"strconv"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
)

var playerKeyRegex = regexp.MustCompile(`\.p\.([0-9]+)$`)

// DraftResults returns every pick of the league draft in pick order. Picks
// are identified by numeric player ID; the provider's composite player key is
// reduced to that ID.
func (l *League) DraftResults(ctx context.Context) ([]fantasy.DraftPick, error) {
	value, err := l.store.GetOrLoad(ctx, "draft", func(ctx context.Context) (any, error) {
		doc, err := l.api.DraftResultsRaw(ctx, l.leagueID)
		if err != nil {
			return nil, err
		}
		return draftPicksFromDoc(doc), nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]fantasy.DraftPick), nil
}

func draftPicksFromDoc(doc map[string]any) []fantasy.DraftPick {
	resultsNode, _ := firstNode(doc, "draft_results")
	container, _ := resultsNode.(map[string]any)

	var out []fantasy.DraftPick
	for _, item := range indexedItems(container) {
		wrapper, ok := item.(map[string]any)
		if !ok {
			continue
		}
		result, ok := wrapper["draft_result"].(map[string]any)
		if !ok {
			continue
		}
		out = append(out, fantasy.DraftPick{
			Pick:     getInt(result, "pick"),
			Round:    getInt(result, "round"),
			Cost:     getString(result, "cost"),
			TeamKey:  getString(result, "team_key"),
			PlayerID: playerIDFromKey(getString(result, "player_key")),
		})
	}
	return out
}

func playerIDFromKey(playerKey string) int {
	match := playerKeyRegex.FindStringSubmatch(playerKey)
	if len(match) != 2 {
		return 0
	}
	id, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return id
}
