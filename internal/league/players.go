package league

import (
	"context"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
)

// The provider pages listings 25 players at a time.
const listingPageSize = 25

// FreeAgents lists unowned players eligible at the given position. Results
// are memoized per position for the life of the session.
func (l *League) FreeAgents(ctx context.Context, position string) ([]fantasy.PlayerRecord, error) {
	value, err := l.store.GetOrLoad(ctx, "fa:"+position, func(ctx context.Context) (any, error) {
		return l.fetchPlayerListing(ctx, "FA", position)
	})
	if err != nil {
		return nil, err
	}
	return value.([]fantasy.PlayerRecord), nil
}

// Waivers lists players currently clearing waivers.
func (l *League) Waivers(ctx context.Context) ([]fantasy.PlayerRecord, error) {
	value, err := l.store.GetOrLoad(ctx, "waivers", func(ctx context.Context) (any, error) {
		return l.fetchPlayerListing(ctx, "W", "")
	})
	if err != nil {
		return nil, err
	}
	return value.([]fantasy.PlayerRecord), nil
}

// TakenPlayers lists players on team rosters.
func (l *League) TakenPlayers(ctx context.Context) ([]fantasy.PlayerRecord, error) {
	value, err := l.store.GetOrLoad(ctx, "taken", func(ctx context.Context) (any, error) {
		return l.fetchPlayerListing(ctx, "T", "")
	})
	if err != nil {
		return nil, err
	}
	return value.([]fantasy.PlayerRecord), nil
}

// fetchPlayerListing walks the paged listing until the provider hands back a
// page with no usable rows. The offset advances by the number of entries the
// page actually carried, NA'd players included, so filtered rows never skew
// pagination.
func (l *League) fetchPlayerListing(ctx context.Context, status, position string) ([]fantasy.PlayerRecord, error) {
	var out []fantasy.PlayerRecord
	seen := make(map[int]struct{})
	offset := 0

	for {
		doc, err := l.api.PlayersRaw(ctx, l.leagueID, offset, status, position)
		if err != nil {
			return nil, err
		}

		pageCount, records := playersFromPage(doc)
		if len(records) == 0 {
			break
		}
		for _, record := range records {
			if _, dup := seen[record.PlayerID]; dup {
				continue
			}
			seen[record.PlayerID] = struct{}{}
			out = append(out, record)
		}

		offset += pageCount
		if pageCount%listingPageSize != 0 {
			break
		}
	}

	l.logger.DebugContext(ctx, "player listing fetched",
		"status", status, "position", position, "players", len(out))
	return out, nil
}

// playersFromPage extracts one page. The returned count is the number of
// entries on the page before status filtering.
func playersFromPage(doc map[string]any) (int, []fantasy.PlayerRecord) {
	playersNode, _ := firstNode(doc, "players")
	container, _ := playersNode.(map[string]any)

	items := indexedItems(container)
	ownership := percentOwnedSequence(items)

	var out []fantasy.PlayerRecord
	for i, item := range items {
		profile := playerProfileFromItem(item)
		if profile == nil {
			continue
		}
		if getString(profile, "status") == "NA" {
			continue
		}

		record := fantasy.PlayerRecord{
			PlayerID:          getInt(profile, "player_id"),
			Name:              playerFullName(profile),
			Status:            getString(profile, "status"),
			PositionType:      getString(profile, "position_type"),
			EligiblePositions: eligiblePositions(profile),
		}
		if i < len(ownership) {
			record.PercentOwned = ownership[i]
		}
		out = append(out, record)
	}
	return len(items), out
}

// percentOwnedSequence pulls the ownership figure for every page entry in
// index order, defaulting to zero when the fragment is absent. Aligning by
// index keeps the aux data matched to its player.
func percentOwnedSequence(items []any) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		pct := 0
		if node, ok := firstNode(item, "percent_owned"); ok {
			if raw, ok := firstNode(node, "value"); ok {
				if parsed, ok := asInt(raw); ok {
					pct = parsed
				}
			}
		}
		out = append(out, pct)
	}
	return out
}

// PercentOwned reports weekly ownership percentages for specific players.
func (l *League) PercentOwned(ctx context.Context, playerIDs []int) ([]fantasy.PercentOwnedEntry, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	doc, err := l.api.PercentOwnedRaw(ctx, l.leagueID, playerIDs)
	if err != nil {
		return nil, err
	}

	playersNode, _ := firstNode(doc, "players")
	container, _ := playersNode.(map[string]any)
	items := indexedItems(container)
	ownership := percentOwnedSequence(items)

	var out []fantasy.PercentOwnedEntry
	for i, item := range items {
		profile := playerProfileFromItem(item)
		if profile == nil {
			continue
		}
		entry := fantasy.PercentOwnedEntry{
			PlayerID: getInt(profile, "player_id"),
			Name:     playerFullName(profile),
		}
		if i < len(ownership) {
			entry.PercentOwned = ownership[i]
		}
		out = append(out, entry)
	}
	return out, nil
}

// Ownership reports who owns each requested player, keyed by player ID.
func (l *League) Ownership(ctx context.Context, playerIDs []int) (map[int]fantasy.OwnershipInfo, error) {
	if len(playerIDs) == 0 {
		return map[int]fantasy.OwnershipInfo{}, nil
	}
	doc, err := l.api.OwnershipRaw(ctx, l.leagueID, playerIDs)
	if err != nil {
		return nil, err
	}

	playersNode, _ := firstNode(doc, "players")
	container, _ := playersNode.(map[string]any)

	out := make(map[int]fantasy.OwnershipInfo)
	for _, item := range indexedItems(container) {
		profile := playerProfileFromItem(item)
		if profile == nil {
			continue
		}
		playerID := getInt(profile, "player_id")
		if playerID == 0 {
			continue
		}
		info := fantasy.OwnershipInfo{}
		if node, ok := firstNode(item, "ownership"); ok {
			if m, ok := node.(map[string]any); ok {
				info.OwnershipType = getString(m, "ownership_type")
				info.OwnerTeamKey = getString(m, "owner_team_key")
				info.OwnerTeamName = getString(m, "owner_team_name")
			}
		}
		out[playerID] = info
	}
	return out, nil
}

func playerProfileFromItem(item any) map[string]any {
	wrapper, ok := item.(map[string]any)
	if !ok {
		return nil
	}
	playerArr, ok := wrapper["player"]
	if !ok {
		return nil
	}
	return foldFragments(playerArr)
}

func playerFullName(profile map[string]any) string {
	if nameNode, ok := profile["name"].(map[string]any); ok {
		return firstNonEmpty(getString(nameNode, "full"), getString(nameNode, "ascii_full"))
	}
	return getString(profile, "name")
}

func eligiblePositions(profile map[string]any) []string {
	raw, ok := profile["eligible_positions"]
	if !ok {
		return nil
	}
	var out []string
	for _, node := range collectNodes(raw, "position") {
		if pos, ok := node.(string); ok {
			out = append(out, pos)
		}
	}
	return out
}
