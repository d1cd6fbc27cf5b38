package league

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	fuzzy "github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
	"github.com/yfantasy-go/yfantasy/internal/platform/cache"
)

// The provider caps multi-player requests at 25 keys.
const MaxPlayerBatch = 25

// Players is a session context for player-level lookups within one league.
// Detail documents, search results, and the resolved stat-ID map live for the
// lifetime of the context.
type Players struct {
	lg       *League
	gameCode string
	store    *cache.Store
}

func (l *League) Players(gameCode string) *Players {
	return &Players{
		lg:       l,
		gameCode: gameCode,
		store:    cache.NewStore(0),
	}
}

// ResetCaches drops memoized details, searches, and the stat-ID map.
func (p *Players) ResetCaches() {
	p.store.Reset()
}

// Details fetches the full detail document for each player ID. Cached
// entries are served locally; the remainder is fetched in batches of up to
// 25 keys. Results come back in request order. When a multi-player request
// resolves only some IDs the missing ones are dropped from the result; a
// single-ID request fails instead.
func (p *Players) Details(ctx context.Context, playerIDs []int) ([]fantasy.PlayerProfile, error) {
	var missing []int
	for _, id := range playerIDs {
		if _, ok := p.store.Get(ctx, detailKey(id)); !ok {
			missing = append(missing, id)
		}
	}

	for _, chunk := range chunkInts(missing, MaxPlayerBatch) {
		doc, err := p.lg.api.PlayersByKeysRaw(ctx, p.lg.leagueID, chunk)
		if err != nil {
			return nil, err
		}
		for _, profile := range playerProfilesFromDoc(doc) {
			if id := getInt(profile, "player_id"); id != 0 {
				p.store.Set(ctx, detailKey(id), profile)
			}
		}
	}

	out := make([]fantasy.PlayerProfile, 0, len(playerIDs))
	for _, id := range playerIDs {
		value, ok := p.store.Get(ctx, detailKey(id))
		if !ok {
			if len(playerIDs) == 1 {
				return nil, fmt.Errorf("%w: player %d", fantasy.ErrNotFound, id)
			}
			continue
		}
		out = append(out, value.(fantasy.PlayerProfile))
	}
	return out, nil
}

// Search fetches detail documents for players whose names match the search
// term. Results are memoized per literal search string.
func (p *Players) Search(ctx context.Context, name string) ([]fantasy.PlayerProfile, error) {
	value, err := p.store.GetOrLoad(ctx, "search:"+name, func(ctx context.Context) (any, error) {
		doc, err := p.lg.api.SearchPlayersRaw(ctx, p.lg.leagueID, name)
		if err != nil {
			return nil, err
		}
		profiles := playerProfilesFromDoc(doc)
		for _, profile := range profiles {
			if id := getInt(profile, "player_id"); id != 0 {
				p.store.Set(ctx, detailKey(id), profile)
			}
		}
		return profiles, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]fantasy.PlayerProfile), nil
}

// MatchByName searches for a player and returns the candidate whose name is
// the closest fuzzy match to the query.
func (p *Players) MatchByName(ctx context.Context, name string) (fantasy.PlayerProfile, error) {
	profiles, err := p.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	ranked := RankProfilesByName(name, profiles)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: no player matching %q", fantasy.ErrNotFound, name)
	}
	return ranked[0], nil
}

// RankProfilesByName orders candidate profiles by edit distance between their
// full name and the query, closest first. The sort is stable so provider
// order breaks ties.
func RankProfilesByName(name string, profiles []fantasy.PlayerProfile) []fantasy.PlayerProfile {
	ranked := make([]fantasy.PlayerProfile, len(profiles))
	copy(ranked, profiles)
	sort.SliceStable(ranked, func(i, j int) bool {
		return fuzzy.LevenshteinDistance(name, playerFullName(ranked[i])) <
			fuzzy.LevenshteinDistance(name, playerFullName(ranked[j]))
	})
	return ranked
}

var statRequestTypes = map[string]struct{}{
	"season":         {},
	"average_season": {},
	"date":           {},
	"lastweek":       {},
	"lastmonth":      {},
}

// Stats fetches stat lines for the given players. reqType selects the
// window: season, average_season, date, lastweek, or lastmonth. day
// qualifies the date type; season qualifies the season types (zero means the
// current season). Stat IDs are translated to display names via the resolved
// stat-ID map; unmapped IDs are dropped.
func (p *Players) Stats(ctx context.Context, playerIDs []int, reqType string, day time.Time, season int) ([]fantasy.StatRow, error) {
	if _, ok := statRequestTypes[reqType]; !ok {
		return nil, fmt.Errorf("%w: unknown stat request type %q", fantasy.ErrInvalidRequest, reqType)
	}

	idMap, err := p.statIDMap(ctx)
	if err != nil {
		return nil, err
	}

	var out []fantasy.StatRow
	for _, chunk := range chunkInts(playerIDs, MaxPlayerBatch) {
		doc, err := p.lg.api.PlayerStatsRaw(ctx, p.gameCode, chunk, reqType, day, season)
		if err != nil {
			return nil, err
		}
		out = append(out, statRowsFromDoc(doc, idMap)...)
	}
	return out, nil
}

// statIDMap overlays the static per-sport table with the scoring categories
// from league settings; the league's display names win.
func (p *Players) statIDMap(ctx context.Context) (map[int]string, error) {
	value, err := p.store.GetOrLoad(ctx, "stat_id_map", func(ctx context.Context) (any, error) {
		doc, err := p.lg.api.SettingsRaw(ctx, p.lg.leagueID)
		if err != nil {
			return nil, err
		}

		idMap := staticStatIDMap(p.gameCode)
		categoriesNode, ok := firstNode(doc, "stat_categories")
		if !ok {
			return idMap, nil
		}
		for _, node := range collectNodes(categoriesNode, "stat") {
			stat, ok := node.(map[string]any)
			if !ok {
				continue
			}
			statID, ok := asInt(stat["stat_id"])
			if !ok {
				continue
			}
			if name := getString(stat, "display_name"); name != "" {
				idMap[statID] = name
			}
		}
		return idMap, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(map[int]string), nil
}

func statRowsFromDoc(doc map[string]any, idMap map[int]string) []fantasy.StatRow {
	playersNode, _ := firstNode(doc, "players")
	container, _ := playersNode.(map[string]any)

	var out []fantasy.StatRow
	for _, item := range indexedItems(container) {
		profile := playerProfileFromItem(item)
		if profile == nil {
			continue
		}
		row := fantasy.StatRow{
			PlayerID:     getInt(profile, "player_id"),
			Name:         playerFullName(profile),
			PositionType: getString(profile, "position_type"),
			Stats:        make(map[string]any),
		}

		statsNode, ok := firstNode(item, "player_stats")
		if !ok {
			out = append(out, row)
			continue
		}
		for _, node := range collectNodes(statsNode, "stat") {
			stat, ok := node.(map[string]any)
			if !ok {
				continue
			}
			statID, ok := asInt(stat["stat_id"])
			if !ok {
				continue
			}
			name, mapped := idMap[statID]
			if !mapped {
				continue
			}
			row.Stats[name] = statValue(stat["value"])
		}
		out = append(out, row)
	}
	return out
}

// playerProfilesFromDoc flattens every player entry of a detail document.
// The provider reports player_id as a string; profiles carry it as an int.
func playerProfilesFromDoc(doc map[string]any) []fantasy.PlayerProfile {
	playersNode, _ := firstNode(doc, "players")
	container, _ := playersNode.(map[string]any)

	var out []fantasy.PlayerProfile
	for _, item := range indexedItems(container) {
		profile := playerProfileFromItem(item)
		if profile == nil {
			continue
		}
		if id, ok := asInt(profile["player_id"]); ok {
			profile["player_id"] = id
		}
		out = append(out, fantasy.PlayerProfile(profile))
	}
	return out
}

func detailKey(playerID int) string {
	return "detail:" + strconv.Itoa(playerID)
}

func chunkInts(values []int, size int) [][]int {
	if size <= 0 || len(values) == 0 {
		return nil
	}
	var out [][]int
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		out = append(out, values[start:end])
	}
	return out
}
